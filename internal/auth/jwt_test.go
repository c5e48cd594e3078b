package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueParseRoundTrip(t *testing.T) {
	p := Principal{ID: "u1", Email: "ab1234@nyu.edu", NetID: "ab1234", Name: "Alice B", Admin: true}

	token, exp, err := Issue(p, "statusboard", "secret", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	got, err := Parse(token, "secret", "statusboard")
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestParseRejectsWrongKey(t *testing.T) {
	token, _, err := Issue(Principal{NetID: "ab1234"}, "statusboard", "secret", time.Hour)
	require.NoError(t, err)

	_, err = Parse(token, "other-secret", "statusboard")
	assert.Error(t, err)
}

func TestParseRejectsIssuerMismatch(t *testing.T) {
	token, _, err := Issue(Principal{NetID: "ab1234"}, "someone-else", "secret", time.Hour)
	require.NoError(t, err)

	_, err = Parse(token, "secret", "statusboard")
	assert.EqualError(t, err, "issuer mismatch")
}

func TestParseRejectsExpired(t *testing.T) {
	token, _, err := Issue(Principal{NetID: "ab1234"}, "statusboard", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token, "secret", "statusboard")
	assert.Error(t, err)
}
