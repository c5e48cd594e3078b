package sso

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBypass(t *testing.T) {
	var nilClient *Client
	assert.Nil(t, nilClient.Bypass(), "nil client never bypasses")
	assert.Nil(t, New("", false).Bypass(), "bypass off")

	p := New("", true).Bypass()
	require.NotNil(t, p)
	assert.True(t, p.Admin)
	assert.True(t, p.SSO)
	assert.Equal(t, "dev", p.NetID)
}

func TestPrincipalFromAssertion(t *testing.T) {
	c := New("https://idp.example.edu/metadata", false)

	p := c.Principal(Assertion{
		NameID:     "ab1234",
		Email:      "AB1234@NYU.EDU",
		GivenName:  "Alice",
		FamilyName: "B",
	})
	assert.Equal(t, "ab1234", p.NetID)
	assert.Equal(t, "ab1234@nyu.edu", p.Email)
	assert.Equal(t, "Alice B", p.Name)
	assert.True(t, p.SSO)
	assert.False(t, p.Admin, "admin never comes from the assertion")

	// NameID absent: netid falls back to the email local part.
	p = c.Principal(Assertion{Email: "cd5678@nyu.edu"})
	assert.Equal(t, "cd5678", p.NetID)
}

func TestSingleLogoutURL(t *testing.T) {
	c := New("https://idp.example.edu/metadata", false)
	assert.Equal(t, "https://idp.example.edu/slo?return=%2F", c.SingleLogoutURL("/"))

	assert.Empty(t, New("", true).SingleLogoutURL("/"))
}

func TestSPMetadata(t *testing.T) {
	doc, err := SPMetadata("statusboard", "http://localhost:8080/saml/acs")
	require.NoError(t, err)

	s := string(doc)
	assert.Contains(t, s, `entityID="statusboard"`)
	assert.Contains(t, s, `Location="http://localhost:8080/saml/acs"`)
	assert.Contains(t, s, "urn:oasis:names:tc:SAML:2.0:bindings:HTTP-POST")
}
