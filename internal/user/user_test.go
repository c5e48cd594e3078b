package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"statusboard/internal/board"
)

type fakeStore struct {
	accounts []Account
}

func (f *fakeStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	for i := range f.accounts {
		if f.accounts[i].Email == email {
			a := f.accounts[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByNetID(ctx context.Context, netid string) (*Account, error) {
	for i := range f.accounts {
		if f.accounts[i].NetID == netid {
			a := f.accounts[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Insert(ctx context.Context, a Account) (Account, error) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	f.accounts = append(f.accounts, a)
	return a, nil
}

func (f *fakeStore) Update(ctx context.Context, netid string, fields map[string]any) (bool, error) {
	for i := range f.accounts {
		if f.accounts[i].NetID == netid {
			if v, ok := fields["display_name"].(string); ok {
				f.accounts[i].DisplayName = v
			}
			if v, ok := fields["password_hash"].(string); ok {
				f.accounts[i].PasswordHash = v
			}
			return true, nil
		}
	}
	return false, nil
}

func newTestService() (*Service, *fakeStore) {
	f := &fakeStore{}
	return NewService(f, "@nyu.edu", 8), f
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()

	acct, err := svc.Register(context.Background(), "AB1234@NYU.edu", "correct-horse")
	require.NoError(t, err)

	assert.Equal(t, "ab1234@nyu.edu", acct.Email, "email is lowercased")
	assert.Equal(t, "ab1234", acct.NetID, "netid is the local part")
	assert.False(t, acct.Admin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte("correct-horse")))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong domain", "ab1234@gmail.com", "correct-horse"},
		{"short password", "ab1234@nyu.edu", "short"},
		{"missing email", "", "correct-horse"},
		{"missing password", "ab1234@nyu.edu", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.email, tc.password)
			assert.True(t, board.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ab1234@nyu.edu", "correct-horse")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ab1234@nyu.edu", "another-pass")
	require.Error(t, err)
	assert.True(t, board.IsValidation(err))
	assert.Contains(t, err.Error(), "already registered")
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ab1234@nyu.edu", "correct-horse")
	require.NoError(t, err)

	acct, err := svc.Login(ctx, "AB1234@nyu.edu", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "ab1234", acct.NetID)

	_, err = svc.Login(ctx, "ab1234@nyu.edu", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ghost@nyu.edu", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc, f := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ab1234@nyu.edu", "correct-horse")
	require.NoError(t, err)

	name := "Alice B"
	require.NoError(t, svc.UpdateProfile(ctx, "ab1234", UpdateProfileInput{DisplayName: &name}))
	assert.Equal(t, "Alice B", f.accounts[0].DisplayName)

	// Password change re-verifies the current password when supplied.
	newPass, wrong := "new-password-1", "not-the-current"
	err = svc.UpdateProfile(ctx, "ab1234", UpdateProfileInput{Password: &newPass, CurrentPassword: &wrong})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	current := "correct-horse"
	require.NoError(t, svc.UpdateProfile(ctx, "ab1234", UpdateProfileInput{Password: &newPass, CurrentPassword: &current}))
	_, err = svc.Login(ctx, "ab1234@nyu.edu", newPass)
	assert.NoError(t, err)

	short := "tiny"
	err = svc.UpdateProfile(ctx, "ab1234", UpdateProfileInput{Password: &short})
	assert.True(t, board.IsValidation(err))

	err = svc.UpdateProfile(ctx, "ab1234", UpdateProfileInput{})
	assert.True(t, board.IsValidation(err))

	err = svc.UpdateProfile(ctx, "ghost", UpdateProfileInput{DisplayName: &name})
	assert.ErrorIs(t, err, board.ErrNotFound)
}
