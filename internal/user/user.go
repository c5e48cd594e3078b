package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"statusboard/internal/board"
)

// ErrInvalidCredentials signals a failed login without revealing which part
// of the credential pair was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Account is a registered user. The password hash never serializes to JSON.
type Account struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email        string             `bson:"email" json:"email"`
	NetID        string             `bson:"netid" json:"netid"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	DisplayName  string             `bson:"display_name,omitempty" json:"display_name,omitempty"`
	Admin        bool               `bson:"admin" json:"admin"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    *time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Store is the persistence surface for accounts.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByNetID(ctx context.Context, netid string) (*Account, error)
	Insert(ctx context.Context, a Account) (Account, error)
	Update(ctx context.Context, netid string, fields map[string]any) (bool, error)
}

// Service enforces registration, login and profile rules.
type Service struct {
	store       Store
	emailDomain string
	minPassword int
}

// NewService creates an account service. emailDomain is the required
// institutional suffix, e.g. "@nyu.edu".
func NewService(store Store, emailDomain string, minPassword int) *Service {
	return &Service{store: store, emailDomain: emailDomain, minPassword: minPassword}
}

// Register creates a new account. Email is lowercased, must carry the
// institutional domain and must not already be registered. The netid is the
// local part of the email.
func (s *Service) Register(ctx context.Context, email, password string) (Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Account{}, board.Validationf("email and password are required")
	}
	if !strings.HasSuffix(email, s.emailDomain) {
		return Account{}, board.Validationf("email must end with %s", s.emailDomain)
	}
	if len(password) < s.minPassword {
		return Account{}, board.Validationf("password must be at least %d characters", s.minPassword)
	}
	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return Account{}, err
	}
	if existing != nil {
		return Account{}, board.Validationf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}
	return s.store.Insert(ctx, Account{
		Email:        email,
		NetID:        strings.SplitN(email, "@", 2)[0],
		PasswordHash: string(hash),
	})
}

// Login verifies credentials and returns the account.
func (s *Service) Login(ctx context.Context, email, password string) (Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Account{}, board.Validationf("email and password are required")
	}
	acct, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return Account{}, err
	}
	if acct == nil {
		return Account{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return Account{}, ErrInvalidCredentials
	}
	return *acct, nil
}

// Get returns the account for a netid.
func (s *Service) Get(ctx context.Context, netid string) (Account, error) {
	acct, err := s.store.FindByNetID(ctx, netid)
	if err != nil {
		return Account{}, err
	}
	if acct == nil {
		return Account{}, board.ErrNotFound
	}
	return *acct, nil
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	DisplayName     *string `json:"display_name"`
	Password        *string `json:"password"`
	CurrentPassword *string `json:"current_password"`
}

// UpdateProfile changes the display name and/or password. When the current
// password is supplied alongside a new one it is re-verified first.
func (s *Service) UpdateProfile(ctx context.Context, netid string, in UpdateProfileInput) error {
	fields := map[string]any{}
	if in.DisplayName != nil {
		fields["display_name"] = *in.DisplayName
	}
	if in.Password != nil {
		if len(*in.Password) < s.minPassword {
			return board.Validationf("password must be at least %d characters", s.minPassword)
		}
		if in.CurrentPassword != nil {
			acct, err := s.store.FindByNetID(ctx, netid)
			if err != nil {
				return err
			}
			if acct == nil {
				return board.ErrNotFound
			}
			if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(*in.CurrentPassword)) != nil {
				return ErrInvalidCredentials
			}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		fields["password_hash"] = string(hash)
	}
	if len(fields) == 0 {
		return board.Validationf("no valid fields to update")
	}
	matched, err := s.store.Update(ctx, netid, fields)
	if err != nil {
		return err
	}
	if !matched {
		return board.ErrNotFound
	}
	return nil
}
