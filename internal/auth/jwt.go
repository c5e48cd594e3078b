package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT payload for API clients.
type Claims struct {
	Email string `json:"email"`
	NetID string `json:"netid"`
	Name  string `json:"name,omitempty"`
	Admin bool   `json:"admin"`
	jwt.RegisteredClaims
}

// Issue signs a bearer token for the principal.
func Issue(p Principal, issuer, key string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := Claims{
		Email: p.Email,
		NetID: p.NetID,
		Name:  p.Name,
		Admin: p.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   p.ID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// Parse validates a token and returns the embedded principal.
func Parse(tokenStr, key, issuer string) (Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(key), nil
	})
	if err != nil {
		return Principal{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Principal{}, errors.New("invalid token")
	}
	if issuer != "" && claims.Issuer != issuer {
		return Principal{}, errors.New("issuer mismatch")
	}
	return Principal{
		ID:    claims.Subject,
		Email: claims.Email,
		NetID: claims.NetID,
		Name:  claims.Name,
		Admin: claims.Admin,
	}, nil
}
