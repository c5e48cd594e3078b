package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "statusboard:session:"

// Sessions is the server-side session store. Session state lives in redis
// keyed by an opaque uuid; the cookie only ever carries the id.
type Sessions struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessions creates a session store with the given lifetime.
func NewSessions(client *redis.Client, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Sessions{client: client, ttl: ttl}
}

// Create persists a new session for the principal and returns its id.
func (s *Sessions) Create(ctx context.Context, p Principal) (string, error) {
	id := uuid.NewString()
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, sessionPrefix+id, raw, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Get resolves a session id to its principal. A missing or expired session
// returns ok=false, not an error.
func (s *Sessions) Get(ctx context.Context, id string) (Principal, bool, error) {
	raw, err := s.client.Get(ctx, sessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Principal{}, false, nil
	}
	if err != nil {
		return Principal{}, false, err
	}
	var p Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		return Principal{}, false, err
	}
	return p, true, nil
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (s *Sessions) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionPrefix+id).Err()
}
