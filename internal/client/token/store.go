package token

import (
	"context"
	"time"

	"github.com/dmitrijs2005/doccheck/internal/client/storage"
	"github.com/dmitrijs2005/doccheck/internal/common"
)

// Store reads and writes the bearer token in persistent storage.
type Store struct {
	storage storage.Storage
	now     func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(s storage.Storage, opts ...Option) *Store {
	st := &Store{storage: s, now: time.Now}
	for _, o := range opts {
		o(st)
	}
	return st
}

// Get returns the stored token, or "" when none is stored.
func (s *Store) Get(ctx context.Context) (string, error) {
	v, err := s.storage.Get(ctx, common.TokenStorageKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *Store) Set(ctx context.Context, token string) error {
	return s.storage.Set(ctx, common.TokenStorageKey, []byte(token))
}

func (s *Store) Remove(ctx context.Context) error {
	return s.storage.Delete(ctx, common.TokenStorageKey)
}

// IsExpired checks token against the store clock.
func (s *Store) IsExpired(token string) bool {
	return IsExpired(token, s.now())
}

// Valid returns the stored token when it exists and has not expired.
// Storage failures read as "no token".
func (s *Store) Valid(ctx context.Context) (string, bool) {
	tok, err := s.Get(ctx)
	if err != nil || tok == "" {
		return "", false
	}
	if s.IsExpired(tok) {
		return "", false
	}
	return tok, true
}

// IsAuthenticated is true iff a token is stored and not expired.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.Valid(ctx)
	return ok
}

// Validate is IsAuthenticated that also evicts a stored token that has
// expired or cannot be decoded.
func (s *Store) Validate(ctx context.Context) bool {
	tok, err := s.Get(ctx)
	if err != nil || tok == "" {
		return false
	}
	if s.IsExpired(tok) {
		_ = s.Remove(ctx)
		return false
	}
	return true
}
