// Package session holds the process-wide authentication state of the client:
// who is signed in and whether the stored token still counts. It is built
// once at startup from the token store and mutated only by Login and Logout.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/doccheck/internal/client/models"
	"github.com/dmitrijs2005/doccheck/internal/client/storage"
	"github.com/dmitrijs2005/doccheck/internal/client/token"
	"github.com/dmitrijs2005/doccheck/internal/common"
	"github.com/dmitrijs2005/doccheck/internal/logging"
)

var ErrClosed = errors.New("session closed")

// State is a snapshot of the session. User may be nil while Authenticated
// is true when the token survived a restart but the user cache did not.
type State struct {
	User          *models.User
	Authenticated bool
}

// TokenDropper removes the bearer token; the API client implements it.
type TokenDropper interface {
	Logout(ctx context.Context) error
}

type Store struct {
	mu     sync.RWMutex
	state  State
	closed bool

	tokens  *token.Store
	storage storage.Storage
	dropper TokenDropper
	log     logging.Logger
}

// New builds the session and runs Init. Init failures are logged; the
// session then starts signed out.
func New(ctx context.Context, tokens *token.Store, s storage.Storage, dropper TokenDropper, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNop()
	}
	st := &Store{
		tokens:  tokens,
		storage: s,
		dropper: dropper,
		log:     log.With("component", "session"),
	}
	if err := st.Init(ctx); err != nil {
		st.log.Warn(ctx, "session init", "error", err)
	}
	return st
}

// Init restores the session from persistent storage. A valid token marks the
// session authenticated and the cached user is restored when present; a
// corrupt cache or a missing/expired token signs the session out.
func (s *Store) Init(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}
	if !s.tokens.IsAuthenticated(ctx) {
		return s.Logout(ctx)
	}

	var user *models.User
	raw, err := s.storage.Get(ctx, common.UserStorageKey)
	if err != nil {
		s.log.Warn(ctx, "failed to read cached user", "error", err)
	} else if len(raw) > 0 {
		var u models.User
		if err := json.Unmarshal(raw, &u); err != nil {
			s.log.Error(ctx, "cached user is corrupt, signing out", "error", err)
			return errors.Join(fmt.Errorf("decode cached user: %w", err), s.Logout(ctx))
		}
		// null and {} decode cleanly but name nobody
		if u != (models.User{}) {
			user = &u
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.state = State{User: user, Authenticated: true}
	return nil
}

// Login records user as signed in. Caching the user is best effort.
func (s *Store) Login(ctx context.Context, user models.User) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	u := user
	s.state = State{User: &u, Authenticated: true}
	s.mu.Unlock()

	raw, err := json.Marshal(user)
	if err == nil {
		err = s.storage.Set(ctx, common.UserStorageKey, raw)
	}
	if err != nil {
		s.log.Warn(ctx, "failed to cache user", "error", err)
	}
	s.log.Info(ctx, "signed in", "user", user.ID)
	return nil
}

// Logout clears the state first, then the cached user and the token.
// Cleanup failures are returned joined; the state is signed out regardless.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.state = State{}
	s.mu.Unlock()

	var errs []error
	if err := s.storage.Delete(ctx, common.UserStorageKey); err != nil {
		errs = append(errs, fmt.Errorf("delete cached user: %w", err))
	}
	if s.dropper != nil {
		if err := s.dropper.Logout(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drop token: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Check asks the token store directly, ignoring the in-memory flag.
func (s *Store) Check(ctx context.Context) bool {
	if s.isClosed() {
		return false
	}
	return s.tokens.IsAuthenticated(ctx)
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Authenticated
}

// User returns the signed-in user, if known.
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return models.User{}, false
	}
	return *s.state.User, true
}

// Close resets the in-memory state. Persisted token and user stay put.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.state = State{}
	return nil
}

func (s *Store) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
