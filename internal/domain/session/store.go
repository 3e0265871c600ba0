package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Keys under which the session is persisted.
const (
	TokenKey   = "admin_token"
	SessionKey = "admin_user"
)

// ErrEmptyToken is returned by Set when the session carries no token.
var ErrEmptyToken = errors.New("session token is empty")

// Persistence is the key/value medium a Store reads and writes through.
// Implementations: file (default), sqlite, in-memory (test).
type Persistence interface {
	// Load returns the value stored under key and whether it was present.
	Load(ctx context.Context, key string) (string, bool, error)
	// Save writes all values in one operation.
	Save(ctx context.Context, values map[string]string) error
	// Remove deletes the keys. Missing keys are not an error.
	Remove(ctx context.Context, keys ...string) error
}

// Store owns the operator session. It is the only writer of the two session
// keys and is safe for concurrent use.
type Store struct {
	backend Persistence
	logger  *slog.Logger

	mu        sync.RWMutex
	state     State
	listeners []func()
}

// NewStore creates a Store over the given persistence medium.
func NewStore(backend Persistence, logger *slog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
	}
}

// Set replaces the persisted session. Both keys are written together.
func (s *Store) Set(ctx context.Context, sess Session) error {
	if sess.Token == "" {
		return ErrEmptyToken
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Save(ctx, map[string]string{
		TokenKey:   sess.Token,
		SessionKey: string(data),
	}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.state = StateAuthenticated
	s.logger.Debug("session stored", "token", Fingerprint(sess.Token), "roles", sess.Roles)
	return nil
}

// Token returns the bearer token, if any.
func (s *Store) Token(ctx context.Context) (string, bool) {
	s.mu.RLock()
	token, ok, err := s.backend.Load(ctx, TokenKey)
	s.mu.RUnlock()
	if err != nil {
		s.logger.Warn("failed to read session token", "error", err)
		return "", false
	}
	present := ok && token != ""
	s.observe(present)
	if !present {
		return "", false
	}
	return token, true
}

// Get returns the full session. A stored value that cannot be parsed is
// reported as absent.
func (s *Store) Get(ctx context.Context) (*Session, bool) {
	s.mu.RLock()
	raw, ok, err := s.backend.Load(ctx, SessionKey)
	s.mu.RUnlock()
	if err != nil {
		s.logger.Warn("failed to read session", "error", err)
		return nil, false
	}
	if !ok || raw == "" {
		return nil, false
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		s.logger.Warn("stored session is unreadable, treating as absent", "error", err)
		return nil, false
	}
	return &sess, true
}

// Roles returns the roles of the current session, or nil without one.
func (s *Store) Roles(ctx context.Context) []string {
	sess, ok := s.Get(ctx)
	if !ok {
		return nil
	}
	return sess.Roles
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

// Clear removes both keys. Clearing an empty store is a no-op. The state is
// cleared and listeners run even if the medium reports an error.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	err := s.backend.Remove(ctx, TokenKey, SessionKey)
	wasAuthenticated := s.state == StateAuthenticated
	s.state = StateCleared
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("failed to remove persisted session", "error", err)
	}
	if wasAuthenticated {
		s.logger.Info("session cleared")
	}
	for _, fn := range listeners {
		fn()
	}
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// OnClear registers fn to run after every Clear.
func (s *Store) OnClear(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// State returns the lifecycle state as observed by this process.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// observe reconciles the lifecycle with what the medium holds. The medium can
// be changed by another process (e.g. `opsconsole logout`).
func (s *Store) observe(present bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case present && s.state != StateAuthenticated:
		s.state = StateAuthenticated
	case !present && s.state == StateAuthenticated:
		s.state = StateCleared
	}
}

// Fingerprint returns a short non-reversible tag for a token, for log lines.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	return strconv.FormatUint(xxhash.Sum64String(token), 16)
}
