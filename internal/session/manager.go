package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/scro-cloud/scro/internal/accounts"
)

// ErrNoSession indicates an operation that needs an authenticated
// durable record found none.
var ErrNoSession = errors.New("session: not authenticated")

// Manager owns session lifecycle: login, signup, logout, restore and
// token refresh. Login and signup model a network round-trip with a
// configurable artificial latency before touching the credential
// store; the wait is cancellable through the context.
type Manager struct {
	store   *accounts.Store
	records *RecordStore
	latency time.Duration
	logger  *slog.Logger
}

// LoginResult carries everything a successful login produces.
type LoginResult struct {
	Session  Session
	RecordID string
	Token    string
}

// NewManager constructs a Manager. latency defaults to zero, meaning
// login and signup resolve as fast as the store allows.
func NewManager(store *accounts.Store, records *RecordStore, latency time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, records: records, latency: latency, logger: logger}
}

// Restore rebuilds the session from the durable record. A malformed
// record is treated as a corrupt cache: the pair is purged and the
// unauthenticated state returned without error.
func (m *Manager) Restore(ctx context.Context, recordID string) (Session, error) {
	if recordID == "" {
		return Unauthenticated(), nil
	}
	_, user, err := m.records.Read(ctx, recordID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return Unauthenticated(), nil
		}
		if errors.Is(err, ErrMalformedRecord) {
			m.logger.Warn("purged malformed session record", slog.String("record_id", recordID))
			return Unauthenticated(), nil
		}
		return Unauthenticated(), err
	}
	return Authenticated(user), nil
}

// Login validates credentials and, on success, persists a fresh
// durable record and returns the authenticated session. On failure the
// session state and storage are untouched.
func (m *Manager) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	acc, err := m.store.FindByEmailAndPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("login %q: %w", email, err)
	}
	user := &User{ID: acc.ID, Name: acc.Name, Email: acc.Email, Role: acc.Role}
	recordID := uuid.NewString()
	token := mintToken(acc.ID)
	if err := m.records.Write(ctx, recordID, token, user); err != nil {
		return nil, fmt.Errorf("persist session record: %w", err)
	}
	return &LoginResult{Session: Authenticated(user), RecordID: recordID, Token: token}, nil
}

// Signup registers a new viewer account. It never establishes a
// session: the caller must log in separately.
func (m *Manager) Signup(ctx context.Context, name, email, password string) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	if _, err := m.store.Add(name, email, password); err != nil {
		return fmt.Errorf("signup %q: %w", email, err)
	}
	return nil
}

// Logout clears the durable record. It always succeeds and is
// idempotent: logging out an already cleared record is a no-op that
// still purges storage defensively.
func (m *Manager) Logout(ctx context.Context, recordID string) error {
	if recordID == "" {
		return nil
	}
	return m.records.Purge(ctx, recordID)
}

// Refresh rewrites the record with a newly minted token and a fresh
// TTL. Requires an existing authenticated record.
func (m *Manager) Refresh(ctx context.Context, recordID string) (string, error) {
	if recordID == "" {
		return "", ErrNoSession
	}
	_, user, err := m.records.Read(ctx, recordID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) || errors.Is(err, ErrMalformedRecord) {
			return "", ErrNoSession
		}
		return "", err
	}
	token := mintToken(user.ID)
	if err := m.records.Write(ctx, recordID, token, user); err != nil {
		return "", fmt.Errorf("persist refreshed record: %w", err)
	}
	return token, nil
}

// TTL exposes the durable record lifetime.
func (m *Manager) TTL() time.Duration {
	return m.records.TTL()
}

func (m *Manager) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(m.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// mintToken builds the opaque session token. It is not a JWT and is
// never validated beyond presence.
func mintToken(userID string) string {
	return fmt.Sprintf("mock_jwt_%s_%d", userID, time.Now().UnixMilli())
}
