// Package audit keeps a best-effort registry of login sessions in
// postgres. Failures are logged and never surfaced to the caller; the
// dashboard works without a database.
package audit

import (
	"context"
	"log/slog"
	"time"
)

// SessionRecord is one row in the login session registry.
type SessionRecord struct {
	ID        string
	UserID    string
	IP        string
	UserAgent string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Repository defines persistence operations for the session registry.
type Repository interface {
	InsertSession(ctx context.Context, rec SessionRecord) error
	DeleteSession(ctx context.Context, id string) error
	InsertEvent(ctx context.Context, kind, detail string) error
}

// Service wraps the repository with best-effort semantics.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Service. A nil repository disables auditing.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// RecordLogin registers a session. Errors are logged, not returned.
func (s *Service) RecordLogin(ctx context.Context, rec SessionRecord) {
	if s == nil || s.repo == nil {
		return
	}
	if err := s.repo.InsertSession(ctx, rec); err != nil {
		s.logger.Warn("audit record login", slog.Any("error", err))
	}
}

// RecordLogout removes a session from the registry.
func (s *Service) RecordLogout(ctx context.Context, id string) {
	if s == nil || s.repo == nil {
		return
	}
	if err := s.repo.DeleteSession(ctx, id); err != nil {
		s.logger.Warn("audit record logout", slog.Any("error", err))
	}
}

// RecordEvent appends a free-form event row (used by background jobs).
func (s *Service) RecordEvent(ctx context.Context, kind, detail string) {
	if s == nil || s.repo == nil {
		return
	}
	if err := s.repo.InsertEvent(ctx, kind, detail); err != nil {
		s.logger.Warn("audit record event", slog.String("kind", kind), slog.Any("error", err))
	}
}
