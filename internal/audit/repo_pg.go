package audit

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool}
}

// InsertSession persists a login session row. Re-registering the same
// session id is treated as a no-op.
func (r *PGRepository) InsertSession(ctx context.Context, rec SessionRecord) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO login_sessions (id, user_id, ip, user_agent, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.UserID, rec.IP, rec.UserAgent, rec.CreatedAt.UTC(), rec.ExpiresAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return nil
	}
	return err
}

// DeleteSession removes a session row.
func (r *PGRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM login_sessions WHERE id = $1`, id)
	return err
}

// InsertEvent appends an event row.
func (r *PGRepository) InsertEvent(ctx context.Context, kind, detail string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO audit_events (kind, detail, created_at) VALUES ($1, $2, $3)`,
		kind, detail, time.Now().UTC())
	return err
}

var _ Repository = (*PGRepository)(nil)
