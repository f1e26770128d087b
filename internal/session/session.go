package session

import (
	"context"

	"github.com/scro-cloud/scro/internal/accounts"
)

// User is the identity projection exposed to the dashboard. It carries
// everything the views need and never the password hash.
type User struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Email string        `json:"email"`
	Role  accounts.Role `json:"role"`
}

// Session is the current authentication state. IsAuthenticated is true
// exactly when User is set; both fields always change together.
type Session struct {
	User            *User
	IsAuthenticated bool
}

// Unauthenticated returns the empty session state.
func Unauthenticated() Session {
	return Session{}
}

// Authenticated returns a session bound to the given user.
func Authenticated(user *User) Session {
	return Session{User: user, IsAuthenticated: true}
}

type sessionContextKey struct{}

type recordIDContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// FromContext extracts the session from context, defaulting to the
// unauthenticated state.
func FromContext(ctx context.Context) Session {
	sess, ok := ctx.Value(sessionContextKey{}).(Session)
	if !ok {
		return Unauthenticated()
	}
	return sess
}

// ContextWithRecordID stores the durable record id in context.
func ContextWithRecordID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, recordIDContextKey{}, id)
}

// RecordIDFromContext extracts the durable record id, if any.
func RecordIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(recordIDContextKey{}).(string)
	return id
}
