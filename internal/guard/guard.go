// Package guard decides whether a navigation is permitted given the
// current session and a route's required role.
package guard

import (
	"github.com/scro-cloud/scro/internal/accounts"
	"github.com/scro-cloud/scro/internal/session"
)

// DecisionKind enumerates guard verdicts.
type DecisionKind int

const (
	// Allow renders the route.
	Allow DecisionKind = iota
	// RedirectToLogin sends the caller to the login view.
	RedirectToLogin
	// Deny shows the access-denied view.
	Deny
)

// Decision is the guard verdict. For Deny it carries the role the
// route required and the role the user actually holds.
type Decision struct {
	Kind     DecisionKind
	Required accounts.Role
	Actual   accounts.Role
}

// Authorize gates access to a protected view. It is a pure function of
// its inputs and must be re-evaluated on every navigation. An empty
// required role only demands authentication.
func Authorize(sess session.Session, required accounts.Role) Decision {
	if !sess.IsAuthenticated {
		return Decision{Kind: RedirectToLogin}
	}
	if required == "" {
		return Decision{Kind: Allow}
	}
	if sess.User.Role.Satisfies(required) {
		return Decision{Kind: Allow}
	}
	return Decision{Kind: Deny, Required: required, Actual: sess.User.Role}
}
