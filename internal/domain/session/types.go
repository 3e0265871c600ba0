// Package session holds the console operator's authenticated session and the
// role predicate that every gate and menu is built on.
package session

import "fmt"

// Role labels issued by the backend.
const (
	RoleAdmin   = "admin"
	RoleOps     = "ops"
	RoleManager = "manager"
)

// Principal describes the authenticated operator as returned by the login
// endpoint.
type Principal struct {
	ID     int64  `json:"id"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

// Session is the persisted authentication context.
type Session struct {
	// Token is the opaque bearer credential. A session is authenticated iff
	// Token is non-empty.
	Token string `json:"token"`
	// User is optional; older sessions may carry only a token.
	User *Principal `json:"user,omitempty"`
	// Roles is treated as a set. Order and duplicates carry no meaning.
	Roles []string `json:"roles,omitempty"`
}

// State is the lifecycle of a Store within one process.
type State int

const (
	// StateUninitialized means no session has been observed yet.
	StateUninitialized State = iota
	// StateAuthenticated means a token is present.
	StateAuthenticated
	// StateCleared means the session was removed by logout, a 401 or an
	// external clear.
	StateCleared
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAuthenticated:
		return "authenticated"
	case StateCleared:
		return "cleared"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
