// Package auth integrates the external bearer-token authenticator and owns
// the capability table that gates every operation. Credential issuance lives
// outside this service; all we consume is a validated token yielding the
// caller's role and identity, carried through the request context as an
// explicit Actor rather than read from ambient state.
package auth

import "context"

// Role is the caller's clinic role as asserted by the authenticator.
type Role string

const (
	RoleReceptionist Role = "receptionist"
	RoleDoctor       Role = "doctor"
)

// Valid reports whether the role is one the clinic recognizes.
func (r Role) Valid() bool {
	return r == RoleReceptionist || r == RoleDoctor
}

// Actor is the authenticated caller: a stable subject id, a display name
// (used as the doctor name on visit history entries), and a role.
type Actor struct {
	ID   string
	Name string
	Role Role
}

type contextKey string

const actorKey contextKey = "actor"

// WithActor returns a child context carrying the authenticated actor.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// ActorFromContext returns the authenticated actor, or a zero Actor when the
// request was not authenticated.
func ActorFromContext(ctx context.Context) Actor {
	a, _ := ctx.Value(actorKey).(Actor)
	return a
}
