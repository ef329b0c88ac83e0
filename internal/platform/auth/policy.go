package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Operation is a class of action a caller can perform. Mutating services
// consult the capability table for every call instead of duplicating role
// checks per call site.
type Operation string

const (
	// OpWriteDemographics covers create/update/delete of patient records.
	OpWriteDemographics Operation = "write:demographics"
	// OpReadRecords covers reading patients, visit history and family views.
	OpReadRecords Operation = "read:records"
	// OpWriteClinical covers clinician updates of the clinical fields.
	OpWriteClinical Operation = "write:clinical"
)

// capabilities is the single authorization table.
//
//	operation            receptionist  doctor
//	write demographics   allow         deny
//	read records         allow         allow
//	write clinical       deny          allow
var capabilities = map[Role]map[Operation]bool{
	RoleReceptionist: {
		OpWriteDemographics: true,
		OpReadRecords:       true,
	},
	RoleDoctor: {
		OpReadRecords:   true,
		OpWriteClinical: true,
	},
}

// Allowed is the policy gate: a pure function of role and operation.
func Allowed(role Role, op Operation) bool {
	return capabilities[role][op]
}

// RequireRole returns middleware that rejects requests whose authenticated
// actor has none of the given roles. Fine-grained checks still happen in the
// services via Allowed; this keeps obviously unauthorized requests out of
// the handlers.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := ActorFromContext(c.Request().Context())
			for _, r := range roles {
				if actor.Role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}
