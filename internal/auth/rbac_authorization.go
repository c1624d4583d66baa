package auth

import (
	"log/slog"
	"net/http"

	apperrors "github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/access"
	"github.com/frahmantamala/hr-records/internal/transport"
)

// RBACAuthorization gates whole routes on a role predicate. Services repeat
// the same evaluator checks; the middleware only rejects early.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

func (ra *RBACAuthorization) Require(name string, allowed func(access.Identity) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := IdentityFromContext(r.Context())
			if err != nil {
				ra.Logger.Warn("authorization check failed: identity not found in context")
				ra.HandleServiceError(w, err)
				return
			}

			if !allowed(id) {
				ra.Logger.WarnContext(r.Context(), "access denied",
					"subject_id", id.SubjectID,
					"role", id.Role,
					"requirement", name)
				ra.HandleServiceError(w, apperrors.ErrAccessDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePrivileged admits only callers allowed to list every absence.
func (ra *RBACAuthorization) RequirePrivileged() func(http.Handler) http.Handler {
	return ra.Require("privileged", access.CanListAllAbsences)
}
