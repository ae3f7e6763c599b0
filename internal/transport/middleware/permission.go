package middleware

import (
	"net/http"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/transport"
	"github.com/frahmantamala/school-admin/internal/user"
)

var errForbidden = internal.NewForbiddenError("No tienes permiso para acceder a esta sección", "FORBIDDEN_SECTION")

// RequireSection lets through only principals whose role may use section.
// It must run after the auth middleware.
func RequireSection(base *transport.BaseHandler, section user.Section) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				base.WriteAppError(w, internal.ErrNotLoggedIn)
				return
			}

			if !user.Role(p.Rol).Can(section) {
				base.Logger.Warn("access denied",
					"user_id", p.ID,
					"rol", p.Rol,
					"section", section)
				base.WriteAppError(w, errForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
