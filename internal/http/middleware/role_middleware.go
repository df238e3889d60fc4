package middleware

import (
	"net/http"

	"github.com/foodshareapp/foodshare-backend/internal/domain"
	"github.com/foodshareapp/foodshare-backend/internal/http/response"
)

// RequireRole gates a route to callers holding one of the given roles. It
// assumes AuthMiddleware already ran and put claims on the context.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := map[domain.Role]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
				return
			}
			role, ok := domain.ParseRole(claims.Role)
			if !ok {
				response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "unknown role", nil)
				return
			}
			if _, ok := allowed[role]; !ok {
				response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient role", map[string]string{"role": string(role)})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
