package authz

import (
	"net/http"

	"github.com/florinmsk/shop-api/internal/auth"
	"github.com/florinmsk/shop-api/internal/httputil"
)

// Require gates a route group behind a policy check. It must run after the
// authentication middleware so the user is present in the context.
func Require(policy Policy, action, resource string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			currentUser, ok := auth.UserFromContext(r.Context())
			if !ok {
				httputil.RespondUnauthorized(w, "User not authenticated.")
				return
			}

			if !policy.Allows(currentUser, action, resource) {
				httputil.RespondJSON(w, httputil.ErrorResponse{Error: "This action is unauthorized."}, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
