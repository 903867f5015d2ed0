package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/kids-learning/auth-service/internal/common"
	"github.com/kids-learning/auth-service/internal/server/auth"
	"github.com/kids-learning/auth-service/internal/server/models"
)

// errMissingIdentity is returned when a handler runs without claims in
// its context, which only happens if the route was wired without Guard.
var errMissingIdentity = common.ErrUnauthorized

type claimsContextKey struct{}

// ClaimsFromContext returns the validated claims stored by Guard.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*auth.Claims)
	return claims, ok
}

// Guard returns middleware enforcing bearer authentication and, when
// roles are declared, role membership. The token's claims are validated
// cryptographically, the subject is re-fetched to confirm the account
// still exists, and the claims are stored in the request context.
//
// An empty allowed set means the route only requires a valid identity.
func (h *Handler) Guard(tokens *auth.Manager, allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get(common.AuthorizationHeaderName))
			if !ok {
				h.writeError(w, r, common.ErrUnauthorized)
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				h.writeError(w, r, err)
				return
			}

			// Tokens are not authoritative proof of continued existence.
			if _, err := h.auth.ValidateByID(r.Context(), claims.Subject); err != nil {
				h.writeError(w, r, err)
				return
			}

			if err := auth.Authorize(claims, allowed...); err != nil {
				h.writeError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	if !strings.HasPrefix(value, common.BearerPrefix) {
		return "", false
	}

	token := value[len(common.BearerPrefix):]
	if token == "" {
		return "", false
	}

	return token, true
}
