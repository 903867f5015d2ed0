package auth

import (
	"github.com/kids-learning/auth-service/internal/common"
	"github.com/kids-learning/auth-service/internal/server/models"
)

// Authorize decides whether the caller identified by claims may access a
// resource restricted to the given roles. It is pure and side-effect free,
// evaluated once per request.
//
// No declared roles means the resource is public and anyone passes.
// A missing identity on a restricted resource is common.ErrUnauthorized;
// a present identity with none of the declared roles is common.ErrForbidden.
func Authorize(claims *Claims, allowed ...models.Role) error {
	if len(allowed) == 0 {
		return nil
	}
	if claims == nil {
		return common.ErrUnauthorized
	}
	for _, role := range allowed {
		if claims.Role == role {
			return nil
		}
	}
	return common.ErrForbidden
}
