// Package accounts defines the credential store contract and its
// PostgreSQL and in-memory implementations.
package accounts

import (
	"context"

	"github.com/kids-learning/auth-service/internal/server/models"
)

// Extensions holds the rows created atomically together with a new account.
// Exactly the set matching the account role must be present: a guardian
// profile for guardians; a dependent profile and a wallet for dependents.
type Extensions struct {
	GuardianProfile  *models.GuardianProfile
	DependentProfile *models.DependentProfile
	Wallet           *models.Wallet
}

// Repository is the persistence contract consumed by the auth workflows.
// Lookups that miss return common.ErrNotFound; uniqueness violations at
// commit time surface as common.ErrConflict.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByEmailAndRole(ctx context.Context, email string, role models.Role) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)

	// FindGuardianByID returns common.ErrNotFound both when the id is
	// missing and when it belongs to a non-guardian account, so callers
	// cannot distinguish the two.
	FindGuardianByID(ctx context.Context, id string) (*models.Account, error)

	FindDependentsByGuardian(ctx context.Context, guardianID string) ([]*models.Account, error)

	// CreateWithExtensions inserts the account row plus its extension rows
	// as a single unit. Callers supply a transactional handle through the
	// repository manager; partial failure must leave no rows committed.
	CreateWithExtensions(ctx context.Context, account *models.Account, exts Extensions) (*models.Account, error)
}
