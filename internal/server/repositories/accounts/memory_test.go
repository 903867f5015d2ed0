package accounts

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kids-learning/auth-service/internal/common"
	"github.com/kids-learning/auth-service/internal/server/models"
	"github.com/stretchr/testify/require"
)

func createGuardian(t *testing.T, repo *MemoryRepository, email string) *models.Account {
	t.Helper()
	account, err := repo.CreateWithExtensions(context.Background(),
		&models.Account{Email: email, PasswordHash: "hash", Name: "Anna", Role: models.RoleGuardian},
		Extensions{GuardianProfile: &models.GuardianProfile{Settings: "{}"}})
	require.NoError(t, err)
	return account
}

func TestMemoryRepository_CreateAndFind(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()
	ctx := context.Background()

	guardian := createGuardian(t, repo, "anna@example.com")
	require.NotEmpty(t, guardian.ID)

	byEmail, err := repo.FindByEmail(ctx, "anna@example.com")
	require.NoError(t, err)
	require.Equal(t, guardian.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, guardian.ID)
	require.NoError(t, err)
	require.Equal(t, "anna@example.com", byID.Email)

	_, ok := repo.GuardianProfile(guardian.ID)
	require.True(t, ok, "guardian profile must be created with the account")

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryRepository_EmailIsCaseSensitive(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()

	createGuardian(t, repo, "Anna@example.com")

	_, err := repo.FindByEmail(context.Background(), "anna@example.com")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryRepository_DuplicateEmailConflict(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()
	ctx := context.Background()

	guardian := createGuardian(t, repo, "anna@example.com")

	// Same email with a different role still conflicts.
	_, err := repo.CreateWithExtensions(ctx,
		&models.Account{Email: "anna@example.com", PasswordHash: "hash", Name: "Max", Role: models.RoleDependent, GuardianID: &guardian.ID},
		Extensions{})
	require.ErrorIs(t, err, common.ErrConflict)
}

func TestMemoryRepository_FindGuardianByID_WrongRole(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()
	ctx := context.Background()

	guardian := createGuardian(t, repo, "anna@example.com")
	profile := models.NewDependentProfile()
	dependent, err := repo.CreateWithExtensions(ctx,
		&models.Account{Email: "max@example.com", PasswordHash: "hash", Name: "Max", Role: models.RoleDependent, GuardianID: &guardian.ID},
		Extensions{DependentProfile: &profile, Wallet: &models.Wallet{}})
	require.NoError(t, err)

	_, err = repo.FindGuardianByID(ctx, dependent.ID)
	require.ErrorIs(t, err, common.ErrNotFound)

	got, err := repo.FindGuardianByID(ctx, guardian.ID)
	require.NoError(t, err)
	require.Equal(t, guardian.ID, got.ID)
}

func TestMemoryRepository_DependentExtensions(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()
	ctx := context.Background()

	guardian := createGuardian(t, repo, "anna@example.com")
	profile := models.NewDependentProfile()
	dependent, err := repo.CreateWithExtensions(ctx,
		&models.Account{Email: "max@example.com", PasswordHash: "hash", Name: "Max", Role: models.RoleDependent, GuardianID: &guardian.ID},
		Extensions{DependentProfile: &profile, Wallet: &models.Wallet{}})
	require.NoError(t, err)

	p, ok := repo.DependentProfile(dependent.ID)
	require.True(t, ok)
	require.Equal(t, "ru", p.NativeLang)
	require.Equal(t, "en", p.TargetLang)
	require.Equal(t, 30, p.MaxSessionMinutes)
	require.Equal(t, 15, p.BreakIntervalMinutes)

	w, ok := repo.Wallet(dependent.ID)
	require.True(t, ok)
	require.Equal(t, int64(0), w.Balance)

	deps, err := repo.FindDependentsByGuardian(ctx, guardian.ID)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	require.Equal(t, dependent.ID, deps[0].ID)
}

func TestMemoryRepository_ConcurrentCreateSameEmail(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.CreateWithExtensions(ctx,
				&models.Account{Email: "race@example.com", PasswordHash: "hash", Name: "Anna", Role: models.RoleGuardian},
				Extensions{GuardianProfile: &models.GuardianProfile{Settings: "{}"}})
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, common.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, successes, "exactly one registration must win")
	require.Equal(t, attempts-1, conflicts)
}
