package accounts

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/kids-learning/auth-service/internal/common"
	"github.com/kids-learning/auth-service/internal/server/models"
)

// MemoryRepository is a mutex-guarded in-memory store used by tests and
// local development. It enforces the same invariants as the PostgreSQL
// implementation: email uniqueness across all roles and atomic creation
// of the account plus its extension rows.
type MemoryRepository struct {
	mu sync.Mutex

	byID              map[string]*models.Account
	byEmail           map[string]*models.Account
	guardianProfiles  map[string]*models.GuardianProfile
	dependentProfiles map[string]*models.DependentProfile
	wallets           map[string]*models.Wallet
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:              make(map[string]*models.Account),
		byEmail:           make(map[string]*models.Account),
		guardianProfiles:  make(map[string]*models.GuardianProfile),
		dependentProfiles: make(map[string]*models.DependentProfile),
		wallets:           make(map[string]*models.Wallet),
	}
}

func copyAccount(a *models.Account) *models.Account {
	c := *a
	if a.GuardianID != nil {
		g := *a.GuardianID
		c.GuardianID = &g
	}
	return &c
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return copyAccount(account), nil
}

func (r *MemoryRepository) FindByEmailAndRole(ctx context.Context, email string, role models.Role) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byEmail[email]
	if !ok || account.Role != role {
		return nil, common.ErrNotFound
	}
	return copyAccount(account), nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return copyAccount(account), nil
}

func (r *MemoryRepository) FindGuardianByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byID[id]
	if !ok || account.Role != models.RoleGuardian {
		return nil, common.ErrNotFound
	}
	return copyAccount(account), nil
}

func (r *MemoryRepository) FindDependentsByGuardian(ctx context.Context, guardianID string) ([]*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.Account
	for _, account := range r.byID {
		if account.GuardianID != nil && *account.GuardianID == guardianID {
			result = append(result, copyAccount(account))
		}
	}
	return result, nil
}

func (r *MemoryRepository) CreateWithExtensions(ctx context.Context, account *models.Account, exts Extensions) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[account.Email]; exists {
		return nil, common.ErrConflict
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	stored := copyAccount(account)
	r.byID[stored.ID] = stored
	r.byEmail[stored.Email] = stored

	if exts.GuardianProfile != nil {
		p := *exts.GuardianProfile
		p.AccountID = stored.ID
		r.guardianProfiles[stored.ID] = &p
	}
	if exts.DependentProfile != nil {
		p := *exts.DependentProfile
		p.AccountID = stored.ID
		r.dependentProfiles[stored.ID] = &p
	}
	if exts.Wallet != nil {
		w := *exts.Wallet
		w.AccountID = stored.ID
		r.wallets[stored.ID] = &w
	}

	return copyAccount(stored), nil
}

// GuardianProfile returns the stored profile extension, if any.
// Lookup helpers below are used by tests; they are not part of Repository.
func (r *MemoryRepository) GuardianProfile(id string) (models.GuardianProfile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.guardianProfiles[id]
	if !ok {
		return models.GuardianProfile{}, false
	}
	return *p, true
}

// DependentProfile returns the stored profile extension, if any.
func (r *MemoryRepository) DependentProfile(id string) (models.DependentProfile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.dependentProfiles[id]
	if !ok {
		return models.DependentProfile{}, false
	}
	return *p, true
}

// Wallet returns the stored wallet extension, if any.
func (r *MemoryRepository) Wallet(id string) (models.Wallet, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.wallets[id]
	if !ok {
		return models.Wallet{}, false
	}
	return *w, true
}

// Remove deletes an account and its extensions. It mimics the out-of-band
// administrative deletion path so tests can exercise stale tokens.
func (r *MemoryRepository) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byEmail, account.Email)
	delete(r.byID, id)
	delete(r.guardianProfiles, id)
	delete(r.dependentProfiles, id)
	delete(r.wallets, id)
}
