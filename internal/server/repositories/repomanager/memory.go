package repomanager

import (
	"context"
	"database/sql"

	"github.com/kids-learning/auth-service/internal/dbx"
	"github.com/kids-learning/auth-service/internal/server/repositories/accounts"
)

// InMemoryRepositoryManager serves a single shared in-memory accounts
// store. The store provides its own atomicity, so the DBTX argument is
// ignored and RunMigrations is a no-op.
type InMemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{accounts: accounts.NewMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return m.accounts
}

// AccountStore exposes the underlying store so tests can reach its
// inspection helpers.
func (m *InMemoryRepositoryManager) AccountStore() *accounts.MemoryRepository {
	return m.accounts
}
