package repomanager

import (
	"context"
	"database/sql"

	"github.com/kids-learning/auth-service/internal/dbx"
	"github.com/kids-learning/auth-service/internal/server/repositories/accounts"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}
