package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepositoryManager_RunMigrations(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	m := NewPostgresRepositoryManager()
	require.NoError(t, m.RunMigrations(context.Background(), nil))
	assert.Equal(t, ".", gotDir)
}

func TestPostgresRepositoryManager_RunMigrationsError(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	wantErr := errors.New("migration failed")
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return wantErr
	}

	m := NewPostgresRepositoryManager()
	assert.ErrorIs(t, m.RunMigrations(context.Background(), nil), wantErr)
}

func TestPostgresRepositoryManager_Accounts(t *testing.T) {
	m := NewPostgresRepositoryManager()
	assert.NotNil(t, m.Accounts(nil))
}
