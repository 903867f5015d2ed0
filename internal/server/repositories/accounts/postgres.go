package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kids-learning/auth-service/internal/common"
	"github.com/kids-learning/auth-service/internal/dbx"
	"github.com/kids-learning/auth-service/internal/server/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, email, password_hash, name, role, guardian_id, created_at`

func scanAccount(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	var role string
	var guardianID sql.NullString

	err := row.Scan(&account.ID, &account.Email, &account.PasswordHash,
		&account.Name, &role, &guardianID, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.Role, err = models.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if guardianID.Valid {
		account.GuardianID = &guardianID.String
	}

	return account, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT ` + accountColumns + ` FROM accounts
		 WHERE email = $1
		 `

	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) FindByEmailAndRole(ctx context.Context, email string, role models.Role) (*models.Account, error) {
	query :=
		`SELECT ` + accountColumns + ` FROM accounts
		 WHERE email = $1 AND role = $2
		 `

	return scanAccount(r.db.QueryRowContext(ctx, query, email, role.String()))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT ` + accountColumns + ` FROM accounts
		 WHERE id = $1
		 `

	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) FindGuardianByID(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT ` + accountColumns + ` FROM accounts
		 WHERE id = $1 AND role = $2
		 `

	return scanAccount(r.db.QueryRowContext(ctx, query, id, models.RoleGuardian.String()))
}

func (r *PostgresRepository) FindDependentsByGuardian(ctx context.Context, guardianID string) ([]*models.Account, error) {
	query :=
		`SELECT ` + accountColumns + ` FROM accounts
		 WHERE guardian_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, guardianID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		account := &models.Account{}
		var role string
		var gID sql.NullString
		if err := rows.Scan(&account.ID, &account.Email, &account.PasswordHash,
			&account.Name, &role, &gID, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		account.Role, err = models.ParseRole(role)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if gID.Valid {
			account.GuardianID = &gID.String
		}
		result = append(result, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) CreateWithExtensions(ctx context.Context, account *models.Account, exts Extensions) (*models.Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO accounts (id, email, password_hash, name, role, guardian_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Email, account.PasswordHash, account.Name,
		account.Role.String(), account.GuardianID).Scan(&account.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if exts.GuardianProfile != nil {
		query := `INSERT INTO guardian_profiles (account_id, settings) VALUES ($1, $2)`
		if _, err := r.db.ExecContext(ctx, query, account.ID, exts.GuardianProfile.Settings); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}

	if exts.DependentProfile != nil {
		query :=
			`INSERT INTO dependent_profiles (account_id, native_lang, target_lang, max_session_minutes, break_interval_minutes)
			 VALUES ($1, $2, $3, $4, $5)
			 `
		p := exts.DependentProfile
		if _, err := r.db.ExecContext(ctx, query, account.ID,
			p.NativeLang, p.TargetLang, p.MaxSessionMinutes, p.BreakIntervalMinutes); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}

	if exts.Wallet != nil {
		query := `INSERT INTO wallets (account_id, balance) VALUES ($1, $2)`
		if _, err := r.db.ExecContext(ctx, query, account.ID, exts.Wallet.Balance); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}

	return account, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
