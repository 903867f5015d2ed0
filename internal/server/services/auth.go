// Package services contains server-side business logic. This file implements
// AuthService: guardian/dependent registration, login, and identity refresh
// for validated tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kids-learning/auth-service/internal/common"
	"github.com/kids-learning/auth-service/internal/dbx"
	"github.com/kids-learning/auth-service/internal/server/auth"
	"github.com/kids-learning/auth-service/internal/server/models"
	"github.com/kids-learning/auth-service/internal/server/repositories/accounts"
	"github.com/kids-learning/auth-service/internal/server/repositories/repomanager"
)

// AuthResult bundles the issued access token with the public account view.
type AuthResult struct {
	AccessToken string
	Account     models.AccountView
}

// AuthService provides the account-provisioning and authentication
// operations:
// - RegisterGuardian / RegisterDependent: create linked accounts
// - Login: verify credentials and mint a token
// - ValidateByID: re-fetch the live account behind validated claims
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.Manager
	passwords   *auth.PasswordHasher
}

// NewAuthService constructs an AuthService. db may be nil when the
// repository manager serves a store that provides its own atomicity.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.Manager, passwords *auth.PasswordHasher) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		passwords:   passwords,
	}
}

// RegisterGuardian creates a guardian account with an empty profile and
// returns a token for it. A taken email (any role) yields common.ErrConflict.
func (s *AuthService) RegisterGuardian(ctx context.Context, email, password, name string) (*AuthResult, error) {
	repo := s.repomanager.Accounts(s.db)

	if err := s.ensureEmailFree(ctx, repo, email); err != nil {
		return nil, err
	}

	hash, err := s.passwords.HashForRole(password, models.RoleGuardian)
	if err != nil {
		return nil, fmt.Errorf("hashing guardian password: %w", err)
	}

	account := &models.Account{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         models.RoleGuardian,
	}

	created, err := s.createWithExtensions(ctx, account, accounts.Extensions{
		GuardianProfile: &models.GuardianProfile{Settings: "{}"},
	})
	if err != nil {
		return nil, err
	}

	return s.authResult(created)
}

// RegisterDependent creates a dependent account under an existing guardian,
// together with a default learner profile and a zero-balance wallet.
//
// The guardian check runs before the email uniqueness check: a missing or
// non-guardian id is an unauthorized relationship, which outranks a soft
// email conflict. The failure is common.ErrUnauthorized rather than
// not-found so callers cannot probe ids outside the guardian namespace.
func (s *AuthService) RegisterDependent(ctx context.Context, email, password, name, guardianID string) (*AuthResult, error) {
	repo := s.repomanager.Accounts(s.db)

	guardian, err := repo.FindGuardianByID(ctx, guardianID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("resolving guardian: %w", err)
	}

	if err := s.ensureEmailFree(ctx, repo, email); err != nil {
		return nil, err
	}

	hash, err := s.passwords.HashForRole(password, models.RoleDependent)
	if err != nil {
		return nil, fmt.Errorf("hashing dependent password: %w", err)
	}

	account := &models.Account{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         models.RoleDependent,
		GuardianID:   &guardian.ID,
	}

	profile := models.NewDependentProfile()
	created, err := s.createWithExtensions(ctx, account, accounts.Extensions{
		DependentProfile: &profile,
		Wallet:           &models.Wallet{},
	})
	if err != nil {
		return nil, err
	}

	return s.authResult(created)
}

// Login verifies credentials and mints a token. When roleHint is non-nil
// the lookup is narrowed to that role, so a mismatching hint behaves
// exactly like a missing account. Missing accounts and wrong passwords are
// indistinguishable: both return common.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string, roleHint *models.Role) (*AuthResult, error) {
	repo := s.repomanager.Accounts(s.db)

	var account *models.Account
	var err error
	if roleHint != nil {
		account, err = repo.FindByEmailAndRole(ctx, email, *roleHint)
	} else {
		account, err = repo.FindByEmail(ctx, email)
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: looking up account: %v", common.ErrInternal, err)
	}

	if !s.passwords.Verify(password, account.PasswordHash) {
		return nil, common.ErrUnauthorized
	}

	return s.authResult(account)
}

// ValidateByID re-fetches the live account for a validated token subject.
// A missing account yields common.ErrUnauthorized: tokens are not
// authoritative proof of continued existence.
func (s *AuthService) ValidateByID(ctx context.Context, id string) (models.AccountView, error) {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.AccountView{}, common.ErrUnauthorized
		}
		return models.AccountView{}, fmt.Errorf("%w: refreshing identity: %v", common.ErrInternal, err)
	}

	return account.View(), nil
}

// Dependents lists the accounts sponsored by the given guardian.
func (s *AuthService) Dependents(ctx context.Context, guardianID string) ([]models.AccountView, error) {
	repo := s.repomanager.Accounts(s.db)

	list, err := repo.FindDependentsByGuardian(ctx, guardianID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing dependents: %v", common.ErrInternal, err)
	}

	views := make([]models.AccountView, 0, len(list))
	for _, account := range list {
		views = append(views, account.View())
	}
	return views, nil
}

// --- helpers below ---

// ensureEmailFree is the optimistic pre-check; the store's uniqueness
// constraint remains the source of truth at commit time.
func (s *AuthService) ensureEmailFree(ctx context.Context, repo accounts.Repository, email string) error {
	_, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return common.ErrConflict
	}
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("checking email uniqueness: %w", err)
}

func (s *AuthService) createWithExtensions(ctx context.Context, account *models.Account, exts accounts.Extensions) (*models.Account, error) {
	var created *models.Account

	err := s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Accounts(tx)
		var createErr error
		created, createErr = repoTx.CreateWithExtensions(ctx, account, exts)
		return createErr
	})
	if err != nil {
		// Two registrations racing on the same email lose here, after the
		// pre-check passed; surface it as the same conflict.
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("creating account: %w", err)
	}

	return created, nil
}

// withTx runs fn inside a database transaction. A nil db means the store
// provides its own atomicity (in-memory), so fn runs directly.
func (s *AuthService) withTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}

func (s *AuthService) authResult(account *models.Account) (*AuthResult, error) {
	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, fmt.Errorf("%w: signing token: %v", common.ErrInternal, err)
	}
	return &AuthResult{AccessToken: token, Account: account.View()}, nil
}
