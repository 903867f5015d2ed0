// Package models contains the persistent record types shared by server
// repositories and services.
package models

import (
	"fmt"
	"time"
)

// Role is the closed set of account roles. Role is immutable after the
// account is created.
type Role string

const (
	// RoleGuardian is a top-level account able to sponsor dependent accounts.
	RoleGuardian Role = "guardian"
	// RoleDependent is an account created under a guardian, scoped to a
	// learner identity.
	RoleDependent Role = "dependent"
)

// ParseRole validates a textual role coming from storage or a request.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	return r == RoleGuardian || r == RoleDependent
}

func (r Role) String() string { return string(r) }

// Account is the identity record. GuardianID is set only on dependent
// accounts and always references an existing guardian account.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	GuardianID   *string
	CreatedAt    time.Time
}

// View returns the public projection of the account that is safe to hand
// to clients (no password hash).
func (a *Account) View() AccountView {
	v := AccountView{
		ID:    a.ID,
		Email: a.Email,
		Role:  a.Role,
		Name:  a.Name,
	}
	if a.GuardianID != nil {
		v.GuardianID = *a.GuardianID
	}
	return v
}

// AccountView is the public account projection returned by the API.
type AccountView struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Name       string `json:"name"`
	GuardianID string `json:"guardianId,omitempty"`
}
