package auth

import (
	"errors"
	"testing"

	"github.com/kids-learning/auth-service/internal/common"
	"github.com/kids-learning/auth-service/internal/server/models"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	guardian := &Claims{Role: models.RoleGuardian}
	dependent := &Claims{Role: models.RoleDependent}

	tests := []struct {
		name    string
		claims  *Claims
		allowed []models.Role
		want    error
	}{
		{"public route permits anyone", nil, nil, nil},
		{"public route permits authenticated caller", dependent, nil, nil},
		{"matching role permitted", guardian, []models.Role{models.RoleGuardian}, nil},
		{"one of several roles permitted", dependent, []models.Role{models.RoleGuardian, models.RoleDependent}, nil},
		{"wrong role forbidden", dependent, []models.Role{models.RoleGuardian}, common.ErrForbidden},
		{"absent identity unauthorized", nil, []models.Role{models.RoleGuardian}, common.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.claims, tt.allowed...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Authorize() = %v, want %v", err, tt.want)
			}
		})
	}
}
