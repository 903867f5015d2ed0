package auth

import (
	"fmt"

	"github.com/kids-learning/auth-service/internal/server/models"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher applies the bcrypt hashing policy. Costs are fixed at
// construction time; dependent accounts may be configured with a lower
// cost than guardians (see config.Config) — a deliberate trade-off for
// low-powered client devices that weakens brute-force resistance for
// dependent credentials.
type PasswordHasher struct {
	guardianCost  int
	dependentCost int
}

// NewPasswordHasher validates the configured work factors and returns the
// hashing policy.
func NewPasswordHasher(guardianCost, dependentCost int) (*PasswordHasher, error) {
	for _, cost := range []int{guardianCost, dependentCost} {
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
		}
	}
	return &PasswordHasher{guardianCost: guardianCost, dependentCost: dependentCost}, nil
}

// HashForRole hashes plaintext at the work factor configured for the role.
func (h *PasswordHasher) HashForRole(plaintext string, role models.Role) (string, error) {
	cost := h.guardianCost
	if role == models.RoleDependent {
		cost = h.dependentCost
	}
	return h.Hash(plaintext, cost)
}

// Hash hashes plaintext at an explicit work factor.
func (h *PasswordHasher) Hash(plaintext string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. Corrupt or
// foreign-format digests verify false, never panic. The underlying
// comparison is constant-time with respect to the digest.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
