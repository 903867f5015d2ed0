// Package auth implements the cryptographic pieces of authentication:
// signed access tokens, the password hashing policy, and the role guard.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kids-learning/auth-service/internal/common"
	"github.com/kids-learning/auth-service/internal/server/models"
)

// Claims is the identity payload carried by an access token. GuardianID is
// present only for dependent accounts.
type Claims struct {
	jwt.RegisteredClaims
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	GuardianID string      `json:"guardianId,omitempty"`
}

// Manager issues and validates HS256 access tokens.
//
// signKey is the process-wide signing key. verifyKeys are additionally
// accepted during validation, so a key rotation window only needs the old
// key listed in configuration while new tokens are signed with the new one.
type Manager struct {
	signKey    []byte
	verifyKeys [][]byte
	ttl        time.Duration
}

// NewManager builds a token manager. extraVerifyKeys may be nil.
func NewManager(signKey []byte, extraVerifyKeys [][]byte, ttl time.Duration) *Manager {
	return &Manager{signKey: signKey, verifyKeys: extraVerifyKeys, ttl: ttl}
}

// Issue signs a token embedding the account's identity claims, expiring
// after the configured time-to-live.
func (m *Manager) Issue(account *models.Account) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Email: account.Email,
		Role:  account.Role,
	}
	if account.GuardianID != nil {
		claims.GuardianID = *account.GuardianID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.signKey)
}

// Validate checks the token's signature and expiry and returns its claims.
// Expired tokens yield common.ErrTokenExpired; any other structural or
// signature problem yields common.ErrInvalidToken. No partial claims are
// ever returned.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	var lastErr error
	for _, key := range m.keys() {
		claims, err := parseWithKey(tokenString, key)
		if err == nil {
			return claims, nil
		}
		// A token signed with a secondary key still reports expiry, not
		// a signature mismatch.
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, err
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = common.ErrInvalidToken
	}
	return nil, lastErr
}

func (m *Manager) keys() [][]byte {
	return append([][]byte{m.signKey}, m.verifyKeys...)
}

func parseWithKey(tokenString string, key []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
