package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/api-sage/account-ledger/src/internal/config"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// SHA256Hasher stores the unsalted hex SHA-256 of the password. Existing
// accounts.db files depend on this exact digest, which is why it stays the default
// even though it offers no protection against offline guessing.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Matches(digest, password string) bool {
	candidate, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}

// BcryptHasher produces salted digests. Snapshots written with it cannot be read
// back by the SHA-256 scheme.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (BcryptHasher) Matches(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

func NewHasher(scheme string) (domain.PasswordHasher, error) {
	switch scheme {
	case "", config.HashSHA256:
		return SHA256Hasher{}, nil
	case config.HashBcrypt:
		return BcryptHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown hash scheme %q", scheme)
	}
}
