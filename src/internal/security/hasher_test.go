package security

import (
	"strings"
	"testing"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSHA256HasherKnownDigest(t *testing.T) {
	digest, err := SHA256Hasher{}.Hash("admin")
	require.NoError(t, err)
	assert.Equal(t, "8c6976e5b5410415bde908bd4dee15dfb167a9c873fc4bb8a81f6f2ab448a918", digest)

	assert.True(t, SHA256Hasher{}.Matches(digest, "admin"))
	assert.False(t, SHA256Hasher{}.Matches(digest, "Admin"))
}

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}
	digest, err := h.Hash("pass1")
	require.NoError(t, err)

	assert.NotEqual(t, "pass1", digest)
	assert.NotContains(t, digest, "|")
	assert.True(t, h.Matches(digest, "pass1"))
	assert.False(t, h.Matches(digest, "pass2"))
	assert.False(t, h.Matches("not-a-bcrypt-digest", "pass1"))
}

func TestBcryptHasherRejectsLongPassword(t *testing.T) {
	hasher := BcryptHasher{Cost: bcrypt.MinCost}

	_, err := hasher.Hash(strings.Repeat("p", 73))
	require.ErrorIs(t, err, domain.ErrPasswordTooLong)

	digest, err := hasher.Hash(strings.Repeat("p", 72))
	require.NoError(t, err)
	assert.True(t, hasher.Matches(digest, strings.Repeat("p", 72)))
}

func TestNewHasher(t *testing.T) {
	h, err := NewHasher("sha256")
	require.NoError(t, err)
	assert.IsType(t, SHA256Hasher{}, h)

	h, err = NewHasher("bcrypt")
	require.NoError(t, err)
	assert.IsType(t, BcryptHasher{}, h)

	_, err = NewHasher("md5")
	assert.Error(t, err)
}
