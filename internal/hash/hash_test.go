package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheck(t *testing.T) {
	h, err := HashPassword("password")
	require.NoError(t, err)
	require.NotEqual(t, "password", h)

	require.True(t, CheckPassword(h, "password"))
	require.False(t, CheckPassword(h, "wrong"))
}

func TestLegacyDigest(t *testing.T) {
	sum := sha256.Sum256([]byte("oldpassword"))
	legacy := hex.EncodeToString(sum[:])

	require.True(t, CheckPassword(legacy, "oldpassword"))
	require.False(t, CheckPassword(legacy, "wrong"))
}
