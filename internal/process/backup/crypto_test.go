package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plain := []byte(`{"user_id": 1, "topics": ["Docker Guide"]}`)

	sealed, err := Encrypt(plain, "passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, plain, sealed)

	opened, err := Decrypt(sealed, "passphrase")
	require.NoError(t, err)
	assert.Equal(t, plain, opened)
}

func TestDecryptWrongKey(t *testing.T) {
	sealed, err := Encrypt([]byte("secret"), "right key")
	require.NoError(t, err)

	_, err = Decrypt(sealed, "wrong key")
	assert.Error(t, err)
}

func TestDecryptTruncatedCiphertext(t *testing.T) {
	_, err := Decrypt([]byte("short"), "key")
	assert.Error(t, err)
}

func TestEncryptNoncesDiffer(t *testing.T) {
	a, err := Encrypt([]byte("same input"), "key")
	require.NoError(t, err)

	b, err := Encrypt([]byte("same input"), "key")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "each backup must use a fresh nonce")
}
