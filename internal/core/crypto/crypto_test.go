package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBox(t *testing.T) {
	box, err := NewBox("any-passphrase-works")
	require.NoError(t, err)

	t.Run("Roundtrip", func(t *testing.T) {
		sealed, err := box.Encrypt("rzp_live_secret")
		require.NoError(t, err)
		assert.NotEqual(t, "rzp_live_secret", sealed)

		opened, err := box.Decrypt(sealed)
		assert.NoError(t, err)
		assert.Equal(t, "rzp_live_secret", opened)
	})

	t.Run("NoncesDiffer", func(t *testing.T) {
		a, err := box.Encrypt("same value")
		require.NoError(t, err)
		b, err := box.Encrypt("same value")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("TamperedCiphertext", func(t *testing.T) {
		sealed, err := box.Encrypt("secret")
		require.NoError(t, err)

		tampered := []byte(sealed)
		tampered[len(tampered)-5] ^= 'x'
		_, err = box.Decrypt(string(tampered))
		assert.ErrorIs(t, err, ErrInvalidCiphertext)
	})

	t.Run("WrongKey", func(t *testing.T) {
		sealed, err := box.Encrypt("secret")
		require.NoError(t, err)

		other, err := NewBox("another-passphrase")
		require.NoError(t, err)
		_, err = other.Decrypt(sealed)
		assert.ErrorIs(t, err, ErrInvalidCiphertext)
	})

	t.Run("NotBase64", func(t *testing.T) {
		_, err := box.Decrypt("%%% not base64 %%%")
		assert.ErrorIs(t, err, ErrInvalidCiphertext)
	})

	t.Run("TooShort", func(t *testing.T) {
		_, err := box.Decrypt("AAAA")
		assert.ErrorIs(t, err, ErrInvalidCiphertext)
	})
}
