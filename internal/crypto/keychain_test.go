package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyChainService_GenerateSalt(t *testing.T) {
	k := NewKeyChainService()

	salt1, err := k.GenerateSalt()
	require.NoError(t, err)
	salt2, err := k.GenerateSalt()
	require.NoError(t, err)

	assert.Len(t, salt1, 16)
	assert.NotEqual(t, salt1, salt2, "two salts must not collide")
}

func TestKeyChainService_DeriveKey(t *testing.T) {
	k := NewKeyChainService()
	salt, err := k.GenerateSalt()
	require.NoError(t, err)

	t.Run("deterministic for same password and salt", func(t *testing.T) {
		key1 := k.DeriveKey("correct horse battery staple", salt)
		key2 := k.DeriveKey("correct horse battery staple", salt)
		assert.Equal(t, key1, key2)
		assert.Len(t, key1, 32)
	})

	t.Run("different password gives different key", func(t *testing.T) {
		key1 := k.DeriveKey("password-one", salt)
		key2 := k.DeriveKey("password-two", salt)
		assert.NotEqual(t, key1, key2)
	})

	t.Run("different salt gives different key", func(t *testing.T) {
		otherSalt, err := k.GenerateSalt()
		require.NoError(t, err)
		key1 := k.DeriveKey("same-password", salt)
		key2 := k.DeriveKey("same-password", otherSalt)
		assert.NotEqual(t, key1, key2)
	})
}

func TestKeyChainService_SealOpen(t *testing.T) {
	k := NewKeyChainService()
	salt, err := k.GenerateSalt()
	require.NoError(t, err)
	key := k.DeriveKey("master-password", salt)

	t.Run("round trip", func(t *testing.T) {
		plaintext := []byte("attack at dawn")

		blob, err := k.Seal(key, plaintext)
		require.NoError(t, err)
		assert.NotContains(t, string(blob), "attack at dawn")

		got, err := k.Open(key, blob)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	})

	t.Run("wrong key fails authentication", func(t *testing.T) {
		blob, err := k.Seal(key, []byte("secret"))
		require.NoError(t, err)

		wrongKey := k.DeriveKey("not-the-password", salt)
		_, err = k.Open(wrongKey, blob)
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("tampered ciphertext fails authentication", func(t *testing.T) {
		blob, err := k.Seal(key, []byte("secret"))
		require.NoError(t, err)

		blob[len(blob)-1] ^= 0xff
		_, err = k.Open(key, blob)
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("truncated blob fails", func(t *testing.T) {
		_, err := k.Open(key, []byte{0x01, 0x02})
		assert.ErrorIs(t, err, ErrAuthFailed)
	})
}
