package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignRoundTrip(t *testing.T) {
	pair, err := GenerateSignKeyPair()
	require.NoError(t, err)

	msg := []byte("hello blockchain")
	signed, err := Sign(msg, pair.Secret)
	require.NoError(t, err)

	opened, err := SignOpen(signed, pair.Public)
	require.NoError(t, err)
	assert.Equal(t, msg, opened)
}

func TestSignOpenRejectsTamperedSignature(t *testing.T) {
	pair, err := GenerateSignKeyPair()
	require.NoError(t, err)

	signed, err := Sign([]byte("hello"), pair.Secret)
	require.NoError(t, err)
	signed[0] ^= 0xFF

	_, err = SignOpen(signed, pair.Public)
	assert.Error(t, err)
}

func TestSignDetachedVerifiesWithStdlib(t *testing.T) {
	pair, err := GenerateSignKeyPair()
	require.NoError(t, err)

	msg := []byte("detached")
	sig, err := SignDetached(msg, pair.Secret)
	require.NoError(t, err)
	assert.Len(t, sig, 64)

	_, err = SignOpen(append(append([]byte{}, sig...), msg...), pair.Public)
	assert.NoError(t, err)
}

func TestBoxRoundTrip(t *testing.T) {
	alice, err := GenerateBoxKeyPair()
	require.NoError(t, err)
	bob, err := GenerateBoxKeyPair()
	require.NoError(t, err)

	nonce := make([]byte, 24)
	plain := []byte("box me up")

	encrypted, err := Box(plain, nonce, bob.Public, alice.Secret)
	require.NoError(t, err)

	decrypted, err := BoxOpen(encrypted, nonce, alice.Public, bob.Secret)
	require.NoError(t, err)
	assert.Equal(t, plain, decrypted)
}

func TestSecretBoxRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	nonce := make([]byte, 24)
	plain := []byte("shared secret payload")

	encrypted, err := SecretBox(plain, nonce, key)
	require.NoError(t, err)

	decrypted, err := SecretBoxOpen(encrypted, nonce, key)
	require.NoError(t, err)
	assert.Equal(t, plain, decrypted)
}

func TestKeyPairSignerSignsWithItsOwnPublicKey(t *testing.T) {
	pair, err := GenerateSignKeyPair()
	require.NoError(t, err)
	signer := NewKeyPairSigner(pair)

	digest := []byte("digest-to-sign")
	sig, err := signer.Sign(digest)
	require.NoError(t, err)

	_, err = SignOpen(append(append([]byte{}, sig...), digest...), signer.PublicKey())
	assert.NoError(t, err)
}
