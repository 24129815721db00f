// Package crypto wraps the NaCl primitives that spec.md §1 calls out of
// scope for the message monitor core but in scope for the SDK as a whole
// ("cryptographic primitives (signing, box, secret-box)"). It follows the
// original ton_client/client/src/crypto/nacl.rs one function at a time,
// swapping libsodium/sodalite for the Go standard library's ed25519 and
// golang.org/x/crypto's nacl/box and nacl/secretbox.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"
)

// KeyPair is a hex-agnostic raw keypair; callers that need the SDK's usual
// hex-string encoding do that at the boundary, not here.
type KeyPair struct {
	Public []byte
	Secret []byte
}

// GenerateSignKeyPair is nacl_sign_keypair: a fresh ed25519 keypair.
// NaCl's "sign" scheme is ed25519, so crypto/ed25519 is a drop-in.
func GenerateSignKeyPair() (KeyPair, error) {
	pub, sec, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("crypto: generate sign keypair: %w", err)
	}
	return KeyPair{Public: pub, Secret: sec}, nil
}

// SignKeyPairFromSecret is nacl_sign_keypair_from_secret: rederives the
// full keypair from a 32-byte seed (the original secret key is the 64-byte
// libsodium form; ed25519.NewKeyFromSeed expects the 32-byte seed, the
// first half of that 64-byte form).
func SignKeyPairFromSecret(seed []byte) (KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return KeyPair{}, fmt.Errorf("crypto: sign seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	sec := ed25519.NewKeyFromSeed(seed)
	return KeyPair{Public: sec.Public().(ed25519.PublicKey), Secret: sec}, nil
}

// Sign is nacl_sign: prepends the 64-byte signature to the message
// (libsodium's "attached" signing mode).
func Sign(unsigned, secret []byte) ([]byte, error) {
	if len(secret) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("crypto: secret key must be %d bytes", ed25519.PrivateKeySize)
	}
	sig := ed25519.Sign(ed25519.PrivateKey(secret), unsigned)
	signed := make([]byte, 0, len(sig)+len(unsigned))
	signed = append(signed, sig...)
	signed = append(signed, unsigned...)
	return signed, nil
}

// SignDetached is nacl_sign_detached: returns only the 64-byte signature.
func SignDetached(unsigned, secret []byte) ([]byte, error) {
	if len(secret) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("crypto: secret key must be %d bytes", ed25519.PrivateKeySize)
	}
	return ed25519.Sign(ed25519.PrivateKey(secret), unsigned), nil
}

// SignOpen is nacl_sign_open: verifies and strips the signature prefix
// produced by Sign.
func SignOpen(signed, public []byte) ([]byte, error) {
	if len(public) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("crypto: public key must be %d bytes", ed25519.PublicKeySize)
	}
	if len(signed) < ed25519.SignatureSize {
		return nil, fmt.Errorf("crypto: signed data shorter than a signature")
	}
	sig, msg := signed[:ed25519.SignatureSize], signed[ed25519.SignatureSize:]
	if !ed25519.Verify(ed25519.PublicKey(public), msg, sig) {
		return nil, fmt.Errorf("crypto: signature verification failed")
	}
	return msg, nil
}

// GenerateBoxKeyPair is nacl_box_keypair: a fresh Curve25519 keypair for
// box/open.
func GenerateBoxKeyPair() (KeyPair, error) {
	pub, sec, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("crypto: generate box keypair: %w", err)
	}
	return KeyPair{Public: pub[:], Secret: sec[:]}, nil
}

// Box is nacl_box: authenticated-encrypts decrypted for theirPublic, using
// secret and a 24-byte nonce.
func Box(decrypted, nonce, theirPublic, secret []byte) ([]byte, error) {
	var n [24]byte
	var pub, sec [32]byte
	if err := fixedCopy(n[:], nonce); err != nil {
		return nil, err
	}
	if err := fixedCopy(pub[:], theirPublic); err != nil {
		return nil, err
	}
	if err := fixedCopy(sec[:], secret); err != nil {
		return nil, err
	}
	return box.Seal(nil, decrypted, &n, &pub, &sec), nil
}

// BoxOpen is nacl_box_open: the inverse of Box.
func BoxOpen(encrypted, nonce, theirPublic, secret []byte) ([]byte, error) {
	var n [24]byte
	var pub, sec [32]byte
	if err := fixedCopy(n[:], nonce); err != nil {
		return nil, err
	}
	if err := fixedCopy(pub[:], theirPublic); err != nil {
		return nil, err
	}
	if err := fixedCopy(sec[:], secret); err != nil {
		return nil, err
	}
	decrypted, ok := box.Open(nil, encrypted, &n, &pub, &sec)
	if !ok {
		return nil, fmt.Errorf("crypto: box open failed")
	}
	return decrypted, nil
}

// SecretBox is nacl_secret_box: symmetric authenticated encryption with a
// shared key.
func SecretBox(decrypted, nonce, key []byte) ([]byte, error) {
	var n [24]byte
	var k [32]byte
	if err := fixedCopy(n[:], nonce); err != nil {
		return nil, err
	}
	if err := fixedCopy(k[:], key); err != nil {
		return nil, err
	}
	return secretbox.Seal(nil, decrypted, &n, &k), nil
}

// SecretBoxOpen is nacl_secret_box_open: the inverse of SecretBox.
func SecretBoxOpen(encrypted, nonce, key []byte) ([]byte, error) {
	var n [24]byte
	var k [32]byte
	if err := fixedCopy(n[:], nonce); err != nil {
		return nil, err
	}
	if err := fixedCopy(k[:], key); err != nil {
		return nil, err
	}
	decrypted, ok := secretbox.Open(nil, encrypted, &n, &k)
	if !ok {
		return nil, fmt.Errorf("crypto: secret box open failed")
	}
	return decrypted, nil
}

func fixedCopy(dst, src []byte) error {
	if len(src) != len(dst) {
		return fmt.Errorf("crypto: expected %d bytes, got %d", len(dst), len(src))
	}
	copy(dst, src)
	return nil
}
