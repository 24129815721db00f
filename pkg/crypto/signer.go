package crypto

import "fmt"

// Signer is the signer abstraction spec.md §1 names as out of scope for the
// monitor core but part of the wider SDK surface. Implementations decide
// where the secret key material actually lives (in-memory keypair, an
// external keystore, a hardware wallet); txprocessing only depends on this
// interface.
type Signer interface {
	Sign(digest []byte) (signature []byte, err error)
	PublicKey() []byte
}

// keyPairSigner is the simplest Signer: an in-memory ed25519 keypair.
type keyPairSigner struct {
	pair KeyPair
}

// NewKeyPairSigner wraps a KeyPair (as produced by GenerateSignKeyPair or
// SignKeyPairFromSecret) as a Signer.
func NewKeyPairSigner(pair KeyPair) Signer {
	return &keyPairSigner{pair: pair}
}

func (s *keyPairSigner) Sign(digest []byte) ([]byte, error) {
	sig, err := SignDetached(digest, s.pair.Secret)
	if err != nil {
		return nil, fmt.Errorf("crypto: keypair signer: %w", err)
	}
	return sig, nil
}

func (s *keyPairSigner) PublicKey() []byte {
	return s.pair.Public
}
