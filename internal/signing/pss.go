package signing

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
)

type pssSigningMethod struct {
	name     string
	hashFunc crypto.Hash
}

var (
	pssRS256 = &pssSigningMethod{"RS256", crypto.SHA256}
	pssRS384 = &pssSigningMethod{"RS384", crypto.SHA384}
	pssRS512 = &pssSigningMethod{"RS512", crypto.SHA512}
)

func (p *pssSigningMethod) Alg() string {
	return p.name
}

func (p *pssSigningMethod) Hash() crypto.Hash {
	return p.hashFunc
}

// Sign uses a salt as long as the digest, with MGF1 over the same hash.
func (p *pssSigningMethod) Sign(signingInput []byte, key any) ([]byte, error) {
	signer, err := pssSigner(key)
	if err != nil {
		return nil, err
	}
	if err := p.checkKeySize(signer.Public().(*rsa.PublicKey)); err != nil {
		return nil, err
	}

	digest, err := p.digest(signingInput)
	if err != nil {
		return nil, err
	}

	sig, err := signer.Sign(rand.Reader, digest, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
		Hash:       p.hashFunc,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to sign with %s: %v", ErrInvalidKeyType, p.name, err)
	}
	return sig, nil
}

// Verify auto-detects the salt length so maximum-salt signatures verify too.
func (p *pssSigningMethod) Verify(signingInput, signature []byte, key any) (bool, error) {
	pub, err := pssPublicKey(key)
	if err != nil {
		return false, err
	}
	if err := p.checkKeySize(pub); err != nil {
		return false, err
	}

	if len(signature) != pub.Size() {
		return false, nil
	}

	digest, err := p.digest(signingInput)
	if err != nil {
		return false, err
	}

	err = rsa.VerifyPSS(pub, p.hashFunc, digest, signature, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
		Hash:       p.hashFunc,
	})
	return err == nil, nil
}

// checkKeySize rejects moduli too short to carry a digest plus a salt of
// the same length, the encoding Sign produces.
func (p *pssSigningMethod) checkKeySize(pub *rsa.PublicKey) error {
	if pub.N == nil {
		return fmt.Errorf("%w: RSA key has no modulus", ErrInvalidKeyType)
	}
	emLen := (pub.N.BitLen() - 1 + 7) / 8
	if need := 2*p.hashFunc.Size() + 2; emLen < need {
		return fmt.Errorf("%w: %d-bit RSA key is too small for %s", ErrInvalidKeyType, pub.N.BitLen(), p.name)
	}
	return nil
}

func (p *pssSigningMethod) digest(data []byte) ([]byte, error) {
	if !p.hashFunc.Available() {
		return nil, fmt.Errorf("hash function %v not available", p.hashFunc)
	}
	h := p.hashFunc.New()
	h.Write(data)
	return h.Sum(nil), nil
}

func pssSigner(key any) (crypto.Signer, error) {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		if k == nil {
			return nil, fmt.Errorf("%w: nil RSA private key", ErrInvalidKeyType)
		}
		return k, nil
	case crypto.Signer:
		if _, ok := k.Public().(*rsa.PublicKey); !ok {
			return nil, fmt.Errorf("%w: signer public key is %T, want *rsa.PublicKey", ErrInvalidKeyType, k.Public())
		}
		return k, nil
	default:
		return nil, fmt.Errorf("%w: RSA signing requires a private key, got %T", ErrInvalidKeyType, key)
	}
}

func pssPublicKey(key any) (*rsa.PublicKey, error) {
	switch k := key.(type) {
	case *rsa.PublicKey:
		if k == nil {
			return nil, fmt.Errorf("%w: nil RSA public key", ErrInvalidKeyType)
		}
		return k, nil
	case *rsa.PrivateKey:
		if k == nil {
			return nil, fmt.Errorf("%w: nil RSA private key", ErrInvalidKeyType)
		}
		return &k.PublicKey, nil
	case crypto.Signer:
		if pub, ok := k.Public().(*rsa.PublicKey); ok {
			return pub, nil
		}
		return nil, fmt.Errorf("%w: signer public key is %T, want *rsa.PublicKey", ErrInvalidKeyType, k.Public())
	default:
		return nil, fmt.Errorf("%w: RSA verification requires a public key, got %T", ErrInvalidKeyType, key)
	}
}
