package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
)

const (
	// DefaultExponent is the only public exponent the Go generator produces.
	DefaultExponent = 65537

	// DefaultBits is the key size used by the command line tool.
	DefaultBits = 2048

	// MinBits is the smallest modulus accepted by GenerateKeyPair.
	MinBits = 2048
)

var (
	ErrUnsupportedExponent = errors.New("unsupported public exponent")
	ErrKeyTooSmall         = errors.New("key size too small")
	ErrInvalidKey          = errors.New("invalid key")
	ErrInvalidKeyName      = errors.New("invalid key name")
	ErrPasswordRequired    = errors.New("private key is encrypted: password required")
	ErrIncorrectPassword   = errors.New("incorrect password")
	ErrKeyNotEncrypted     = errors.New("password given but private key is not encrypted")
)

// GenerateKeyPair creates an RSA key pair. exponent must be 0 or 65537;
// bits must be at least MinBits.
func GenerateKeyPair(exponent, bits int) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	if exponent != 0 && exponent != DefaultExponent {
		return nil, nil, fmt.Errorf("%w: %d, only %d is supported", ErrUnsupportedExponent, exponent, DefaultExponent)
	}

	if bits < MinBits {
		return nil, nil, fmt.Errorf("%w: %d bits, minimum %d", ErrKeyTooSmall, bits, MinBits)
	}

	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate %d-bit RSA key: %w", bits, err)
	}

	return priv, &priv.PublicKey, nil
}
