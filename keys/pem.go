package keys

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/youmark/pkcs8"
)

const (
	blockPrivateKey          = "PRIVATE KEY"
	blockEncryptedPrivateKey = "ENCRYPTED PRIVATE KEY"
	blockRSAPrivateKey       = "RSA PRIVATE KEY"
	blockPublicKey           = "PUBLIC KEY"
)

// EncodePrivateKeyPEM renders priv as PKCS#8 PEM. A non-empty password
// encrypts the key with PBES2.
func EncodePrivateKeyPEM(priv *rsa.PrivateKey, password string) ([]byte, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrInvalidKey)
	}

	blockType := blockPrivateKey
	var pw []byte
	if password != "" {
		blockType = blockEncryptedPrivateKey
		pw = []byte(password)
	}

	der, err := pkcs8.MarshalPrivateKey(priv, pw, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der}), nil
}

// EncodePublicKeyPEM renders pub as PKIX PEM.
func EncodePublicKeyPEM(pub *rsa.PublicKey) ([]byte, error) {
	if pub == nil {
		return nil, fmt.Errorf("%w: nil public key", ErrInvalidKey)
	}

	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: blockPublicKey, Bytes: der}), nil
}

// ParsePrivateKeyPEM reads an RSA private key in PKCS#1, PKCS#8 or encrypted
// PKCS#8 form. password must be set exactly when the key is encrypted.
func ParsePrivateKeyPEM(data []byte, password string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidKey)
	}

	switch block.Type {
	case blockEncryptedPrivateKey:
		if password == "" {
			return nil, ErrPasswordRequired
		}
		priv, err := pkcs8.ParsePKCS8PrivateKeyRSA(block.Bytes, []byte(password))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncorrectPassword, err)
		}
		return priv, nil

	case blockPrivateKey, blockRSAPrivateKey:
		if password != "" {
			return nil, ErrKeyNotEncrypted
		}
		priv, err := gjwt.ParseRSAPrivateKeyFromPEM(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return priv, nil

	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", ErrInvalidKey, block.Type)
	}
}

// ParsePublicKeyPEM reads an RSA public key in PKIX or PKCS#1 form, or the
// key of an X.509 certificate.
func ParsePublicKeyPEM(data []byte) (*rsa.PublicKey, error) {
	pub, err := gjwt.ParseRSAPublicKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return pub, nil
}
