package keys

import (
	"crypto/rsa"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	privateKeyPerm = 0o600
	publicKeyPerm  = 0o644
	dirPerm        = 0o700
)

// SaveKeyPair writes <name>-private.pem and <name>-public.pem into dir,
// creating dir when needed. The public key is derived from priv.
func SaveKeyPair(priv *rsa.PrivateKey, dir, name, password string) (privPath, pubPath string, err error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidKeyName, name)
	}

	privPEM, err := EncodePrivateKeyPEM(priv, password)
	if err != nil {
		return "", "", err
	}

	pubPEM, err := EncodePublicKeyPEM(&priv.PublicKey)
	if err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", "", fmt.Errorf("failed to create key directory: %w", err)
	}

	privPath = filepath.Join(dir, name+"-private.pem")
	pubPath = filepath.Join(dir, name+"-public.pem")

	if err := os.WriteFile(privPath, privPEM, privateKeyPerm); err != nil {
		return "", "", fmt.Errorf("failed to write private key: %w", err)
	}
	if err := os.WriteFile(pubPath, pubPEM, publicKeyPerm); err != nil {
		return "", "", fmt.Errorf("failed to write public key: %w", err)
	}

	return privPath, pubPath, nil
}

// LoadPrivateKey reads a private key file and returns it with its public half.
func LoadPrivateKey(path, password string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read private key: %w", err)
	}

	priv, err := ParsePrivateKeyPEM(data, password)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return priv, &priv.PublicKey, nil
}

// LoadPublicKey reads a public key file.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}

	pub, err := ParsePublicKeyPEM(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pub, nil
}
