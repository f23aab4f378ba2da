package signing

import (
	"crypto"
	"crypto/hmac"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"fmt"

	"github.com/cybergodev/jws/internal/security"
)

type hmacSigningMethod struct {
	name     string
	hashFunc crypto.Hash
}

var (
	hmacHS256 = &hmacSigningMethod{"HS256", crypto.SHA256}
	hmacHS384 = &hmacSigningMethod{"HS384", crypto.SHA384}
	hmacHS512 = &hmacSigningMethod{"HS512", crypto.SHA512}
)

func (h *hmacSigningMethod) Alg() string {
	return h.name
}

func (h *hmacSigningMethod) Hash() crypto.Hash {
	return h.hashFunc
}

func (h *hmacSigningMethod) Sign(signingInput []byte, key any) ([]byte, error) {
	secret, err := hmacSecret(key)
	if err != nil {
		return nil, err
	}
	defer security.ZeroBytes(secret)

	return h.sum(signingInput, secret), nil
}

func (h *hmacSigningMethod) Verify(signingInput, signature []byte, key any) (bool, error) {
	secret, err := hmacSecret(key)
	if err != nil {
		return false, err
	}
	defer security.ZeroBytes(secret)

	expected := h.sum(signingInput, secret)
	defer security.ZeroBytes(expected)

	return security.SecureCompare(signature, expected), nil
}

func (h *hmacSigningMethod) sum(signingInput, secret []byte) []byte {
	mac := hmac.New(h.hashFunc.New, secret)
	mac.Write(signingInput)
	return mac.Sum(nil)
}

// hmacSecret copies the shared secret so it can be zeroed after use.
func hmacSecret(key any) ([]byte, error) {
	var secret []byte
	switch k := key.(type) {
	case []byte:
		secret = security.CloneBytes(k)
	case string:
		secret = []byte(k)
	default:
		return nil, fmt.Errorf("%w: HMAC key must be []byte or string, got %T", ErrInvalidKeyType, key)
	}

	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: HMAC key is empty", ErrInvalidKeyType)
	}
	return secret, nil
}
