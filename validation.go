package jws

import (
	"fmt"
	"unicode/utf8"

	"github.com/cybergodev/jws/internal/security"
)

const maxClaimsKeyLength = 64

func validateClaims(claims Claims, layout Layout) error {
	if len(claims) == 0 {
		return &ValidationError{
			Field:   "claims",
			Message: "at least one claim is required",
			Err:     ErrInvalidClaimsShape,
		}
	}

	if layout == LayoutFlat {
		for name := range claims {
			if !isReserved(name) {
				return nil
			}
		}
		return &ValidationError{
			Field:   "claims",
			Message: "only reserved names present, nothing would survive the flat layout",
			Err:     ErrInvalidClaimsShape,
		}
	}

	return nil
}

func validateClaimsKey(name string) error {
	switch {
	case name == "":
		return &ValidationError{Field: "ClaimsKey", Message: "must not be empty", Err: ErrInvalidConfig}
	case len(name) > maxClaimsKeyLength:
		return &ValidationError{
			Field:   "ClaimsKey",
			Message: fmt.Sprintf("too long: maximum %d bytes", maxClaimsKeyLength),
			Err:     ErrInvalidConfig,
		}
	case !utf8.ValidString(name):
		return &ValidationError{Field: "ClaimsKey", Message: "must be valid UTF-8", Err: ErrInvalidConfig}
	case isReserved(name):
		return &ValidationError{
			Field:   "ClaimsKey",
			Message: fmt.Sprintf("%q is a reserved field", name),
			Err:     ErrInvalidConfig,
		}
	}
	return nil
}

// secretPolicy is applied to shared secrets before they reach the HMAC family.
// The zero value accepts any non-empty secret.
type secretPolicy struct {
	minLength  int
	rejectWeak bool
}

func (p secretPolicy) check(key any) error {
	if p.minLength == 0 && !p.rejectWeak {
		return nil
	}

	var secret []byte
	switch k := key.(type) {
	case []byte:
		secret = k
	case string:
		secret = []byte(k)
	default:
		// Key type errors come from the signing family.
		return nil
	}

	if len(secret) < p.minLength {
		return &ValidationError{
			Field:   "key",
			Message: fmt.Sprintf("secret too short: minimum %d bytes, got %d", p.minLength, len(secret)),
			Err:     ErrInvalidKeyType,
		}
	}

	if p.rejectWeak && security.IsWeakKey(secret) {
		return &ValidationError{
			Field:   "key",
			Message: "secret has insufficient entropy",
			Err:     ErrInvalidKeyType,
		}
	}
	return nil
}
