package jws

import (
	"github.com/cybergodev/jws/internal/core"
	"github.com/cybergodev/jws/internal/signing"
)

// Algorithm names a signing scheme. The first two characters select the
// family and the remainder selects the SHA-2 width.
type Algorithm string

const (
	// HS256 uses HMAC with SHA-256
	HS256 Algorithm = "HS256"

	// HS384 uses HMAC with SHA-384
	HS384 Algorithm = "HS384"

	// HS512 uses HMAC with SHA-512
	HS512 Algorithm = "HS512"

	// RS256 uses RSASSA-PSS with SHA-256 and MGF1-SHA-256
	RS256 Algorithm = "RS256"

	// RS384 uses RSASSA-PSS with SHA-384 and MGF1-SHA-384
	RS384 Algorithm = "RS384"

	// RS512 uses RSASSA-PSS with SHA-512 and MGF1-SHA-512
	RS512 Algorithm = "RS512"
)

// DefaultAlgorithm is used when neither the call nor the Config names one.
const DefaultAlgorithm = HS256

// IsSupported reports whether a is registered.
func (a Algorithm) IsSupported() bool {
	_, err := signing.Lookup(string(a))
	return err == nil
}

// IsSymmetric reports whether a belongs to the shared-secret family.
func (a Algorithm) IsSymmetric() bool {
	return len(a) >= 2 && a[:2] == "HS"
}

func (a Algorithm) String() string {
	return string(a)
}

// SupportedAlgorithms lists every registered algorithm in stable order.
func SupportedAlgorithms() []Algorithm {
	names := signing.Supported()
	out := make([]Algorithm, len(names))
	for i, name := range names {
		out[i] = Algorithm(name)
	}
	return out
}

// Layout selects where caller claims sit in the payload object.
type Layout string

const (
	// LayoutNested places caller claims under Config.ClaimsKey, next to the
	// reserved temporal fields.
	LayoutNested Layout = "nested"

	// LayoutFlat merges caller claims into the top-level payload object.
	// Reserved fields override caller keys of the same name.
	LayoutFlat Layout = "flat"
)

func (l Layout) valid() bool {
	return l == LayoutNested || l == LayoutFlat
}

// Header is the decoded first segment of a token.
type Header struct {
	Type      string    `json:"typ"`
	Algorithm Algorithm `json:"alg"`
}

func headerFrom(h core.Header) Header {
	return Header{Type: h.Type, Algorithm: Algorithm(h.Algorithm)}
}
