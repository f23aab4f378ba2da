package signing

import (
	"crypto"
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnsupportedAlgorithm reports an algorithm name outside the registry.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrInvalidKeyType reports key material that does not fit the algorithm family.
	ErrInvalidKeyType = errors.New("invalid key type")
)

// Method produces and verifies signatures over an exact byte string.
type Method interface {
	Alg() string
	Hash() crypto.Hash
	Sign(signingInput []byte, key any) ([]byte, error)
	// Verify reports false on a cryptographic mismatch. An error means the
	// inputs themselves were unusable.
	Verify(signingInput, signature []byte, key any) (bool, error)
}

// Family groups the methods that share a name prefix and key kind.
type Family struct {
	methods map[string]Method
}

func newFamily(methods ...Method) *Family {
	f := &Family{methods: make(map[string]Method, len(methods))}
	for _, m := range methods {
		f.methods[m.Alg()] = m
	}
	return f
}

// IsSupported reports exact membership of name in the family.
func (f *Family) IsSupported(name string) bool {
	_, ok := f.methods[name]
	return ok
}

// Method returns the named method, or nil when the family does not carry it.
func (f *Family) Method(name string) Method {
	return f.methods[name]
}

const prefixLength = 2

// registry is built once at init and never written afterwards.
var registry = map[string]*Family{
	"HS": newFamily(hmacHS256, hmacHS384, hmacHS512),
	"RS": newFamily(pssRS256, pssRS384, pssRS512),
}

var supported = func() []string {
	names := make([]string, 0, 6)
	for _, f := range registry {
		for name := range f.methods {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}()

// FamilyFor resolves the family from the first two characters of name.
func FamilyFor(name string) (*Family, error) {
	if len(name) < prefixLength {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}

	f, ok := registry[name[:prefixLength]]
	if !ok {
		return nil, fmt.Errorf("%w: %q, accepts %v", ErrUnsupportedAlgorithm, name, supported)
	}
	return f, nil
}

// Lookup resolves name to its method, rejecting unknown prefixes and unknown
// hash widths alike.
func Lookup(name string) (Method, error) {
	f, err := FamilyFor(name)
	if err != nil {
		return nil, err
	}

	if !f.IsSupported(name) {
		return nil, fmt.Errorf("%w: %q, accepts %v", ErrUnsupportedAlgorithm, name, supported)
	}
	return f.Method(name), nil
}

// Supported returns every registered algorithm name in sorted order.
func Supported() []string {
	out := make([]string, len(supported))
	copy(out, supported)
	return out
}
