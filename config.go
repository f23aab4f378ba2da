package jws

import (
	"fmt"
	"time"

	"github.com/cybergodev/jws/internal/core"
)

// MaxLeeway caps the clock-skew allowance a Config may request.
const MaxLeeway = 2 * time.Minute

// DefaultMaxTokenSize bounds the length of tokens accepted by Decode.
const DefaultMaxTokenSize = core.DefaultMaxTokenLength

// Config represents token processor configuration
type Config struct {
	// Algorithm is used by Encode unless overridden with WithAlgorithm
	Algorithm Algorithm `yaml:"algorithm" json:"algorithm"`

	// Algorithms restricts the header algorithms Decode accepts; any
	// registered algorithm when empty
	Algorithms []Algorithm `yaml:"algorithms" json:"algorithms"`

	// Layout selects whether caller claims are nested or merged at top level
	Layout Layout `yaml:"layout" json:"layout"`

	// ClaimsKey names the payload field holding caller claims in LayoutNested
	ClaimsKey string `yaml:"claims_key" json:"claims_key"`

	// Leeway widens the validity window on both ends during Decode
	Leeway time.Duration `yaml:"leeway" json:"leeway"`

	// MaxTokenSize rejects longer tokens before any decoding work
	MaxTokenSize int `yaml:"max_token_size" json:"max_token_size"`

	// MinSecretLength rejects shorter HMAC secrets when positive
	MinSecretLength int `yaml:"min_secret_length" json:"min_secret_length"`

	// RejectWeakSecrets rejects low-entropy or patterned HMAC secrets
	RejectWeakSecrets bool `yaml:"reject_weak_secrets" json:"reject_weak_secrets"`

	// Now supplies the current time; time.Now when nil
	Now func() time.Time `yaml:"-" json:"-"`
}

// DefaultConfig returns the configuration used by the package-level functions.
func DefaultConfig() Config {
	return Config{
		Algorithm:         DefaultAlgorithm,
		Layout:            LayoutNested,
		ClaimsKey:         DefaultClaimsKey,
		Leeway:            0,
		MaxTokenSize:      DefaultMaxTokenSize,
		MinSecretLength:   0,
		RejectWeakSecrets: false,
		Now:               time.Now,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c == nil {
		return ErrInvalidConfig
	}

	if !c.Algorithm.IsSupported() {
		return &ValidationError{
			Field:   "Algorithm",
			Message: fmt.Sprintf("%q is not registered", c.Algorithm),
			Err:     ErrUnsupportedAlgorithm,
		}
	}

	for _, alg := range c.Algorithms {
		if !alg.IsSupported() {
			return &ValidationError{
				Field:   "Algorithms",
				Message: fmt.Sprintf("%q is not registered", alg),
				Err:     ErrUnsupportedAlgorithm,
			}
		}
	}

	if !c.Layout.valid() {
		return &ValidationError{
			Field:   "Layout",
			Message: fmt.Sprintf("must be %q or %q, got %q", LayoutNested, LayoutFlat, c.Layout),
			Err:     ErrInvalidConfig,
		}
	}

	if c.Layout == LayoutNested {
		if err := validateClaimsKey(c.ClaimsKey); err != nil {
			return err
		}
	}

	if c.Leeway < 0 || c.Leeway > MaxLeeway {
		return &ValidationError{
			Field:   "Leeway",
			Message: fmt.Sprintf("must be between 0 and %s, got %s", MaxLeeway, c.Leeway),
			Err:     ErrInvalidConfig,
		}
	}

	if c.MaxTokenSize < 0 {
		return &ValidationError{Field: "MaxTokenSize", Message: "must not be negative", Err: ErrInvalidConfig}
	}

	if c.MinSecretLength < 0 {
		return &ValidationError{Field: "MinSecretLength", Message: "must not be negative", Err: ErrInvalidConfig}
	}

	return nil
}

// withDefaults fills zero-valued fields from DefaultConfig.
func (c Config) withDefaults() Config {
	if c.Algorithm == "" {
		c.Algorithm = DefaultAlgorithm
	}
	if c.Layout == "" {
		c.Layout = LayoutNested
	}
	if c.ClaimsKey == "" {
		c.ClaimsKey = DefaultClaimsKey
	}
	if c.MaxTokenSize == 0 {
		c.MaxTokenSize = DefaultMaxTokenSize
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}
