package jws

import (
	"fmt"
	"slices"
	"time"

	"github.com/cybergodev/jws/internal/core"
	"github.com/cybergodev/jws/internal/signing"
)

// Processor encodes and decodes tokens under a fixed Config. It holds no
// mutable state and is safe for concurrent use.
type Processor struct {
	cfg    Config
	policy secretPolicy
}

// New creates a Processor. Zero-valued Config fields take their defaults.
func New(config ...Config) (*Processor, error) {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0].withDefaults()
	} else {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	cfg.Algorithms = slices.Clone(cfg.Algorithms)

	return &Processor{
		cfg: cfg,
		policy: secretPolicy{
			minLength:  cfg.MinSecretLength,
			rejectWeak: cfg.RejectWeakSecrets,
		},
	}, nil
}

// Config returns a copy of the processor configuration.
func (p *Processor) Config() Config {
	cfg := p.cfg
	cfg.Algorithms = slices.Clone(p.cfg.Algorithms)
	return cfg
}

// EncodeOption customizes a single Encode call.
type EncodeOption func(*encodeOptions)

type encodeOptions struct {
	issuedAt  time.Time
	algorithm Algorithm
}

// WithIssuedAt stamps the token with t instead of the current time.
func WithIssuedAt(t time.Time) EncodeOption {
	return func(o *encodeOptions) {
		o.issuedAt = t
	}
}

// WithAlgorithm signs with alg instead of the configured algorithm.
func WithAlgorithm(alg Algorithm) EncodeOption {
	return func(o *encodeOptions) {
		o.algorithm = alg
	}
}

// Encode signs claims into a token valid from notBefore until
// issued-at + expireAfter. A zero notBefore makes the token valid from
// issuance. claims may be Claims, a map[string]any or any value whose
// JSON form is a non-empty object.
func (p *Processor) Encode(claims any, key any, notBefore time.Time, expireAfter time.Duration, opts ...EncodeOption) (string, error) {
	o := encodeOptions{algorithm: p.cfg.Algorithm}
	for _, opt := range opts {
		opt(&o)
	}

	// Unknown algorithms are rejected before any other work.
	method, err := signing.Lookup(string(o.algorithm))
	if err != nil {
		return "", err
	}

	if expireAfter < 0 {
		return "", fmt.Errorf("%w: got %s", ErrInvalidExpiry, expireAfter)
	}

	c, err := ClaimsFrom(claims)
	if err != nil {
		return "", err
	}
	if err := validateClaims(c, p.cfg.Layout); err != nil {
		return "", err
	}

	if o.algorithm.IsSymmetric() {
		if err := p.policy.check(key); err != nil {
			return "", err
		}
	}

	issuedAt := o.issuedAt
	if issuedAt.IsZero() {
		issuedAt = p.cfg.Now()
	}

	if !inDateRange(issuedAt) {
		return "", &ValidationError{Field: ClaimIssuedAt, Message: "outside the representable date range", Err: ErrInvalidClaimsShape}
	}
	if !notBefore.IsZero() && !inDateRange(notBefore) {
		return "", &ValidationError{Field: ClaimNotBefore, Message: "outside the representable date range", Err: ErrInvalidClaimsShape}
	}

	iat := NewNumericDate(issuedAt)
	nbf := iat
	if !notBefore.IsZero() {
		nbf = NewNumericDate(notBefore)
	}
	exp := iat.Add(expireAfter)
	if !inDateRange(exp) {
		return "", &ValidationError{Field: ClaimExpiresAt, Message: "expiry is past the representable date range", Err: ErrInvalidExpiry}
	}
	w := window{
		IssuedAt:  iat,
		NotBefore: nbf,
		ExpiresAt: NewNumericDate(exp),
	}

	header, err := core.EncodeJSON(core.NewHeader(method.Alg()))
	if err != nil {
		return "", fmt.Errorf("failed to encode header: %w", err)
	}

	payloadJSON, err := marshalPayload(w, c, p.cfg.Layout, p.cfg.ClaimsKey)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}
	payload := core.EncodeBytes(payloadJSON)

	sig, err := method.Sign(core.SigningInput(header, payload), key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return core.Assemble(header, payload, core.EncodeBytes(sig)), nil
}

// Decode verifies token with key and returns the caller claims once the
// signature and validity window have both been checked. Errors are
// *DecodeError values naming the stage that rejected the token.
func (p *Processor) Decode(token string, key any) (Claims, error) {
	segs, err := core.Split(token, p.cfg.MaxTokenSize)
	if err != nil {
		return nil, decodeError(StageParse, err)
	}

	var h core.Header
	if err := core.DecodeJSON(segs.Header, &h); err != nil {
		return nil, decodeError(StageHeader, err)
	}

	method, err := p.resolve(Algorithm(h.Algorithm))
	if err != nil {
		return nil, decodeError(StageAlgorithm, err)
	}

	if err := p.verify(method, segs, key); err != nil {
		return nil, decodeError(StageSignature, err)
	}

	payload, err := core.DecodeBytes(segs.Payload)
	if err != nil {
		return nil, decodeError(StagePayload, err)
	}

	w, claims, err := unmarshalPayload(payload, p.cfg.Layout, p.cfg.ClaimsKey)
	if err != nil {
		return nil, decodeError(StagePayload, err)
	}

	if err := p.checkWindow(w); err != nil {
		return nil, decodeError(StageTemporal, err)
	}

	return claims, nil
}

// InspectHeader decodes the header of token without verifying anything.
func (p *Processor) InspectHeader(token string) (Header, error) {
	h, _, err := core.ParseHeader(token, p.cfg.MaxTokenSize)
	if err != nil {
		return Header{}, err
	}
	return headerFrom(h), nil
}

func (p *Processor) resolve(alg Algorithm) (signing.Method, error) {
	if alg == "" {
		return nil, fmt.Errorf("%w: header has no \"alg\"", ErrUnsupportedAlgorithm)
	}

	if len(p.cfg.Algorithms) > 0 && !slices.Contains(p.cfg.Algorithms, alg) {
		return nil, fmt.Errorf("%w: %q is not accepted by this processor", ErrUnsupportedAlgorithm, alg)
	}

	return signing.Lookup(string(alg))
}

func (p *Processor) verify(method signing.Method, segs core.Segments, key any) error {
	if Algorithm(method.Alg()).IsSymmetric() {
		if err := p.policy.check(key); err != nil {
			return err
		}
	}

	sig, err := core.DecodeBytes(segs.Signature)
	if err != nil {
		return fmt.Errorf("signature: %w", err)
	}

	ok, err := method.Verify(segs.SigningInput(), sig, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrVerificationFailed
	}
	return nil
}

// checkWindow compares at millisecond resolution with strict inequalities.
func (p *Processor) checkWindow(w window) error {
	now := NewNumericDate(p.cfg.Now()).Millis()
	leeway := p.cfg.Leeway.Milliseconds()

	if now < w.NotBefore.Millis()-leeway {
		return fmt.Errorf("%w: becomes valid at %s", ErrNotYetValid, w.NotBefore.Format(time.RFC3339Nano))
	}

	if now > w.ExpiresAt.Millis()+leeway {
		return fmt.Errorf("%w: expired at %s", ErrExpired, w.ExpiresAt.Format(time.RFC3339Nano))
	}

	return nil
}
