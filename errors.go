package jws

import (
	"errors"
	"fmt"

	"github.com/cybergodev/jws/internal/core"
	"github.com/cybergodev/jws/internal/signing"
)

// Predefined errors for token operations. Every failure returned by the
// package wraps exactly one of these, so callers can branch with errors.Is.
var (
	// Configuration errors
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrInvalidExpiry  = errors.New("invalid expiry: duration must not be negative")
	ErrInvalidKeyType = signing.ErrInvalidKeyType

	// Algorithm errors
	ErrUnsupportedAlgorithm = signing.ErrUnsupportedAlgorithm

	// Claims errors
	ErrInvalidClaimsShape = errors.New("invalid claims: must be a non-empty JSON object")

	// Token errors
	ErrMalformedToken     = core.ErrMalformedToken
	ErrMalformedSegment   = core.ErrMalformedSegment
	ErrVerificationFailed = errors.New("signature verification failed")
	ErrNotYetValid        = errors.New("token is not yet valid")
	ErrExpired            = errors.New("token has expired")
)

// ValidationError represents a validation error for a specific field.
// It provides detailed information about what validation failed and why.
type ValidationError struct {
	Field   string // The field that failed validation
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed for field '%s': %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Stage names the decode step at which a token was rejected.
type Stage string

const (
	StageParse     Stage = "parse"
	StageHeader    Stage = "header"
	StageAlgorithm Stage = "algorithm"
	StageSignature Stage = "signature"
	StagePayload   Stage = "payload"
	StageTemporal  Stage = "temporal"
)

// DecodeError reports the stage that rejected a token together with the cause.
type DecodeError struct {
	Stage Stage
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed at %s stage: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeError(stage Stage, err error) error {
	return &DecodeError{Stage: stage, Err: err}
}
