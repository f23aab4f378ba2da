package core

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedSegment reports a segment that is not valid base64url or,
// for JSON-bearing segments, not valid JSON.
var ErrMalformedSegment = errors.New("malformed token segment")

// segmentEncoding decodes padded input; padding is restored before decoding.
var segmentEncoding = base64.URLEncoding.Strict()

// EncodeBytes returns the unpadded base64url form of raw bytes.
func EncodeBytes(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// Marshal serializes v as compact JSON without HTML escaping.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	// Encoder appends a newline that must not reach the wire.
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// EncodeJSON serializes v as JSON and returns its unpadded base64url form.
func EncodeJSON(v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal segment: %w", err)
	}
	return EncodeBytes(data), nil
}

// DecodeBytes restores padding and decodes a base64url segment to raw bytes.
func DecodeBytes(segment string) ([]byte, error) {
	if len(segment) == 0 {
		return nil, fmt.Errorf("%w: empty segment", ErrMalformedSegment)
	}

	if strings.IndexByte(segment, '=') >= 0 {
		return nil, fmt.Errorf("%w: padding is not allowed", ErrMalformedSegment)
	}

	if !isValidBase64URL(segment) {
		return nil, fmt.Errorf("%w: invalid base64url characters", ErrMalformedSegment)
	}

	data, err := segmentEncoding.DecodeString(Pad(segment))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSegment, err)
	}

	return data, nil
}

// DecodeJSON decodes a base64url segment and unmarshals its JSON into dest.
func DecodeJSON(segment string, dest any) error {
	data, err := DecodeBytes(segment)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", ErrMalformedSegment, err)
	}

	return nil
}

// Pad appends '=' until the length of s is a multiple of 4.
func Pad(s string) string {
	if rem := len(s) % 4; rem != 0 {
		return s + strings.Repeat("=", 4-rem)
	}
	return s
}

// isValidBase64URL reports whether s uses only the URL-safe alphabet.
func isValidBase64URL(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '-' || c == '_') {
			return false
		}
	}
	return true
}
