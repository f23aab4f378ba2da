package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedToken reports a token that is not three non-empty segments
// joined by '.'.
var ErrMalformedToken = errors.New("malformed token")

const (
	// DefaultMaxTokenLength bounds the size of tokens accepted by Split.
	DefaultMaxTokenLength = 8192

	separator = '.'
)

// Assemble joins the three encoded segments of a token.
func Assemble(header, payload, signature string) string {
	var b strings.Builder
	b.Grow(len(header) + len(payload) + len(signature) + 2)
	b.WriteString(header)
	b.WriteByte(separator)
	b.WriteString(payload)
	b.WriteByte(separator)
	b.WriteString(signature)
	return b.String()
}

// SigningInput returns the exact bytes covered by the signature.
func SigningInput(header, payload string) []byte {
	buf := make([]byte, 0, len(header)+1+len(payload))
	buf = append(buf, header...)
	buf = append(buf, separator)
	buf = append(buf, payload...)
	return buf
}

// Split breaks a token into its header, payload and signature segments.
// maxLength <= 0 disables the size limit.
func Split(token string, maxLength int) (Segments, error) {
	if len(token) == 0 {
		return Segments{}, fmt.Errorf("%w: empty token", ErrMalformedToken)
	}

	if maxLength > 0 && len(token) > maxLength {
		return Segments{}, fmt.Errorf("%w: token exceeds %d characters", ErrMalformedToken, maxLength)
	}

	h, p, s, ok := fastSplit3(token, separator)
	if !ok {
		return Segments{}, fmt.Errorf("%w: expected header.payload.signature", ErrMalformedToken)
	}

	if h == "" || p == "" || s == "" {
		return Segments{}, fmt.Errorf("%w: empty segment", ErrMalformedToken)
	}

	return Segments{Header: h, Payload: p, Signature: s}, nil
}

// fastSplit3 splits s on exactly two occurrences of sep.
func fastSplit3(s string, sep byte) (string, string, string, bool) {
	first := -1
	second := -1

	for i := 0; i < len(s); i++ {
		if s[i] != sep {
			continue
		}
		switch {
		case first == -1:
			first = i
		case second == -1:
			second = i
		default:
			return "", "", "", false
		}
	}

	if first == -1 || second == -1 {
		return "", "", "", false
	}

	return s[:first], s[first+1 : second], s[second+1:], true
}

// ParseHeader splits a token and decodes only its header. The signature is
// not checked.
func ParseHeader(token string, maxLength int) (Header, Segments, error) {
	segs, err := Split(token, maxLength)
	if err != nil {
		return Header{}, Segments{}, err
	}

	var header Header
	if err := DecodeJSON(segs.Header, &header); err != nil {
		return Header{}, Segments{}, fmt.Errorf("header: %w", err)
	}

	return header, segs, nil
}
