package jws

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"

	"github.com/cybergodev/jws/internal/core"
)

// Reserved payload field names managed by the package.
const (
	ClaimIssuedAt  = "iat"
	ClaimNotBefore = "nbf"
	ClaimExpiresAt = "exp"
)

// DefaultClaimsKey holds caller claims in the nested layout.
const DefaultClaimsKey = "claims"

// Claims is the caller's claim set. After decoding, JSON numbers are float64,
// objects are map[string]any and arrays are []any.
type Claims map[string]any

// Clone returns a shallow copy of c.
func (c Claims) Clone() Claims {
	if c == nil {
		return nil
	}
	return maps.Clone(c)
}

// ClaimsFrom converts any value whose JSON form is an object into Claims.
func ClaimsFrom(v any) (Claims, error) {
	switch c := v.(type) {
	case Claims:
		return c.Clone(), nil
	case map[string]any:
		return Claims(c).Clone(), nil
	}

	data, err := core.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClaimsShape, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: got JSON %s", ErrInvalidClaimsShape, jsonKind(trimmed))
	}

	var out Claims
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClaimsShape, err)
	}
	return out, nil
}

func jsonKind(data []byte) string {
	if len(data) == 0 {
		return "nothing"
	}
	switch data[0] {
	case '[':
		return "array"
	case '"':
		return "string"
	case 'n':
		return "null"
	case 't', 'f':
		return "boolean"
	default:
		return "number"
	}
}

func isReserved(name string) bool {
	return name == ClaimIssuedAt || name == ClaimNotBefore || name == ClaimExpiresAt
}

// window is the validity interval stamped on every token.
type window struct {
	IssuedAt  NumericDate `json:"iat"`
	NotBefore NumericDate `json:"nbf"`
	ExpiresAt NumericDate `json:"exp"`
}

// wireWindow mirrors window for decoding, where any field may be absent.
type wireWindow struct {
	IssuedAt  *NumericDate `json:"iat"`
	NotBefore *NumericDate `json:"nbf"`
	ExpiresAt *NumericDate `json:"exp"`
}

func (w wireWindow) complete() (window, error) {
	missing := ""
	switch {
	case w.IssuedAt == nil:
		missing = ClaimIssuedAt
	case w.NotBefore == nil:
		missing = ClaimNotBefore
	case w.ExpiresAt == nil:
		missing = ClaimExpiresAt
	default:
		return window{IssuedAt: *w.IssuedAt, NotBefore: *w.NotBefore, ExpiresAt: *w.ExpiresAt}, nil
	}
	return window{}, fmt.Errorf("%w: payload is missing %q", ErrMalformedSegment, missing)
}

// marshalPayload renders {"iat","nbf","exp",...} with the reserved fields first.
func marshalPayload(w window, claims Claims, layout Layout, claimsKey string) ([]byte, error) {
	head, err := core.Marshal(w)
	if err != nil {
		return nil, err
	}

	var tail []byte
	switch layout {
	case LayoutFlat:
		rest := make(Claims, len(claims))
		for k, v := range claims {
			if !isReserved(k) {
				rest[k] = v
			}
		}
		if len(rest) == 0 {
			return head, nil
		}
		obj, err := core.Marshal(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidClaimsShape, err)
		}
		tail = obj[1 : len(obj)-1]
	default:
		key, err := core.Marshal(claimsKey)
		if err != nil {
			return nil, err
		}
		obj, err := core.Marshal(claims)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidClaimsShape, err)
		}
		tail = make([]byte, 0, len(key)+1+len(obj))
		tail = append(tail, key...)
		tail = append(tail, ':')
		tail = append(tail, obj...)
	}

	out := make([]byte, 0, len(head)+1+len(tail))
	out = append(out, head[:len(head)-1]...)
	out = append(out, ',')
	out = append(out, tail...)
	out = append(out, '}')
	return out, nil
}

// unmarshalPayload splits a decoded payload into its window and caller claims.
func unmarshalPayload(data []byte, layout Layout, claimsKey string) (window, Claims, error) {
	var ww wireWindow
	if err := json.Unmarshal(data, &ww); err != nil {
		return window{}, nil, fmt.Errorf("%w: invalid payload: %v", ErrMalformedSegment, err)
	}
	w, err := ww.complete()
	if err != nil {
		return window{}, nil, err
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return window{}, nil, fmt.Errorf("%w: invalid payload: %v", ErrMalformedSegment, err)
	}

	if layout == LayoutFlat {
		delete(all, ClaimIssuedAt)
		delete(all, ClaimNotBefore)
		delete(all, ClaimExpiresAt)
		return w, Claims(all), nil
	}

	raw, ok := all[claimsKey]
	if !ok {
		return window{}, nil, fmt.Errorf("%w: payload is missing %q", ErrMalformedSegment, claimsKey)
	}
	claims, ok := raw.(map[string]any)
	if !ok {
		return window{}, nil, fmt.Errorf("%w: %q is not an object", ErrMalformedSegment, claimsKey)
	}
	return w, Claims(claims), nil
}
