package middleware

import (
	"errors"
	"net/http"
	"strings"
)

// ErrMissingToken is returned by extractors when the request carries no token.
var ErrMissingToken = errors.New("missing token")

// Extractor pulls a raw token out of a request.
type Extractor func(r *http.Request) (string, error)

// FromAuthHeader reads "Authorization: Bearer <token>". The scheme is
// matched case-insensitively.
func FromAuthHeader() Extractor {
	return func(r *http.Request) (string, error) {
		value := r.Header.Get("Authorization")
		if value == "" {
			return "", ErrMissingToken
		}

		scheme, token, ok := strings.Cut(value, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return "", ErrMissingToken
		}

		token = strings.TrimSpace(token)
		if token == "" {
			return "", ErrMissingToken
		}
		return token, nil
	}
}

// FromCookie reads the token from the named cookie.
func FromCookie(name string) Extractor {
	return func(r *http.Request) (string, error) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", ErrMissingToken
		}
		return c.Value, nil
	}
}

// FromQuery reads the token from the named query parameter.
func FromQuery(name string) Extractor {
	return func(r *http.Request) (string, error) {
		token := r.URL.Query().Get(name)
		if token == "" {
			return "", ErrMissingToken
		}
		return token, nil
	}
}

// FromFirst tries each extractor in order and returns the first token found.
func FromFirst(extractors ...Extractor) Extractor {
	return func(r *http.Request) (string, error) {
		for _, extract := range extractors {
			token, err := extract(r)
			if err == nil {
				return token, nil
			}
			if !errors.Is(err, ErrMissingToken) {
				return "", err
			}
		}
		return "", ErrMissingToken
	}
}
