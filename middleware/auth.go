package middleware

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/cybergodev/jws"
)

// ErrTooManyAttempts is passed to the error handler when the AttemptLimiter
// refuses a client.
var ErrTooManyAttempts = errors.New("too many authentication attempts")

// Error kinds written in the "error" field of rejected responses.
const (
	KindMissingToken    = "missing_token"
	KindExpired         = "expired"
	KindNotYetValid     = "not_yet_valid"
	KindInvalidToken    = "invalid_token"
	KindTooManyAttempts = "too_many_attempts"
)

// Config configures Authenticate.
type Config struct {
	// Processor decodes tokens; the jws package defaults when nil.
	Processor *jws.Processor

	// Key verifies tokens: a shared secret or an RSA public key. Required.
	Key any

	// Extractor finds the token; FromAuthHeader when nil.
	Extractor Extractor

	// ErrorHandler writes rejected responses; WriteError when nil.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

	// Skip lets matching requests through unauthenticated.
	Skip func(r *http.Request) bool

	// Limiter throttles clients by ClientKey when set.
	Limiter *AttemptLimiter

	// ClientKey identifies a client for Limiter; the remote IP when nil.
	ClientKey func(r *http.Request) string

	// Logger receives a debug entry per rejected request.
	Logger *zap.Logger
}

// Authenticate returns middleware that rejects requests without a valid token
// and stores the decoded claims in the request context otherwise.
// It panics when cfg.Key is nil.
func Authenticate(cfg Config) func(http.Handler) http.Handler {
	if cfg.Key == nil {
		panic("middleware: Config.Key is required")
	}

	decode := jws.Decode
	if cfg.Processor != nil {
		decode = cfg.Processor.Decode
	}
	if cfg.Extractor == nil {
		cfg.Extractor = FromAuthHeader()
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = WriteError
	}
	if cfg.ClientKey == nil {
		cfg.ClientKey = RemoteIP
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			reject := func(err error) {
				logger.Debug("authentication rejected",
					zap.String("kind", ErrorKind(err)),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				cfg.ErrorHandler(w, r, err)
			}

			var client string
			if cfg.Limiter != nil {
				client = cfg.ClientKey(r)
				if !cfg.Limiter.Allow(client) {
					reject(ErrTooManyAttempts)
					return
				}
			}

			token, err := cfg.Extractor(r)
			if err != nil {
				reject(err)
				return
			}

			claims, err := decode(token, cfg.Key)
			if err != nil {
				reject(err)
				return
			}

			if cfg.Limiter != nil {
				cfg.Limiter.Reset(client)
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// ErrorKind classifies an authentication error for clients and logs.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return KindMissingToken
	case errors.Is(err, ErrTooManyAttempts):
		return KindTooManyAttempts
	case errors.Is(err, jws.ErrExpired):
		return KindExpired
	case errors.Is(err, jws.ErrNotYetValid):
		return KindNotYetValid
	default:
		return KindInvalidToken
	}
}

// WriteError writes {"error":"<kind>"} with 429 for throttled clients and
// 401 otherwise.
func WriteError(w http.ResponseWriter, _ *http.Request, err error) {
	kind := ErrorKind(err)

	status := http.StatusUnauthorized
	switch kind {
	case KindTooManyAttempts:
		status = http.StatusTooManyRequests
	case KindMissingToken:
		w.Header().Set("WWW-Authenticate", "Bearer")
	default:
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": kind})
}

// RemoteIP returns the host part of r.RemoteAddr.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
