package jws

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/cybergodev/jws/internal/core"
	"github.com/cybergodev/jws/internal/signing"
)

func signWith(alg Algorithm, input []byte, key any) ([]byte, error) {
	method, err := signing.Lookup(string(alg))
	if err != nil {
		return nil, err
	}
	return method.Sign(input, key)
}

// decodePayload returns the raw payload object of token.
func decodePayload(t *testing.T, token string) map[string]any {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	var payload map[string]any
	require.NoError(t, core.DecodeJSON(parts[1], &payload))
	return payload
}

func TestWireFormat(t *testing.T) {
	iat := time.Date(2026, 1, 2, 3, 4, 5, 678_900_000, time.UTC)
	p := newTestProcessor(t, nil)

	token, err := p.Encode(Claims{"sample": "claim"}, "secret key", iat.Add(time.Second), 5*time.Minute, WithIssuedAt(iat))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	header, err := core.DecodeBytes(parts[0])
	require.NoError(t, err)
	assert.Equal(t, `{"typ":"JWT","alg":"HS256"}`, string(header))

	payload, err := core.DecodeBytes(parts[1])
	require.NoError(t, err)

	// Timestamps are whole milliseconds since the epoch.
	ms := iat.UnixMilli()
	want := fmt.Sprintf(`{"iat":%d,"nbf":%d,"exp":%d,"claims":{"sample":"claim"}}`, ms, ms+1000, ms+300000)
	assert.Equal(t, want, string(payload))

	sig, err := signWith(HS256, []byte(parts[0]+"."+parts[1]), "secret key")
	require.NoError(t, err)
	assert.Equal(t, core.EncodeBytes(sig), parts[2])
}

func TestZeroNotBeforeDefaultsToIssuedAt(t *testing.T) {
	iat := time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)
	p := newTestProcessor(t, nil)

	token, err := p.Encode(Claims{"k": "v"}, testSecretKey, time.Time{}, time.Hour, WithIssuedAt(iat))
	require.NoError(t, err)

	payload := decodePayload(t, token)
	assert.Equal(t, payload["iat"], payload["nbf"])
	assert.Equal(t, float64(iat.Add(time.Hour).UnixMilli()), payload["exp"])
}

func TestIssuedAtDefaultsToClock(t *testing.T) {
	now := time.Date(2026, 7, 1, 8, 30, 0, 0, time.UTC)
	p := newTestProcessor(t, &now)

	token, err := p.Encode(Claims{"k": "v"}, testSecretKey, now, time.Minute)
	require.NoError(t, err)

	payload := decodePayload(t, token)
	assert.Equal(t, float64(now.UnixMilli()), payload["iat"])
}

func TestFractionalTimestampsAreTruncated(t *testing.T) {
	header, err := core.EncodeJSON(core.NewHeader("HS256"))
	require.NoError(t, err)

	now := time.UnixMilli(1_000_000)
	p := newTestProcessor(t, &now)

	payload := core.EncodeBytes([]byte(`{"iat":999999.9,"nbf":1000000.7,"exp":1000000.9,"claims":{"k":"v"}}`))
	sig, err := signWith(HS256, core.SigningInput(header, payload), testSecretKey)
	require.NoError(t, err)

	claims, err := p.Decode(core.Assemble(header, payload, core.EncodeBytes(sig)), testSecretKey)
	require.NoError(t, err)
	assert.Equal(t, Claims{"k": "v"}, claims)
}

func TestFlatLayout(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := newTestProcessor(t, &now, func(c *Config) { c.Layout = LayoutFlat })

	token, err := p.Encode(Claims{"user": "u-1", "exp": "never", "iat": float64(1), "nbf": float64(1)}, testSecretKey, time.Time{}, time.Minute)
	require.NoError(t, err)

	payload := decodePayload(t, token)
	assert.Equal(t, float64(now.UnixMilli()), payload["iat"])
	assert.Equal(t, float64(now.Add(time.Minute).UnixMilli()), payload["exp"])
	assert.Equal(t, "u-1", payload["user"])
	assert.NotContains(t, payload, DefaultClaimsKey)

	claims, err := p.Decode(token, testSecretKey)
	require.NoError(t, err)
	assert.Equal(t, Claims{"user": "u-1"}, claims)
}

func TestFlatLayoutRejectsOnlyReservedClaims(t *testing.T) {
	p := newTestProcessor(t, nil, func(c *Config) { c.Layout = LayoutFlat })

	_, err := p.Encode(Claims{"exp": float64(1)}, testSecretKey, time.Time{}, time.Minute)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidClaimsShape)
}

func TestNestedLayoutKeepsReservedNames(t *testing.T) {
	p := newTestProcessor(t, nil)

	claims := Claims{"exp": "caller value", "iat": "also caller"}
	token, err := p.Encode(claims, testSecretKey, time.Time{}, time.Minute)
	require.NoError(t, err)

	got, err := p.Decode(token, testSecretKey)
	require.NoError(t, err)
	assert.Equal(t, claims, got)
}

func TestCustomClaimsKey(t *testing.T) {
	p := newTestProcessor(t, nil, func(c *Config) { c.ClaimsKey = "payload" })

	token, err := p.Encode(Claims{"k": "v"}, testSecretKey, time.Time{}, time.Minute)
	require.NoError(t, err)
	assert.Contains(t, decodePayload(t, token), "payload")

	claims, err := p.Decode(token, testSecretKey)
	require.NoError(t, err)
	assert.Equal(t, Claims{"k": "v"}, claims)

	// A processor looking under the default key sees no claims.
	_, err = Decode(token, testSecretKey)
	assert.ErrorIs(t, err, ErrMalformedSegment)
}

func TestAllowedAlgorithms(t *testing.T) {
	p := newTestProcessor(t, nil, func(c *Config) { c.Algorithms = []Algorithm{HS512} })

	token, err := Encode(Claims{"k": "v"}, testSecretKey, time.Time{}, time.Minute, WithAlgorithm(HS256))
	require.NoError(t, err)

	_, err = p.Decode(token, testSecretKey)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)

	token, err = Encode(Claims{"k": "v"}, testSecretKey, time.Time{}, time.Minute, WithAlgorithm(HS512))
	require.NoError(t, err)
	_, err = p.Decode(token, testSecretKey)
	require.NoError(t, err)
}

func TestConfiguredAlgorithmIsDefault(t *testing.T) {
	p := newTestProcessor(t, nil, func(c *Config) { c.Algorithm = HS384 })

	token, err := p.Encode(Claims{"k": "v"}, testSecretKey, time.Time{}, time.Minute)
	require.NoError(t, err)

	header, err := p.InspectHeader(token)
	require.NoError(t, err)
	assert.Equal(t, HS384, header.Algorithm)
}

func TestSecretPolicy(t *testing.T) {
	p := newTestProcessor(t, nil, func(c *Config) {
		c.MinSecretLength = 32
		c.RejectWeakSecrets = true
	})

	_, err := p.Encode(Claims{"k": "v"}, "short", time.Time{}, time.Minute)
	assert.ErrorIs(t, err, ErrInvalidKeyType)

	_, err = p.Encode(Claims{"k": "v"}, "passwordpasswordpasswordpassword", time.Time{}, time.Minute)
	assert.ErrorIs(t, err, ErrInvalidKeyType)

	token, err := p.Encode(Claims{"k": "v"}, testSecretKey, time.Time{}, time.Minute)
	require.NoError(t, err)
	_, err = p.Decode(token, testSecretKey)
	require.NoError(t, err)

	// Tokens minted elsewhere with a weak secret are refused before verification.
	weak, err := Encode(Claims{"k": "v"}, "short", time.Time{}, time.Minute)
	require.NoError(t, err)
	_, err = p.Decode(weak, "short")
	assert.ErrorIs(t, err, ErrInvalidKeyType)

	// RSA keys are not subject to the secret policy.
	priv, _ := testRSAKeys()
	token, err = p.Encode(Claims{"k": "v"}, priv, time.Time{}, time.Minute, WithAlgorithm(RS256))
	require.NoError(t, err)
	_, err = p.Decode(token, &priv.PublicKey)
	require.NoError(t, err)
}

func TestProcessorConfigIsCopied(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Algorithms = []Algorithm{HS256}
	p, err := New(cfg)
	require.NoError(t, err)

	cfg.Algorithms[0] = RS256
	assert.Equal(t, []Algorithm{HS256}, p.Config().Algorithms)

	got := p.Config()
	got.Algorithms[0] = RS512
	assert.Equal(t, []Algorithm{HS256}, p.Config().Algorithms)
}

func TestDecodeDoesNotShareClaims(t *testing.T) {
	token, err := Encode(Claims{"k": "v"}, testSecretKey, time.Time{}, time.Minute)
	require.NoError(t, err)

	first, err := Decode(token, testSecretKey)
	require.NoError(t, err)
	first["k"] = "changed"

	second, err := Decode(token, testSecretKey)
	require.NoError(t, err)
	assert.Equal(t, "v", second["k"])
}

func TestEncodeDoesNotMutateCallerClaims(t *testing.T) {
	p := newTestProcessor(t, nil, func(c *Config) { c.Layout = LayoutFlat })

	claims := Claims{"user": "u-1", "exp": "mine"}
	_, err := p.Encode(claims, testSecretKey, time.Time{}, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, Claims{"user": "u-1", "exp": "mine"}, claims)
}

func TestConcurrentEncodeDecode(t *testing.T) {
	p := newTestProcessor(t, nil)
	priv, _ := testRSAKeys()

	var decoded atomic.Int64
	var g errgroup.Group
	for i := 0; i < 64; i++ {
		alg := HS256
		var signKey, verifyKey any = testSecretKey, testSecretKey
		if i%8 == 0 {
			alg, signKey, verifyKey = RS256, priv, &priv.PublicKey
		}

		g.Go(func() error {
			id := uuid.NewString()
			token, err := p.Encode(Claims{"id": id}, signKey, time.Time{}, time.Minute, WithAlgorithm(alg))
			if err != nil {
				return err
			}
			claims, err := p.Decode(token, verifyKey)
			if err != nil {
				return err
			}
			if claims["id"] != id {
				return fmt.Errorf("claims mixed up: got %v, want %s", claims["id"], id)
			}
			decoded.Add(1)
			return nil
		})
	}

	require.NoError(t, g.Wait())
	assert.Equal(t, int64(64), decoded.Load())
}

func TestHMACTokensParseWithGolangJWT(t *testing.T) {
	secret := []byte(testSecretKey)

	for _, alg := range []Algorithm{HS256, HS384, HS512} {
		t.Run(string(alg), func(t *testing.T) {
			token, err := Encode(Claims{"sample": "claim"}, secret, time.Time{}, time.Minute, WithAlgorithm(alg))
			require.NoError(t, err)

			// Timestamps are milliseconds, so golang-jwt's seconds-based checks are off.
			parsed, err := gjwt.Parse(token, func(*gjwt.Token) (any, error) { return secret, nil },
				gjwt.WithValidMethods([]string{string(alg)}),
				gjwt.WithoutClaimsValidation(),
			)
			require.NoError(t, err)
			assert.True(t, parsed.Valid)

			mc, ok := parsed.Claims.(gjwt.MapClaims)
			require.True(t, ok)
			assert.Equal(t, map[string]any{"sample": "claim"}, mc[DefaultClaimsKey])
		})
	}
}

func TestDecodeTokenSignedByGolangJWT(t *testing.T) {
	now := time.Now()
	payload := gjwt.MapClaims{
		"iat":    now.UnixMilli(),
		"nbf":    now.UnixMilli(),
		"exp":    now.Add(time.Minute).UnixMilli(),
		"claims": map[string]any{"from": "golang-jwt"},
	}

	token := gjwt.NewWithClaims(gjwt.SigningMethodHS256, payload)
	signed, err := token.SignedString([]byte(testSecretKey))
	require.NoError(t, err)

	claims, err := Decode(signed, testSecretKey)
	require.NoError(t, err)
	assert.Equal(t, Claims{"from": "golang-jwt"}, claims)
}

func TestPayloadIsValidJSONObject(t *testing.T) {
	token, err := Encode(Claims{"html": "<b>&</b>", "quote": `"q"`}, testSecretKey, time.Time{}, time.Minute)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	raw, err := core.DecodeBytes(parts[1])
	require.NoError(t, err)
	assert.True(t, json.Valid(raw))
	assert.Contains(t, string(raw), "<b>&</b>")
}
