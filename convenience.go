package jws

import (
	"time"
)

// std backs the package-level functions with DefaultConfig.
var std = &Processor{cfg: DefaultConfig()}

// Encode signs claims with the default configuration: nested layout,
// HS256 unless WithAlgorithm says otherwise, and no secret policy.
//
//	token, err := jws.Encode(jws.Claims{"sample": "claim"}, "secret key",
//		time.Now(), 5*time.Minute)
func Encode(claims any, key any, notBefore time.Time, expireAfter time.Duration, opts ...EncodeOption) (string, error) {
	return std.Encode(claims, key, notBefore, expireAfter, opts...)
}

// Decode verifies token with the default configuration and returns its claims.
func Decode(token string, key any) (Claims, error) {
	return std.Decode(token, key)
}

// InspectHeader returns the unverified header of token.
// Never trust the result without calling Decode.
func InspectHeader(token string) (Header, error) {
	return std.InspectHeader(token)
}
