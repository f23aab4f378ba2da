package jws

import (
	"testing"
	"time"
)

func BenchmarkEncode(b *testing.B) {
	benchmarks := []struct {
		alg Algorithm
	}{
		{HS256}, {HS512}, {RS256},
	}

	claims := Claims{"user_id": "user123", "role": "admin", "scopes": []any{"read", "write"}}

	for _, bm := range benchmarks {
		b.Run(string(bm.alg), func(b *testing.B) {
			signKey, _, _ := keysFor(bm.alg)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if _, err := Encode(claims, signKey, time.Time{}, 15*time.Minute, WithAlgorithm(bm.alg)); err != nil {
					b.Fatalf("Failed to encode token: %v", err)
				}
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	for _, alg := range []Algorithm{HS256, HS512, RS256} {
		b.Run(string(alg), func(b *testing.B) {
			signKey, verifyKey, _ := keysFor(alg)
			token, err := Encode(Claims{"user_id": "user123", "role": "admin"}, signKey, time.Time{}, time.Hour, WithAlgorithm(alg))
			if err != nil {
				b.Fatalf("Failed to encode token: %v", err)
			}

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if _, err := Decode(token, verifyKey); err != nil {
					b.Fatalf("Failed to decode token: %v", err)
				}
			}
		})
	}
}

func BenchmarkDecodeParallel(b *testing.B) {
	p, err := New()
	if err != nil {
		b.Fatalf("Failed to create processor: %v", err)
	}

	token, err := p.Encode(Claims{"user_id": "user123"}, testSecretKey, time.Time{}, time.Hour)
	if err != nil {
		b.Fatalf("Failed to encode token: %v", err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := p.Decode(token, testSecretKey); err != nil {
				b.Errorf("Failed to decode token: %v", err)
				return
			}
		}
	})
}

func BenchmarkDecodeRejectsForgery(b *testing.B) {
	token, err := Encode(Claims{"user_id": "user123"}, testSecretKey, time.Time{}, time.Hour)
	if err != nil {
		b.Fatalf("Failed to encode token: %v", err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := Decode(token, "forged-secret-key"); err == nil {
			b.Fatal("Forged key accepted")
		}
	}
}
