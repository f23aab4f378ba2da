package security

import (
	"crypto/subtle"
	"runtime"
	"strings"
)

// CloneBytes returns a private copy of data that the caller may zero.
func CloneBytes(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

// ZeroBytes overwrites a byte slice with zeros.
func ZeroBytes(data []byte) {
	if len(data) == 0 {
		return
	}

	for i := range data {
		data[i] = 0
	}

	runtime.KeepAlive(data)
}

// SecureCompare reports whether a and b are equal in time that depends only
// on their lengths.
func SecureCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// IsWeakKey reports whether an HMAC secret has obviously insufficient entropy.
func IsWeakKey(key []byte) bool {
	if len(key) == 0 {
		return true
	}

	if allSame(key) {
		return true
	}

	if hasLowEntropy(key) {
		return true
	}

	keyStr := strings.ToLower(string(key))
	for _, pattern := range weakPatterns {
		if strings.Contains(keyStr, pattern) {
			return true
		}
	}

	if len(key) >= 8 {
		ascending := true
		descending := true
		for i := 1; i < 8; i++ {
			if key[i] != key[i-1]+1 {
				ascending = false
			}
			if key[i] != key[i-1]-1 {
				descending = false
			}
		}
		if ascending || descending {
			return true
		}
	}

	return hasShortRepetition(key)
}

var weakPatterns = [...]string{
	"12345678", "87654321", "abcdefgh", "qwertyui", "asdfghjk", "zxcvbnm",
	"password", "letmein", "welcome", "changeme", "default", "secret",
}

func allSame(key []byte) bool {
	for _, b := range key[1:] {
		if b != key[0] {
			return false
		}
	}
	return true
}

// hasLowEntropy flags keys shorter than 8 bytes or with fewer than 30%
// distinct bytes.
func hasLowEntropy(key []byte) bool {
	if len(key) < 8 {
		return true
	}

	var seen [256]bool
	unique := 0
	for _, b := range key {
		if !seen[b] {
			seen[b] = true
			unique++
		}
	}

	return float64(unique)/float64(len(key)) < 0.3
}

// hasShortRepetition detects keys made of a 2-4 byte unit repeated.
func hasShortRepetition(key []byte) bool {
	for unit := 2; unit <= 4; unit++ {
		if len(key) < unit*3 {
			continue
		}
		repeated := true
		for i := unit; i < len(key); i++ {
			if key[i] != key[i%unit] {
				repeated = false
				break
			}
		}
		if repeated {
			return true
		}
	}
	return false
}
