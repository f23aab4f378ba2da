package main

import (
	"log"
	"time"

	"github.com/cybergodev/jws"
)

func main() {

	secretKey := "Kx9#mP2$vL8@nQ5!wR7&tY3^uI6*oE4%aS1+dF0-g!"

	// Hardened processor for production
	config := jws.Config{
		Algorithm:         jws.HS512,                  // Signing algorithm
		Algorithms:        []jws.Algorithm{jws.HS512}, // Only accept what we issue
		Leeway:            2 * time.Second,            // Clock skew between hosts
		MaxTokenSize:      4 * 1024,                   // Reject oversized input early
		MinSecretLength:   32,                         // Secret policy
		RejectWeakSecrets: true,                       // Refuse guessable secrets
	}

	processor, err := jws.New(config)
	if err != nil {
		log.Fatalf("Secure processor creation failed: %v", err)
	}

	if _, err := processor.Encode(jws.Claims{"sub": "svc"}, secretKey, time.Time{}, 15*time.Minute); err != nil {
		log.Fatalf("Token creation failed: %v", err)
	}
}
