package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cybergodev/jws"
	"github.com/cybergodev/jws/keys"
)

func newFlagSet(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet("jwstool "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usagef("%v", err)
	}
	return nil
}

func runKeygen(a *app, args []string) error {
	fs := newFlagSet(a, "keygen")
	out := fs.String("out", ".", "directory to write the PEM files into")
	name := fs.String("name", "", "base name of the key files (required)")
	bits := fs.Int("bits", a.cfg.KeyBits, "RSA modulus size in bits")
	password := fs.String("password", "", "encrypt the private key with this password")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *name == "" {
		return usagef("-name is required")
	}

	a.log.Debug("generating key pair", zap.Int("bits", *bits))
	priv, _, err := keys.GenerateKeyPair(keys.DefaultExponent, *bits)
	if err != nil {
		return err
	}

	privPath, pubPath, err := keys.SaveKeyPair(priv, *out, *name, *password)
	if err != nil {
		return err
	}

	a.log.Info("key pair written",
		zap.String("private", privPath),
		zap.String("public", pubPath),
		zap.Bool("encrypted", *password != ""),
	)
	fmt.Fprintln(a.stdout, privPath)
	fmt.Fprintln(a.stdout, pubPath)
	return nil
}

func runEncode(a *app, args []string) error {
	fs := newFlagSet(a, "encode")
	alg := fs.String("alg", a.cfg.Algorithm, "signing algorithm")
	secret := fs.String("secret", a.cfg.Secret, "shared secret for HS* algorithms")
	keyPath := fs.String("key", "", "private key PEM file for RS* algorithms")
	password := fs.String("password", "", "password of an encrypted private key")
	claimsJSON := fs.String("claims", "", "claims as a JSON object (required)")
	ttl := fs.Duration("ttl", 5*time.Minute, "validity after issuance")
	nbf := fs.String("nbf", "", "not-before time in RFC 3339; issuance time when empty")
	layout := fs.String("layout", a.cfg.Layout, "payload layout: nested or flat")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *claimsJSON == "" {
		return usagef("-claims is required")
	}

	var claims jws.Claims
	if err := json.Unmarshal([]byte(*claimsJSON), &claims); err != nil {
		return usagef("-claims must be a JSON object: %v", err)
	}
	if len(claims) == 0 {
		return usagef("-claims must be a non-empty JSON object")
	}

	var notBefore time.Time
	if *nbf != "" {
		t, err := time.Parse(time.RFC3339, *nbf)
		if err != nil {
			return usagef("-nbf: %v", err)
		}
		notBefore = t
	}

	algorithm := jws.Algorithm(*alg)
	if !algorithm.IsSupported() {
		return usagef("-alg %q is not supported, accepts %v", *alg, jws.SupportedAlgorithms())
	}

	var key any
	if algorithm.IsSymmetric() {
		if *secret == "" {
			return usagef("%s needs -secret or JWSTOOL_SECRET", algorithm)
		}
		key = *secret
	} else {
		if *keyPath == "" {
			return usagef("%s needs -key with a private key file", algorithm)
		}
		priv, _, err := keys.LoadPrivateKey(*keyPath, *password)
		if err != nil {
			return err
		}
		key = priv
	}

	p, err := jws.New(jws.Config{Algorithm: algorithm, Layout: jws.Layout(*layout)})
	if err != nil {
		return err
	}

	token, err := p.Encode(claims, key, notBefore, *ttl)
	if err != nil {
		return err
	}

	a.log.Debug("token encoded", zap.String("alg", *alg), zap.Duration("ttl", *ttl))
	fmt.Fprintln(a.stdout, token)
	return nil
}

func runDecode(a *app, args []string) error {
	fs := newFlagSet(a, "decode")
	secret := fs.String("secret", a.cfg.Secret, "shared secret for HS* tokens")
	keyPath := fs.String("key", "", "public key PEM file for RS* tokens")
	leeway := fs.Duration("leeway", a.cfg.Leeway, "clock skew allowance")
	layout := fs.String("layout", a.cfg.Layout, "payload layout: nested or flat")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	token, err := tokenArg(a, fs)
	if err != nil {
		return err
	}

	var key any
	switch {
	case *keyPath != "":
		pub, err := keys.LoadPublicKey(*keyPath)
		if err != nil {
			return err
		}
		key = pub
	case *secret != "":
		key = *secret
	default:
		return usagef("needs -key, -secret or JWSTOOL_SECRET")
	}

	p, err := jws.New(jws.Config{Leeway: *leeway, Layout: jws.Layout(*layout)})
	if err != nil {
		return err
	}

	claims, err := p.Decode(token, key)
	if err != nil {
		return err
	}

	return writeJSON(a.stdout, claims)
}

func runInspect(a *app, args []string) error {
	fs := newFlagSet(a, "inspect")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	token, err := tokenArg(a, fs)
	if err != nil {
		return err
	}

	header, err := jws.InspectHeader(token)
	if err != nil {
		return err
	}

	return writeJSON(a.stdout, header)
}

// tokenArg returns the single positional token; "-" reads it from stdin.
func tokenArg(a *app, fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", usagef("expects exactly one TOKEN argument, got %d", fs.NArg())
	}

	token := fs.Arg(0)
	if token != "-" {
		return token, nil
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read token from stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
