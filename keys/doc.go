// Package keys generates RSA key pairs and moves them to and from PEM files
// for use with the RS* algorithms of package jws.
//
// Private keys are written as PKCS#8, encrypted with PBES2 (PBKDF2 and
// AES-256-CBC) when a password is given. Public keys are written as PKIX.
// Parsing also accepts PKCS#1 private keys and PKCS#1 public keys.
//
//	priv, pub, err := keys.GenerateKeyPair(65537, 2048)
//	privPath, pubPath, err := keys.SaveKeyPair(priv, "./secrets", "api", "")
//	priv, pub, err = keys.LoadPrivateKey(privPath, "")
//	pub, err = keys.LoadPublicKey(pubPath)
package keys
