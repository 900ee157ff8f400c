// Package keypair generates the ECDSA P-256 keypairs used to sign client
// secrets when a provider-issued key is not available.
package keypair

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// Generate creates a new P-256 private key.
func Generate() (*ecdsa.PrivateKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair: %w", err)
	}
	return key, nil
}

// EncodePrivatePEM encodes the private key as a PKCS#8 PEM block, the same
// format Apple uses for .p8 signing keys.
func EncodePrivatePEM(key *ecdsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to encode private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// EncodePublicPEM encodes the public half as a PKIX PEM block.
func EncodePublicPEM(key *ecdsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encode public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// SavePrivatePEM writes the private key readable only by the owner.
func SavePrivatePEM(path string, key *ecdsa.PrivateKey) error {
	data, err := EncodePrivatePEM(key)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// SavePublicPEM writes the public key world-readable.
func SavePublicPEM(path string, key *ecdsa.PrivateKey) error {
	data, err := EncodePublicPEM(key)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
