// Package kmscrypt encrypts freshly generated client secrets under a KMS
// key before they are written to the secret store.
package kmscrypt

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
)

// API is the slice of the KMS client an Encryptor needs.
type API interface {
	Encrypt(ctx context.Context, params *kms.EncryptInput, optFns ...func(*kms.Options)) (*kms.EncryptOutput, error)
}

// Encryptor encrypts plaintext under one configured KMS key.
type Encryptor struct {
	client API
	keyID  string
	logger *slog.Logger
}

// New creates an Encryptor for the given key id or ARN.
func New(client API, keyID string) *Encryptor {
	return &Encryptor{
		client: client,
		keyID:  keyID,
		logger: slog.Default().With("component", "kmscrypt"),
	}
}

// Encrypt returns the base64-encoded ciphertext of plaintext. The secret key
// being rotated goes into the encryption context, so decryption requires
// naming the same key.
func (e *Encryptor) Encrypt(ctx context.Context, plaintext, secretKey string) (string, error) {
	out, err := e.client.Encrypt(ctx, &kms.EncryptInput{
		KeyId:     aws.String(e.keyID),
		Plaintext: []byte(plaintext),
		EncryptionContext: map[string]string{
			"secret_key": secretKey,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encrypt with key %s: %w", e.keyID, err)
	}

	e.logger.Debug("encrypted secret", "key_id", e.keyID, "secret_key", secretKey)
	return base64.StdEncoding.EncodeToString(out.CiphertextBlob), nil
}
