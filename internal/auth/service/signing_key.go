package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/koliving/api/internal/crypto/domain"
)

const (
	// minSigningSecretSize is the minimum size of the configured secret in bytes.
	minSigningSecretSize = 32
	signingKeySize       = 32
	signingKeyInfo       = "koliving-access-token-hs256-v1"
)

// LoadSigningKey decodes the configured token secret, unwraps it with the
// keeper at kmsURI when kmsURI is set, and derives the HMAC key with
// HKDF-SHA256. A missing or short secret is an error: the server must not
// start without a signing key.
func LoadSigningKey(ctx context.Context, encoded, kmsURI string, kms KeeperOpener) ([]byte, error) {
	if encoded == "" {
		return nil, cryptoDomain.ErrKeyNotSet
	}

	secret, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, cryptoDomain.ErrInvalidKeyBase64
	}

	if kmsURI != "" {
		secret, err = unwrapSecret(ctx, kms, kmsURI, secret)
		if err != nil {
			return nil, err
		}
	}
	defer cryptoDomain.Zero(secret)

	if len(secret) < minSigningSecretSize {
		return nil, fmt.Errorf(
			"%w: signing secret must be at least %d bytes, got %d",
			cryptoDomain.ErrKeyTooShort,
			minSigningSecretSize,
			len(secret),
		)
	}

	return deriveSigningKey(secret)
}

func unwrapSecret(ctx context.Context, kms KeeperOpener, kmsURI string, ciphertext []byte) ([]byte, error) {
	if kms == nil {
		return nil, fmt.Errorf("signing key KMS URI is set but no KMS service is available")
	}

	keeper, err := kms.OpenKeeper(ctx, kmsURI)
	if err != nil {
		return nil, err
	}
	defer func() { _ = keeper.Close() }()

	secret, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt signing key: %w", err)
	}
	return secret, nil
}

// deriveSigningKey derives the 32-byte HMAC key from the configured secret.
// The info string is versioned so the algorithm can change without reusing keys.
func deriveSigningKey(secret []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, secret, nil, []byte(signingKeyInfo))

	key := make([]byte, signingKeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}
