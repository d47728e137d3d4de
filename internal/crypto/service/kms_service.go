// Package service opens KMS keepers used to wrap and unwrap key material.
package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/koliving/api/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSService opens keepers by URI.
type KMSService interface {
	// OpenKeeper opens a keeper for keyURI. Supported schemes are gcpkms://,
	// awskms://, azurekeyvault://, hashivault:// and base64key://.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService creates a KMSService backed by gocloud.dev/secrets.
func NewKMSService() KMSService {
	return &kmsService{}
}

func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// WrapKey encrypts key with the keeper at keyURI and returns the ciphertext
// in standard base64.
func WrapKey(ctx context.Context, kms KMSService, keyURI string, key []byte) (string, error) {
	keeper, err := kms.OpenKeeper(ctx, keyURI)
	if err != nil {
		return "", err
	}
	defer func() { _ = keeper.Close() }()

	ciphertext, err := keeper.Encrypt(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt key with KMS: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// UnwrapKey reverses WrapKey.
func UnwrapKey(ctx context.Context, kms KMSService, keyURI, encoded string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, cryptoDomain.ErrInvalidKeyBase64
	}

	keeper, err := kms.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}
	defer func() { _ = keeper.Close() }()

	key, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt key with KMS: %w", err)
	}
	return key, nil
}
