// Package domain defines the key material types used to protect the access
// token signing key.
package domain

import (
	"context"
	"errors"
)

// KMSKeeper encrypts and decrypts small secrets with a key held by a KMS.
// *secrets.Keeper from gocloud.dev satisfies it.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// Errors returned while loading key material.
var (
	ErrKeyNotSet        = errors.New("key material is not configured")
	ErrInvalidKeyBase64 = errors.New("key material is not valid base64")
	ErrKeyTooShort      = errors.New("key material is too short")
)
