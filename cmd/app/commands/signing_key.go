package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/koliving/api/internal/crypto/domain"
	cryptoService "github.com/koliving/api/internal/crypto/service"
)

const signingSecretSize = 32

// RunCreateSigningKey generates a random access token signing secret and
// prints it as environment variables. With kmsKeyURI set the secret is
// encrypted by the keeper first and only the ciphertext is printed.
func RunCreateSigningKey(
	ctx context.Context,
	kms cryptoService.KMSService,
	logger *slog.Logger,
	w io.Writer,
	kmsKeyURI string,
) error {
	secret := make([]byte, signingSecretSize)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("failed to generate signing key: %w", err)
	}
	defer cryptoDomain.Zero(secret)

	encoded := base64.StdEncoding.EncodeToString(secret)
	if kmsKeyURI != "" {
		var err error
		encoded, err = cryptoService.WrapKey(ctx, kms, kmsKeyURI, secret)
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(w, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintf(w, "AUTH_SIGNING_KEY=%q\n", encoded)
	if kmsKeyURI != "" {
		_, _ = fmt.Fprintf(w, "AUTH_SIGNING_KEY_KMS_URI=%q\n", kmsKeyURI)
	}

	logger.Info("signing key generated", slog.Bool("kms", kmsKeyURI != ""))
	return nil
}
