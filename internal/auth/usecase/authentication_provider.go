package usecase

import (
	"context"

	authDomain "github.com/koliving/api/internal/auth/domain"
	apperrors "github.com/koliving/api/internal/errors"
)

type authenticationProvider struct {
	store CredentialStore
}

// NewAuthenticationProvider creates an AuthenticationProvider backed by store.
func NewAuthenticationProvider(store CredentialStore) AuthenticationProvider {
	return &authenticationProvider{store: store}
}

func (p *authenticationProvider) Authenticate(
	ctx context.Context,
	credentials authDomain.Credentials,
) (*authDomain.Principal, error) {
	user, err := p.store.LoadUserByEmail(ctx, credentials.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, authDomain.NewAuthError(authDomain.KindUnknownPrincipal, err)
		}
		return nil, apperrors.Wrap(err, "failed to load user credentials")
	}

	if !p.store.IsEqualPassword(credentials.Password, user.Password) {
		return nil, authDomain.NewAuthError(authDomain.KindInvalidCredentials, nil)
	}

	return user.Principal(), nil
}
