package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/koliving/api/internal/auth/domain"
	cryptoDomain "github.com/koliving/api/internal/crypto/domain"
)

// accessClaims is the payload of an access token.
type accessClaims struct {
	Roles  []string `json:"roles"`
	UserID string   `json:"uid,omitempty"`
	Name   string   `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenOption configures a TokenService.
type TokenOption func(*jwtTokenService)

// WithClock replaces time.Now as the source of issue and verification time.
func WithClock(now func() time.Time) TokenOption {
	return func(s *jwtTokenService) {
		s.now = now
	}
}

// jwtTokenService signs HS256 tokens with a single process-wide key.
type jwtTokenService struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenService creates a TokenService. It fails when key is empty or ttl
// is not positive, both of which are startup configuration errors.
func NewTokenService(key []byte, ttl time.Duration, issuer string, opts ...TokenOption) (TokenService, error) {
	if len(key) == 0 {
		return nil, cryptoDomain.ErrKeyNotSet
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	s := &jwtTokenService{
		key:    key,
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(issuer))
	}
	s.parser = jwt.NewParser(parserOpts...)

	return s, nil
}

func (s *jwtTokenService) Issue(principal *authDomain.Principal) (*authDomain.Token, error) {
	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.ttl)

	roles := make([]string, len(principal.Roles))
	for i, r := range principal.Roles {
		roles[i] = string(r)
	}

	claims := accessClaims{
		Roles: roles,
		Name:  principal.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.Email,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if principal.ID != uuid.Nil {
		claims.UserID = principal.ID.String()
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &authDomain.Token{
		Subject:   principal.Email,
		Roles:     append([]authDomain.Role(nil), principal.Roles...),
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
		Raw:       raw,
	}, nil
}

func (s *jwtTokenService) Verify(raw string) (*authDomain.Principal, error) {
	claims := &accessClaims{}
	_, err := s.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		return nil, authDomain.NewAuthError(classifyJWTError(err), err)
	}

	return principalFromClaims(claims)
}

// classifyJWTError maps parser failures onto error kinds. The parser checks
// the signature before any claim, so an expired token with a bad signature
// reports TokenSignatureInvalid.
func classifyJWTError(err error) authDomain.ErrorKind {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return authDomain.KindTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return authDomain.KindTokenExpired
	default:
		return authDomain.KindTokenMalformed
	}
}

func principalFromClaims(claims *accessClaims) (*authDomain.Principal, error) {
	if claims.Subject == "" {
		return nil, authDomain.NewAuthError(authDomain.KindTokenMalformed, errors.New("token has no subject"))
	}

	principal := &authDomain.Principal{
		Email: claims.Subject,
		Name:  claims.Name,
		Roles: make([]authDomain.Role, 0, len(claims.Roles)),
	}

	if claims.UserID != "" {
		id, err := uuid.Parse(claims.UserID)
		if err != nil {
			return nil, authDomain.NewAuthError(authDomain.KindTokenMalformed, fmt.Errorf("invalid uid claim: %w", err))
		}
		principal.ID = id
	}

	for _, name := range claims.Roles {
		role, ok := authDomain.ParseRole(name)
		if !ok {
			return nil, authDomain.NewAuthError(authDomain.KindTokenMalformed, fmt.Errorf("unknown role %q", name))
		}
		principal.Roles = append(principal.Roles, role)
	}

	return principal, nil
}
