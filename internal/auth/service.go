// Package auth implements the portal's identity collaborator: account
// registration, password sign-in and stateless bearer tokens. The rest of the
// core only ever needs "authenticated user id or none".
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"dvg-portal/internal/domain"
)

// DefaultTokenTTL bounds how long a sign-in survives without re-authenticating.
const DefaultTokenTTL = 24 * time.Hour

// Service holds the identity use cases.
type Service struct {
	repo     Repository
	revoker  Revoker
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock injects a deterministic clock for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTokenTTL overrides the token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) { s.tokenTTL = ttl }
}

func NewService(repo Repository, revoker Revoker, secret []byte, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		revoker:  revoker,
		secret:   secret,
		tokenTTL: DefaultTokenTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SignUp validates the form and creates the account. Duplicate emails surface
// as domain.ErrEmailTaken.
func (s *Service) SignUp(ctx context.Context, na NewAccount) (Account, error) {
	if err := checkNewAccount(na); err != nil {
		return Account{}, err
	}
	account := Account{
		ID:        uuid.NewString(),
		Username:  strings.TrimSpace(na.Username),
		Email:     strings.ToLower(strings.TrimSpace(na.Email)),
		CreatedAt: s.now().UTC(),
	}
	if err := account.SetPassword(na.Password); err != nil {
		return Account{}, err
	}
	return s.repo.CreateAccount(ctx, account)
}

// SignIn verifies credentials and issues a bearer token. Every failure mode
// collapses into domain.ErrInvalidCredentials; callers show one generic
// message and never learn which part was wrong.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	account, err := s.repo.GetAccountByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return Session{}, domain.ErrInvalidCredentials
	}
	if err := account.CheckPassword(password); err != nil {
		return Session{}, domain.ErrInvalidCredentials
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: account.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: signed, Account: account}, nil
}

// SignOut revokes the token until its natural expiry.
func (s *Service) SignOut(ctx context.Context, token string) error {
	c, err := s.parse(token)
	if err != nil {
		return err
	}
	ttl := time.Until(c.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.revoker.Revoke(ctx, c.ID, ttl)
}

// SessionFromToken resolves a bearer token to the account it was issued for.
func (s *Service) SessionFromToken(ctx context.Context, token string) (Account, error) {
	c, err := s.parse(token)
	if err != nil {
		return Account{}, err
	}
	if revoked, err := s.revoker.IsRevoked(ctx, c.ID); err == nil && revoked {
		return Account{}, domain.ErrInvalidToken
	}
	account, err := s.repo.GetAccountByID(ctx, c.Subject)
	if err != nil {
		return Account{}, domain.ErrInvalidToken
	}
	return account, nil
}

func (s *Service) parse(token string) (*claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	return c, nil
}
