package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Account is a registered portal user.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
}

// SetPassword hashes and stores the password.
func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

// CheckPassword compares a candidate password against the stored hash.
func (a *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

// NewAccount is the sign-up input. Field rules mirror the portal's
// registration form.
type NewAccount struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Session is an issued bearer token plus the account it belongs to.
type Session struct {
	Token   string  `json:"token"`
	Account Account `json:"account"`
}

// Repository abstracts account storage (in-memory, Postgres).
type Repository interface {
	CreateAccount(ctx context.Context, account Account) (Account, error)
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
	GetAccountByID(ctx context.Context, id string) (Account, error)
}

// Revoker tracks signed-out tokens until they expire on their own.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
