package memory

import (
	"context"
	"strings"
	"sync"

	"dvg-portal/internal/auth"
	"dvg-portal/internal/domain"
)

// AccountRepository keeps accounts in process memory. It is the default
// backend when no Postgres URL is configured and the fixture for auth tests.
type AccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]auth.Account
	byEmail map[string]string
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:    make(map[string]auth.Account),
		byEmail: make(map[string]string),
	}
}

func (r *AccountRepository) CreateAccount(_ context.Context, account auth.Account) (auth.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(account.Email)
	if _, taken := r.byEmail[email]; taken {
		return auth.Account{}, domain.ErrEmailTaken
	}
	r.byID[account.ID] = account
	r.byEmail[email] = account.ID
	return account, nil
}

func (r *AccountRepository) GetAccountByEmail(_ context.Context, email string) (auth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return auth.Account{}, domain.ErrAccountNotFound
	}
	return r.byID[id], nil
}

func (r *AccountRepository) GetAccountByID(_ context.Context, id string) (auth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byID[id]
	if !ok {
		return auth.Account{}, domain.ErrAccountNotFound
	}
	return account, nil
}
