package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"dvg-portal/internal/auth"
	"dvg-portal/internal/domain"
)

const uniqueViolation = "23505"

// AccountRepository persists accounts.
type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, account auth.Account) (auth.Account, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		account.ID, account.Username, account.Email, account.PasswordHash, account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return auth.Account{}, domain.ErrEmailTaken
		}
		return auth.Account{}, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

func (r *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (auth.Account, error) {
	return r.scanAccount(r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM accounts WHERE email=$1`, email))
}

func (r *AccountRepository) GetAccountByID(ctx context.Context, id string) (auth.Account, error) {
	return r.scanAccount(r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM accounts WHERE id=$1`, id))
}

func (r *AccountRepository) scanAccount(row pgx.Row) (auth.Account, error) {
	var account auth.Account
	err := row.Scan(&account.ID, &account.Username, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.Account{}, domain.ErrAccountNotFound
	}
	if err != nil {
		return auth.Account{}, fmt.Errorf("load account: %w", err)
	}
	return account, nil
}
