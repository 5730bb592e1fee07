package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Account is one row of the users table. PasswordDigest is the hex HMAC
// digest computed at registration time; Salt is the per-user salt that went
// into it.
type Account struct {
	Username       string
	PasswordDigest string
	Salt           string
	Email          string
	LastIP         string
	CreatedAt      time.Time
}

// AccountRepository is the user store consulted during auth.
type AccountRepository interface {
	// GetAccount retrieves an account by username.
	// Returns nil, nil if the account does not exist.
	GetAccount(ctx context.Context, username string) (*Account, error)
	// UpdateLastLogin records the source IP of a successful login.
	UpdateLastLogin(ctx context.Context, username, ip string) error
}

// PostgresAccountRepository implements AccountRepository on a pgx pool.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAccountRepository creates a repository backed by pool.
func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

func (r *PostgresAccountRepository) GetAccount(ctx context.Context, username string) (*Account, error) {
	username = strings.ToLower(username)
	var acc Account
	err := r.pool.QueryRow(ctx,
		`SELECT username, password, salt, email, ip, date
		 FROM users WHERE username = $1`, username,
	).Scan(&acc.Username, &acc.PasswordDigest, &acc.Salt, &acc.Email, &acc.LastIP, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying account %q: %w", username, err)
	}
	return &acc, nil
}

func (r *PostgresAccountRepository) UpdateLastLogin(ctx context.Context, username, ip string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET ip = $1 WHERE username = $2`,
		ip, strings.ToLower(username),
	)
	if err != nil {
		return fmt.Errorf("updating last login for %q: %w", username, err)
	}
	return nil
}
