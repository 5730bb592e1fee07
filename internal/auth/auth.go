// Package auth implements the GGPO-NG salted HMAC password check.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/ggposrv/internal/db"
)

// hmacKey is fixed by wire compatibility with existing user databases.
const hmacKey = "GGPO-NG"

var (
	// ErrUnknownUser means the nickname has no account.
	ErrUnknownUser = errors.New("unknown user")
	// ErrWrongPassword means the digest did not match.
	ErrWrongPassword = errors.New("wrong password")
)

// Authenticator validates lobby credentials.
type Authenticator interface {
	// Authenticate returns nil on success, ErrUnknownUser or ErrWrongPassword
	// on denial, and any other error for backend failures. ip is recorded as
	// the account's last login address.
	Authenticate(ctx context.Context, nick, password, ip string) error
}

// Service checks passwords against a user store.
type Service struct {
	accounts db.AccountRepository
}

// NewService creates an authenticator over the given repository.
func NewService(accounts db.AccountRepository) *Service {
	return &Service{accounts: accounts}
}

// Digest computes hex(HMAC_SHA512(key="GGPO-NG", password||salt)).
func Digest(password, salt string) string {
	mac := hmac.New(sha512.New, []byte(hmacKey))
	mac.Write([]byte(password))
	mac.Write([]byte(salt))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Service) Authenticate(ctx context.Context, nick, password, ip string) error {
	acc, err := s.accounts.GetAccount(ctx, nick)
	if err != nil {
		return fmt.Errorf("looking up account %q: %w", nick, err)
	}
	if acc == nil {
		return ErrUnknownUser
	}

	digest := Digest(password, acc.Salt)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(acc.PasswordDigest)) != 1 {
		return ErrWrongPassword
	}

	// best effort, a failed write must not block the login
	if err := s.accounts.UpdateLastLogin(ctx, nick, ip); err != nil {
		slog.Warn("recording last login failed", "nick", nick, "error", err)
	}
	return nil
}
