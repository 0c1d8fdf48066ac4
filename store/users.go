package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var ErrTokenExpired = errors.New("token expired")

// SeedUser creates username or resets its password.
func (s *Store) SeedUser(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user (username, password_hash) VALUES (?, ?)
		ON CONFLICT (username) DO UPDATE SET password_hash = excluded.password_hash`,
		username, hash)
	return errors.Wrapf(err, "seed user %q", username)
}

// PasswordHash returns the stored bcrypt hash of username.
func (s *Store) PasswordHash(ctx context.Context, username string) ([]byte, error) {
	var hash []byte
	err := s.db.QueryRowContext(ctx, `SELECT password_hash FROM user WHERE username = ?`, username).Scan(&hash)
	return hash, errors.Wrapf(notFound(err), "select user %q", username)
}

// StoreToken records an issued refresh token.
func (s *Store) StoreToken(ctx context.Context, username, tokenID, refreshTokenID string, expiration time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO token (username, token_id, refresh_token_id, expiration) VALUES (?, ?, ?, ?)`,
		username, tokenID, refreshTokenID, expiration)
	return errors.Wrap(err, "insert token")
}

// ConsumeToken deletes a refresh token and reports whether it was still
// valid. Each token can be consumed once.
func (s *Store) ConsumeToken(ctx context.Context, username, tokenID, refreshTokenID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	var expiration time.Time
	err = tx.QueryRowContext(ctx, `
		SELECT expiration FROM token
		WHERE username = ?
			AND token_id = ?
			AND refresh_token_id = ?`,
		username, tokenID, refreshTokenID,
	).Scan(&expiration)
	if err != nil {
		return errors.Wrap(notFound(err), "consume token")
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM token
		WHERE username = ?
			AND token_id = ?
			AND refresh_token_id = ?`,
		username, tokenID, refreshTokenID)
	if err != nil {
		return errors.Wrap(err, "consume token")
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit token")
	}

	if expiration.Before(s.now()) {
		return ErrTokenExpired
	}
	return nil
}
