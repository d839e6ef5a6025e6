// Package store is the durable TokenStore backing the console: a single-row
// SQLite database in the user's config directory. The refresh token is
// encrypted at rest; the access token is short-lived and stored as-is.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/hisptogo/arrimage-console/pkg/adminsdk"
	"github.com/hisptogo/arrimage-console/pkg/cryptox"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the session database at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.applyMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save persists the token pair and identity in one transaction, so a reader
// never observes tokens without their identity or the other way round.
func (s *Store) Save(pair adminsdk.TokenPair, identity adminsdk.Identity) error {
	identityJSON, err := json.Marshal(identity)
	if err != nil {
		return err
	}

	encryptedRefresh, err := cryptox.EncryptToken([]byte(pair.RefreshToken))
	if err != nil {
		return err
	}

	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO session (id, access_token, refresh_token, identity, updated_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			access_token  = excluded.access_token,
			refresh_token = excluded.refresh_token,
			identity      = excluded.identity,
			updated_at    = excluded.updated_at
	`, pair.AccessToken, encryptedRefresh, string(identityJSON))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Load returns the persisted session, or nil/nil when none exists. A row
// whose identity or refresh token cannot be decoded is reported as absent:
// the session then starts unauthenticated instead of failing.
func (s *Store) Load() (*adminsdk.TokenPair, *adminsdk.Identity, error) {
	var (
		accessToken      string
		encryptedRefresh []byte
		identityJSON     string
	)

	row := s.db.QueryRow(`SELECT access_token, refresh_token, identity FROM session WHERE id = 1`)
	if err := row.Scan(&accessToken, &encryptedRefresh, &identityJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	refreshToken, err := cryptox.DecryptToken(encryptedRefresh)
	if err != nil {
		return nil, nil, nil
	}

	var identity adminsdk.Identity
	if err := json.Unmarshal([]byte(identityJSON), &identity); err != nil {
		return nil, nil, nil
	}

	pair := adminsdk.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: string(refreshToken),
	}
	return &pair, &identity, nil
}

// Clear removes the persisted session. Idempotent.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM session WHERE id = 1`)
	return err
}
