// Package session holds the browser session: the authenticated user's
// profile snapshot and the opaque bearer credential the remote API issued at
// login. It is the only state this application persists.
//
// Views read sessions through the request context and never write them; the
// login and logout handlers are the sole writers.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/xid"
	_ "modernc.org/sqlite"

	"github.com/ravindu/helpdesk-web/internal/model"
)

// Store persists sessions and one-time confirmation tokens in SQLite.
type Store struct {
	conn *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	token      TEXT NOT NULL,
	user_json  TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	expires_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS confirm_tokens (
	token       TEXT PRIMARY KEY,
	session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	question_id INTEGER NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
`

// NewStore opens (or creates) the session database at dbPath. ":memory:"
// works for tests.
func NewStore(dbPath string) (*Store, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("session: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("session: pinging database: %w", err)
	}

	// WAL allows reads while a write is in flight; foreign keys keep confirm
	// tokens from outliving their session.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("session: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("session: enabling foreign keys: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("session: creating schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Create writes a new session for the given credential and profile snapshot
// and returns it. Called only by the login flow.
func (s *Store) Create(ctx context.Context, token string, user *model.User, ttl time.Duration) (*model.Session, error) {
	if token == "" {
		return nil, errors.New("session: credential is required")
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("session: encoding profile snapshot: %w", err)
	}

	now := time.Now().UTC()
	sess := &model.Session{
		ID:        xid.New().String(),
		Token:     token,
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO sessions (id, token, user_json, created_at, expires_at) VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.Token, string(userJSON), sess.CreatedAt, sess.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("session: inserting session: %w", err)
	}

	return sess, nil
}

// Get returns the session with the given id, or nil when it does not exist
// or has expired. Absence is a value here, not an error: every caller must
// handle the anonymous case.
func (s *Store) Get(ctx context.Context, id string) (*model.Session, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT id, token, user_json, created_at, expires_at FROM sessions WHERE id = ?`, id)

	var sess model.Session
	var userJSON string
	err := row.Scan(&sess.ID, &sess.Token, &userJSON, &sess.CreatedAt, &sess.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: reading session: %w", err)
	}

	if sess.Expired(time.Now().UTC()) {
		// Opportunistic cleanup; the read still reports "absent".
		_, _ = s.conn.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
		return nil, nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("session: decoding profile snapshot: %w", err)
	}
	sess.User = &user

	return &sess, nil
}

// Delete removes a session. Called only by the logout flow.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("session: deleting session: %w", err)
	}
	return nil
}

// DeleteExpired purges sessions past their expiry.
func (s *Store) DeleteExpired(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("session: purging expired sessions: %w", err)
	}
	return nil
}

// CreateConfirmToken issues a single-use token tying a pending destructive
// action to this session and question. The delete flow requires it on the
// second request, so one click alone can never destroy anything.
func (s *Store) CreateConfirmToken(ctx context.Context, sessionID string, questionID int) (string, error) {
	token := uuid.NewString()
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO confirm_tokens (token, session_id, question_id, created_at) VALUES (?, ?, ?, ?)`,
		token, sessionID, questionID, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("session: inserting confirm token: %w", err)
	}
	return token, nil
}

// ConsumeConfirmToken deletes the token and reports whether it existed for
// exactly this session and question. A token never validates twice.
func (s *Store) ConsumeConfirmToken(ctx context.Context, token, sessionID string, questionID int) (bool, error) {
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM confirm_tokens WHERE token = ? AND session_id = ? AND question_id = ?`,
		token, sessionID, questionID,
	)
	if err != nil {
		return false, fmt.Errorf("session: consuming confirm token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("session: consuming confirm token: %w", err)
	}
	return n == 1, nil
}
