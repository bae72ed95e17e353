package session

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/eventzy/eventzy-go/internal/models"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

const schema = `CREATE TABLE IF NOT EXISTS session (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// Store persists the bearer token and the cached user snapshot as two
// key/value rows. It performs no network calls and no retries; storage
// failures propagate to the caller.
type Store struct {
	db *sqlx.DB
}

// Open creates or opens the session database at path.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("init session schema: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes token and user together in one transaction so the caller
// never observes half a session.
func (s *Store) Save(token string, user *models.User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin session save: %w", err)
	}
	for _, row := range []struct{ key, value string }{
		{keyToken, token},
		{keyUser, string(encoded)},
	} {
		if _, err := tx.Exec(
			`INSERT INTO session (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			row.key, row.value,
		); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("save session %s: %w", row.key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session save: %w", err)
	}
	return nil
}

// SaveUser refreshes only the cached user snapshot, leaving the token
// untouched.
func (s *Store) SaveUser(user *models.User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if _, err := s.db.Exec(
		`INSERT INTO session (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		keyUser, string(encoded),
	); err != nil {
		return fmt.Errorf("save session user: %w", err)
	}
	return nil
}

// Clear removes both entries.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session WHERE key IN (?, ?)`, keyToken, keyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Read returns the stored session. Missing entries yield zero values, not
// an error.
func (s *Store) Read() (models.Session, error) {
	var out models.Session

	var token string
	err := s.db.Get(&token, `SELECT value FROM session WHERE key = ?`, keyToken)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return models.Session{}, fmt.Errorf("read session token: %w", err)
	default:
		out.Token = token
	}

	var encoded string
	err = s.db.Get(&encoded, `SELECT value FROM session WHERE key = ?`, keyUser)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return models.Session{}, fmt.Errorf("read session user: %w", err)
	default:
		var user models.User
		if err := json.Unmarshal([]byte(encoded), &user); err != nil {
			return models.Session{}, fmt.Errorf("decode session user: %w", err)
		}
		out.User = &user
	}

	return out, nil
}

// IsAuthenticated reports whether a token is stored.
func (s *Store) IsAuthenticated() bool {
	sess, err := s.Read()
	if err != nil {
		return false
	}
	return sess.Established()
}

// Token implements api.TokenSource. Read failures degrade to an empty
// credential so unauthenticated calls still go out.
func (s *Store) Token() string {
	sess, err := s.Read()
	if err != nil {
		return ""
	}
	return sess.Token
}
