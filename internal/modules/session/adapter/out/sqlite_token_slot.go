package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"chemviz/internal/modules/session/domain"
	sessionout "chemviz/internal/modules/session/port/out"
	apperrors "chemviz/internal/platform/errors"

	_ "modernc.org/sqlite"
)

// SQLiteTokenSlot keeps the session in a kv table under domain.SlotKey.
type SQLiteTokenSlot struct {
	db *sql.DB
}

func NewSQLiteTokenSlot(dbPath string) (*SQLiteTokenSlot, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	slot := &SQLiteTokenSlot{db: db}
	if err := slot.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return slot, nil
}

var _ sessionout.TokenSlot = (*SQLiteTokenSlot)(nil)

func (s *SQLiteTokenSlot) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}
	return nil
}

func (s *SQLiteTokenSlot) Save(ctx context.Context, session domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	const stmt = `
INSERT INTO kv (key, value)
VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value;
`
	if _, err := s.db.ExecContext(ctx, stmt, domain.SlotKey, string(payload)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SQLiteTokenSlot) Load(ctx context.Context) (domain.Session, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, domain.SlotKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, apperrors.ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}
	session := domain.Session{}
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return domain.Session{}, fmt.Errorf("decode session: %w", err)
	}
	if !session.Present() {
		return domain.Session{}, apperrors.ErrNoSession
	}
	return session, nil
}

func (s *SQLiteTokenSlot) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, domain.SlotKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SQLiteTokenSlot) Close() error {
	return s.db.Close()
}
