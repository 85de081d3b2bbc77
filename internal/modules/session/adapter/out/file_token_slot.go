package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"chemviz/internal/modules/session/domain"
	sessionout "chemviz/internal/modules/session/port/out"
	apperrors "chemviz/internal/platform/errors"
)

type FileTokenSlot struct {
	path string
}

func NewFileTokenSlot(stateDir string) sessionout.TokenSlot {
	return &FileTokenSlot{path: filepath.Join(stateDir, "session.json")}
}

func (s *FileTokenSlot) Save(_ context.Context, session domain.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	payload, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

func (s *FileTokenSlot) Load(_ context.Context) (domain.Session, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Session{}, apperrors.ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("read session: %w", err)
	}
	session := domain.Session{}
	if err := json.Unmarshal(payload, &session); err != nil {
		return domain.Session{}, fmt.Errorf("decode session: %w", err)
	}
	if !session.Present() {
		return domain.Session{}, apperrors.ErrNoSession
	}
	return session, nil
}

func (s *FileTokenSlot) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
