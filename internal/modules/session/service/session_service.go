package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/oauth2"

	"chemviz/internal/modules/session/domain"
	sessionout "chemviz/internal/modules/session/port/out"
	"chemviz/internal/platform/clock"
	apperrors "chemviz/internal/platform/errors"
)

// SessionService owns the token. It is the only writer of the slot and
// doubles as the oauth2.TokenSource every authenticated request reads from.
type SessionService struct {
	clock clock.Clock
	slot  sessionout.TokenSlot
	auth  sessionout.Authenticator

	mu      sync.RWMutex
	current domain.Session
}

var _ oauth2.TokenSource = (*SessionService)(nil)

func NewSessionService(clock clock.Clock, slot sessionout.TokenSlot, auth sessionout.Authenticator) *SessionService {
	return &SessionService{clock: clock, slot: slot, auth: auth}
}

func (s *SessionService) Login(ctx context.Context, username, password string) (domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Session{}, fmt.Errorf("%w: username and password are required", apperrors.ErrAuthentication)
	}
	token, err := s.auth.ObtainToken(ctx, username, password)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %w", apperrors.ErrAuthentication, err)
	}
	if token == "" {
		return domain.Session{}, fmt.Errorf("%w: empty token", apperrors.ErrAuthentication)
	}
	session := domain.Session{Token: token, Username: username, IssuedAt: s.clock.Now()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.slot.Save(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("%w: persist token: %w", apperrors.ErrAuthentication, err)
	}
	s.current = session
	return session, nil
}

// Restore loads the slot without asking the server whether the token is
// still accepted. A revoked token surfaces on the next rejected request.
func (s *SessionService) Restore(ctx context.Context) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.slot.Load(ctx)
	if err != nil {
		s.current = domain.Session{}
		if errors.Is(err, apperrors.ErrNoSession) {
			return domain.Session{}, nil
		}
		return domain.Session{}, err
	}
	s.current = session
	return session, nil
}

func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = domain.Session{}
	return s.slot.Clear(ctx)
}

func (s *SessionService) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token implements oauth2.TokenSource.
func (s *SessionService) Token() (*oauth2.Token, error) {
	current := s.Current()
	if !current.Present() {
		return nil, apperrors.ErrNoSession
	}
	return &oauth2.Token{AccessToken: current.Token, TokenType: "Bearer"}, nil
}
