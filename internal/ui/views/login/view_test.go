package login

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	sessiondto "chemviz/internal/modules/session/dto"
	apperrors "chemviz/internal/platform/errors"
)

type fakePort struct{}

func (fakePort) Login(_ context.Context, username, _ string) (sessiondto.SessionOutput, error) {
	return sessiondto.SessionOutput{Present: true, Username: username}, nil
}

func typed(m Model, s string) Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func enter(m Model) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestSubmitRequiresBothFields(t *testing.T) {
	t.Parallel()
	m := typed(New(fakePort{}), "ada")
	m, _ = enter(m) // moves to the password field
	m, cmd := enter(m)
	if cmd != nil || m.submitting {
		t.Fatal("empty password must not submit")
	}
	if !strings.Contains(m.View(), "Username and password are required") {
		t.Fatalf("expected required-fields message:\n%s", m.View())
	}

	m = typed(m, "secret")
	m, cmd = enter(m)
	if cmd == nil || !m.submitting {
		t.Fatal("filled form should submit")
	}
}

func TestInvalidCredentialsShownInline(t *testing.T) {
	t.Parallel()
	m := New(fakePort{})
	m.inputs[1].SetValue("wrong")
	m, _ = m.Update(LoggedInMsg{Err: apperrors.ErrAuthentication})

	if !strings.Contains(m.View(), "Invalid credentials") {
		t.Fatalf("expected inline error:\n%s", m.View())
	}
	if m.inputs[1].Value() != "" {
		t.Fatal("password should be cleared after a rejected login")
	}
	if m.focus != 1 {
		t.Fatalf("focus = %d, want password field", m.focus)
	}
}

func TestResetShowsNotice(t *testing.T) {
	t.Parallel()
	m := typed(New(fakePort{}), "ada")
	m, _ = m.Update(LoggedInMsg{Err: apperrors.ErrAuthentication})

	m, _ = m.Reset("Session expired, please log in again")
	view := m.View()
	if !strings.Contains(view, "Session expired, please log in again") {
		t.Fatalf("expected notice:\n%s", view)
	}
	if strings.Contains(view, "Invalid credentials") {
		t.Fatal("reset should drop the previous error")
	}
	if m.inputs[0].Value() != "" || m.focus != 0 {
		t.Fatal("reset should empty the form and focus the username")
	}
}
