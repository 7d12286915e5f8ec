package dashboard

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"careerdesk/internal/api"
	"careerdesk/internal/config"
	"careerdesk/internal/session"
	"careerdesk/internal/ux"
)

// newTestModel builds a dashboard wired to an unreachable backend with
// polling disabled. Tests drive the update loop directly and never run
// the returned commands unless they want real I/O.
func newTestModel(t *testing.T) Model {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Poll.Enabled = false

	sess := session.New(t.TempDir())
	prefs := ux.NewManager(t.TempDir())
	if err := prefs.Load(); err != nil {
		t.Fatalf("prefs load: %v", err)
	}

	m := New(Deps{
		Client:  api.New("http://127.0.0.1:1", time.Second, sess),
		Session: sess,
		Prefs:   prefs,
		Config:  cfg,
	})
	t.Cleanup(m.performShutdown)

	sized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return sized.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func testMessages() []api.Message {
	return []api.Message{
		{ID: "m1", Subject: "Quick intro", RecruiterName: "Dana at Google", Status: api.StatusDraft},
		{ID: "m2", Subject: "Follow up", RecruiterName: "Sam", Status: api.StatusReady},
		{ID: "m3", Subject: "Thanks for the Google referral", RecruiterName: "Lee", Status: api.StatusSent},
	}
}

// readyWithMessages puts the messages container in Ready with the
// given rows, the way a completed fetch would.
func readyWithMessages(t *testing.T, m Model, items []api.Message) Model {
	t.Helper()
	seq := m.messages.BeginLoad()
	updated, _ := m.Update(messagesMsg{seq: seq, items: items})
	return updated.(Model)
}
