package ui

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/pullfeed/internal/config"
	"github.com/nickpending/pullfeed/internal/db"
	"github.com/nickpending/pullfeed/internal/service"
)

// testModel creates a sized Model with an offline timeline. Header
// transitions are instant so pull tests need no scheduler ticks.
func testModel(t *testing.T) Model {
	t.Helper()

	cfg := config.Default()
	cfg.Pull.HeaderIn = "none"
	cfg.Pull.HeaderOut = "none"

	m, err := NewModel(cfg, service.NewTimeline(nil, 50, "test"))
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	m.width = 100
	m.height = 40
	m.loading = false
	m.resizeReader()
	return m
}

// testModelWithStatuses creates a Model showing n statuses, newest first
func testModelWithStatuses(t *testing.T, n int) Model {
	t.Helper()
	m := testModel(t)
	m.statuses = testStatuses(n)
	return m
}

func testStatuses(n int) []db.Status {
	now := time.Now()
	statuses := make([]db.Status, n)
	for i := range statuses {
		statuses[i] = db.Status{
			ID:         int64(100 - i),
			ScreenName: fmt.Sprintf("user%d", i),
			Text:       fmt.Sprintf("status number %d", i),
			URL:        fmt.Sprintf("https://example.com/status/%d", 100-i),
			CreatedAt:  now.Add(-time.Duration(i) * time.Minute),
		}
	}
	return statuses
}

// send runs msg through Update and returns the new model
func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(y int) tea.MouseMsg {
	return tea.MouseMsg{Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func drag(y int) tea.MouseMsg {
	return tea.MouseMsg{Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(y int) tea.MouseMsg {
	return tea.MouseMsg{Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}
