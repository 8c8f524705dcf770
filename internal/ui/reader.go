package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/nickpending/pullfeed/internal/db"
	"github.com/nickpending/pullfeed/internal/ui/operations"
)

// Rows above the reader viewport: the "STATUS i of n" line.
const readerChrome = 1

// statusMarkdown formats a status for the reader
func statusMarkdown(st db.Status, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## @%s", st.ScreenName)
	if st.Name != "" {
		fmt.Fprintf(&b, " (%s)", st.Name)
	}
	b.WriteString("\n\n")

	if st.InReplyTo != "" {
		fmt.Fprintf(&b, "*in reply to @%s*\n\n", st.InReplyTo)
	}

	b.WriteString(st.Text)
	b.WriteString("\n\n---\n\n")

	meta := []string{st.CreatedAt.Local().Format("2006-01-02 15:04") + " (" + formatAgo(now.Sub(st.CreatedAt)) + " ago)"}
	if st.IsRetweet() {
		meta = append(meta, "retweeted by @"+st.RetweetedBy)
	}
	if st.RetweetCount > 0 {
		meta = append(meta, fmt.Sprintf("%d retweets", st.RetweetCount))
	}
	if st.Favorited {
		meta = append(meta, "**♥ favorited**")
	}
	b.WriteString(strings.Join(meta, " · "))
	b.WriteString("\n")

	if st.URL != "" {
		fmt.Fprintf(&b, "\n<%s>\n", st.URL)
	}
	return b.String()
}

// renderMarkdown renders md with the theme's glamour style, falling back
// to the raw text if glamour fails.
func renderMarkdown(md string, width int, theme StyleTheme) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(theme.ToGlamourStyle()),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		slog.Debug("glamour renderer unavailable", slog.Any("error", err))
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		slog.Debug("glamour render failed", slog.Any("error", err))
		return md
	}
	return out
}

// resizeReader fits the viewport to the terminal
func (m *Model) resizeReader() {
	m.viewport.Width = max(m.width-4, 20)
	m.viewport.Height = max(m.listHeight()-readerChrome, 1)
}

// updateReaderContent renders the selected status into the viewport
func (m *Model) updateReaderContent() {
	st, ok := m.selected()
	if !ok {
		m.viewport.SetContent("No status selected")
		return
	}
	m.resizeReader()
	m.viewport.SetContent(renderMarkdown(statusMarkdown(st, time.Now()), m.viewport.Width, m.theme))
	m.viewport.GotoTop()
}

// openReader shows the selected status and marks it read
func (m *Model) openReader() tea.Cmd {
	m.updateReaderContent()
	st, ok := m.selected()
	if !ok || st.Read {
		return nil
	}
	return operations.MarkRead(st.ID)
}
