package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/nickpending/pullfeed/internal/db"
)

// buildViewStateString creates a formatted string showing current view state
func buildViewStateString(m Model) string {
	var states []string

	if m.sortByTime {
		states = append(states, "Sort: TIME")
	} else {
		states = append(states, "Sort: ID")
	}

	if m.unreadOnly {
		states = append(states, "View: UNREAD")
	} else {
		states = append(states, "View: ALL")
	}

	if m.pull.ctrl.IsEnabled() {
		states = append(states, "Pull: ON")
	} else {
		states = append(states, "Pull: OFF")
	}

	if m.filters > 0 {
		states = append(states, fmt.Sprintf("Filters: %d", m.filters))
	}

	if m.timeline != nil && !m.timeline.Online() {
		states = append(states, "OFFLINE")
	}

	return strings.Join(states, " | ")
}

// RenderTimeline renders the title bar, pull header, list or reader, and
// status line.
func RenderTimeline(m Model) string {
	if m.width == 0 {
		return "Loading..."
	}

	title := " PULLFEED"
	stateTime := fmt.Sprintf("%s  ◆ %s ", buildViewStateString(m), time.Now().Format("15:04"))
	spacing := "  "
	if gap := m.width - lipgloss.Width(title) - lipgloss.Width(stateTime); gap > 0 {
		spacing = strings.Repeat(" ", gap)
	}
	titleBar := RenderWithGradientBackground(title+spacing+stateTime, m.width, string(m.theme.Accent), string(m.theme.Accent2))

	header := m.pull.header.View()
	bodyHeight := m.listHeight() - m.pull.header.Height()

	var body string
	switch {
	case m.loading:
		body = lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true).Render("Loading timeline...")
	case m.err != nil:
		body = m.theme.ErrorStyle().Render(fmt.Sprintf("Error: %v", m.err))
	case m.view == "reader":
		body = renderReader(m)
	default:
		body = renderStatusList(m, m.width-2, bodyHeight)
	}
	body = lipgloss.NewStyle().
		Width(m.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Padding(0, 1).
		Render(body)

	parts := []string{titleBar}
	if header != "" {
		parts = append(parts, header)
	}
	parts = append(parts, body, renderStatusBar(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderStatusBar(m Model) string {
	if m.commandMode.IsActive() {
		return m.commandMode.View()
	}

	statusStyle := lipgloss.NewStyle().
		Background(m.theme.DarkGray).
		Foreground(m.theme.Gray).
		Width(m.width).
		Padding(0, 1)

	var text string
	switch {
	case m.statusMessage != "":
		text = lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true).Render(m.statusMessage)
	case m.view == "reader":
		text = "j/k:scroll  h/l:prev/next  esc:back  :command  Press ? for help"
	default:
		text = "j/k:navigate  enter:read  r:refresh  drag down:pull  :command  Press ? for help"
	}
	if m.busy() {
		text = m.spinner.View() + " " + text
	}
	return statusStyle.Render(text)
}

func renderReader(m Model) string {
	position := lipgloss.NewStyle().
		Foreground(m.theme.Gray).
		Render(fmt.Sprintf("STATUS %d of %d", m.cursor+1, len(m.statuses)))
	return position + "\n" + m.viewport.View()
}

func renderStatusList(m Model, width, height int) string {
	if len(m.statuses) == 0 {
		return lipgloss.NewStyle().
			Foreground(m.theme.Gray).
			Italic(true).
			Render("No statuses yet. Drag down or press r to refresh.")
	}

	rows := max(height/rowHeight, 1)
	end := min(m.offset+rows, len(m.statuses))
	now := time.Now()

	var lines []string
	for i := m.offset; i < end; i++ {
		line1, line2 := renderStatusRow(m.statuses[i], i == m.cursor, width, now, m.theme)
		lines = append(lines, line1, line2)
	}
	return strings.Join(lines, "\n")
}

// renderStatusRow renders a status as its text line and metadata line
func renderStatusRow(st db.Status, selected bool, width int, now time.Time, theme StyleTheme) (string, string) {
	var indicator string
	switch {
	case st.Favorited:
		indicator = lipgloss.NewStyle().Foreground(theme.Accent2).Render("♥")
	case st.Read:
		indicator = theme.MutedStyle().Render("✓")
	default:
		indicator = lipgloss.NewStyle().Foreground(theme.Accent).Render("●")
	}

	selector := "  "
	textStyle := theme.TextStyle()
	if selected {
		selector = theme.SelectedStyle().Render("▸ ")
		textStyle = theme.SelectedStyle()
	}
	if st.Read && !selected {
		textStyle = theme.MutedStyle()
	}

	name := "@" + st.ScreenName
	textWidth := width - lipgloss.Width(name) - 6
	line1 := fmt.Sprintf("%s%s %s %s",
		selector,
		indicator,
		theme.ScreenNameStyle().Render(name),
		textStyle.Render(truncate(oneLine(st.Text), textWidth)),
	)

	metaStyle := theme.MutedStyle()
	meta := []string{metaStyle.Render(formatAgo(now.Sub(st.CreatedAt)))}
	if st.IsRetweet() {
		meta = append(meta, theme.RetweetStyle().Render("↻ @"+st.RetweetedBy))
	}
	if st.RetweetCount > 0 {
		meta = append(meta, metaStyle.Render(fmt.Sprintf("%d RT", st.RetweetCount)))
	}
	if st.InReplyTo != "" {
		meta = append(meta, metaStyle.Render("↩ @"+st.InReplyTo))
	}
	if st.Gap {
		meta = append(meta, theme.GapStyle().Render("··· more below, enter to load"))
	}
	line2 := "     " + strings.Join(meta, metaStyle.Render(" | "))

	return line1, line2
}

// formatHistory renders refresh log entries for the history modal
func formatHistory(refreshes []db.Refresh, theme StyleTheme) string {
	if len(refreshes) == 0 {
		return theme.MutedStyle().Render("No refreshes yet")
	}

	var lines []string
	for _, r := range refreshes {
		var outcome string
		switch {
		case r.Running():
			outcome = lipgloss.NewStyle().Foreground(theme.Accent).Render("running")
		case r.Error != "":
			outcome = theme.ErrorStyle().Render("✗ " + truncate(r.Error, 30))
		default:
			outcome = lipgloss.NewStyle().Foreground(theme.Green).Render(fmt.Sprintf("✓ %d new", r.NewCount))
		}
		lines = append(lines, fmt.Sprintf("%s  %-7s %s",
			theme.MutedStyle().Render(r.StartedAt.Local().Format("01-02 15:04:05")),
			r.Trigger,
			outcome,
		))
	}
	return strings.Join(lines, "\n")
}
