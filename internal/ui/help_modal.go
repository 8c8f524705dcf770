package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModal represents the help/keyboard shortcuts modal
type HelpModal struct {
	Modal  // Embed base modal
	width  int
	height int
	theme  StyleTheme
}

// NewHelpModal creates a new HelpModal instance
func NewHelpModal() HelpModal {
	return HelpModal{
		Modal: NewModal("", 80, 30), // Will be sized dynamically
		theme: CyanTheme,
	}
}

// SetSize updates the modal size based on terminal dimensions
func (m *HelpModal) SetSize(width, height int) {
	modalWidth := int(float64(width) * 0.75)
	modalHeight := height - 6

	// Minimum reasonable size
	modalWidth = max(modalWidth, 50)
	modalHeight = max(modalHeight, 20)

	// But don't exceed terminal size
	if modalWidth > width-4 {
		modalWidth = width - 4
	}

	m.width = modalWidth
	m.height = modalHeight
	m.Modal.width = modalWidth
	m.Modal.height = modalHeight
}

// Update handles input for the help modal
func (m HelpModal) Update(msg tea.Msg) (HelpModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "?":
			m.Hide()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	return m, nil
}

// View renders the help modal
func (m HelpModal) View() string {
	if !m.visible {
		return ""
	}

	theme := m.theme
	var content strings.Builder

	centered := func(text string, style lipgloss.Style) string {
		padding := max(0, (m.width-4-lipgloss.Width(text))/2)
		return style.Render(strings.Repeat(" ", padding) + text)
	}

	content.WriteString(centered("KEYBOARD SHORTCUTS", lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)))
	content.WriteString("\n\n")
	content.WriteString(centered("Drag the timeline down from the top with the mouse to refresh.",
		lipgloss.NewStyle().Foreground(theme.Gray).Italic(true)))
	content.WriteString("\n\n")

	sectionStyle := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)
	keyStyle := lipgloss.NewStyle().
		Foreground(theme.Purple).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(theme.White)

	formatCmd := func(key, desc string) string {
		keyPadded := keyStyle.Render(key) + strings.Repeat(" ", max(0, 18-lipgloss.Width(key)))
		return "  " + keyPadded + descStyle.Render(desc)
	}

	// Two columns only if we have enough width
	format2Col := func(key1, desc1, key2, desc2 string) string {
		if m.width > 70 {
			col1 := formatCmd(key1, desc1)
			spacing := max(2, (m.width/2)-lipgloss.Width(col1))
			return col1 + strings.Repeat(" ", spacing) + formatCmd(key2, desc2)
		}
		return formatCmd(key1, desc1) + "\n" + formatCmd(key2, desc2)
	}

	sectionHeader := func(title string) string {
		headerText := "── " + title + " "
		remainingWidth := max(0, m.width-8-lipgloss.Width(headerText))
		return sectionStyle.Render(headerText + strings.Repeat("─", remainingWidth))
	}

	sections := []struct {
		title string
		rows  [][4]string
	}{
		{"TIMELINE", [][4]string{
			{"j/↓", "Move down", "g", "Jump to newest"},
			{"k/↑", "Move up", "G", "Jump to oldest (loads more)"},
			{"Enter", "Read status / load gap", "r", "Refresh"},
			{"u", "Toggle unread only", "s", "Toggle time/id sort"},
		}},
		{"READER", [][4]string{
			{"h/←", "Previous status", "j/↓", "Scroll down"},
			{"l/→", "Next status", "k/↑", "Scroll up"},
			{"Space", "Page down", "ESC/q", "Back to timeline"},
		}},
		{"COMMAND MODE (:)", [][4]string{
			{":refresh", "Fetch newer statuses", ":more", "Fetch older statuses"},
			{":gap", "Load the gap at cursor", ":top", "Jump to newest"},
			{":mark", "Toggle read", ":favorite", "Toggle favorite"},
			{":open", "Open in browser", ":yank", "Copy URL"},
			{":copy [text|url]", "Copy status", ":theme [name]", "Cycle or pick theme"},
			{":filter user <u>", "Hide a user", ":filter keyword <k>", "Hide a keyword"},
			{":unfilter ...", "Remove a filter", ":filters", "List filters"},
			{":sort time|id", "Order timeline", ":unread", "Toggle unread only"},
			{":pull [on|off]", "Pull to refresh", ":history", "Recent refreshes"},
			{":search <query>", "Find users (n/p pages)", "", ""},
		}},
	}

	for _, section := range sections {
		content.WriteString(sectionHeader(section.title))
		content.WriteString("\n")
		for _, row := range section.rows {
			content.WriteString(format2Col(row[0], row[1], row[2], row[3]))
			content.WriteString("\n")
		}
		content.WriteString("\n")
	}

	content.WriteString(formatCmd("q / :quit", "Quit application"))
	content.WriteString("\n\n")
	content.WriteString(centered("Press ESC or ? to close", lipgloss.NewStyle().Foreground(theme.Gray).Italic(true)))

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Width(m.width).
		Height(m.height).
		Padding(1, 2).
		Align(lipgloss.Left)

	return modalStyle.Render(content.String())
}

// ViewWithOverlay renders the modal over a dimmed background
func (m HelpModal) ViewWithOverlay(backgroundView string, width, height int) string {
	if !m.visible {
		return backgroundView
	}
	return overlay(backgroundView, m.View(), m.width+4, width, height)
}
