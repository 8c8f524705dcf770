package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Modal is a titled box drawn over a blanked timeline
type Modal struct {
	title   string
	width   int
	height  int
	content string
	visible bool
}

// NewModal creates a hidden modal
func NewModal(title string, width, height int) Modal {
	return Modal{
		title:  title,
		width:  width,
		height: height,
	}
}

func (m *Modal) Show() {
	m.visible = true
}

func (m *Modal) Hide() {
	m.visible = false
}

func (m Modal) IsVisible() bool {
	return m.visible
}

func (m *Modal) SetTitle(title string) {
	m.title = title
}

func (m *Modal) SetContent(content string) {
	m.content = content
}

// View renders the modal if visible
func (m Modal) View(theme StyleTheme) string {
	if !m.visible {
		return ""
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Width(m.width).
		Height(m.height).
		Padding(1, 2)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Accent).
		MarginBottom(1)

	var fullContent strings.Builder
	if m.title != "" {
		fullContent.WriteString(titleStyle.Render(m.title))
		fullContent.WriteString("\n")
	}
	fullContent.WriteString(m.content)
	fullContent.WriteString("\n\n")
	fullContent.WriteString(theme.MutedStyle().Italic(true).Render("Press ESC to close"))

	return modalStyle.Render(fullContent.String())
}

// ViewWithOverlay renders the modal centered over backgroundView, keeping
// only its title bar
func (m Modal) ViewWithOverlay(backgroundView string, termWidth, termHeight int, theme StyleTheme) string {
	if !m.visible {
		return backgroundView
	}
	return overlay(backgroundView, m.View(theme), m.width+4, termWidth, termHeight)
}

// overlay blanks every background line but the first and places box in
// the middle of the terminal.
func overlay(backgroundView, box string, boxWidth, termWidth, termHeight int) string {
	bgLines := strings.Split(backgroundView, "\n")
	for i := 1; i < len(bgLines); i++ {
		bgLines[i] = strings.Repeat(" ", termWidth)
	}
	if box == "" {
		return strings.Join(bgLines, "\n")
	}

	boxLines := strings.Split(box, "\n")
	startY := max(0, (termHeight-len(boxLines))/2)
	startX := max(0, (termWidth-boxWidth)/2)

	result := make([]string, max(len(bgLines), startY+len(boxLines)))
	copy(result, bgLines)

	padding := strings.Repeat(" ", startX)
	for i, line := range boxLines {
		result[startY+i] = padding + line
	}
	return strings.Join(result, "\n")
}
