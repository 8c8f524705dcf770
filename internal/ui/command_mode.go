package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nickpending/pullfeed/internal/commands"
)

const maxCommandHistory = 100

// CommandMode is the ":" command line at the bottom of the screen.
type CommandMode struct {
	active   bool
	input    textinput.Model
	registry *commands.Registry
	theme    StyleTheme
	width    int
	error    string // Shown instead of the prompt until a key or timeout

	history []string
	recall  int // Index into history while browsing with up/down

	// Tab completion state
	matches []string
	next    int    // Match the next tab applies
	stem    string // Text the matches were computed from
}

// clearErrorMsg hides a command error once it has been on screen long enough
type clearErrorMsg struct{}

// NewCommandMode creates an inactive command line bound to the built-in commands
func NewCommandMode() CommandMode {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	ti.Prompt = ":"

	return CommandMode{
		input:    ti,
		registry: commands.NewRegistry(),
		theme:    CyanTheme,
		width:    80,
		history:  make([]string, 0, maxCommandHistory),
		recall:   -1,
	}
}

func (c *CommandMode) SetWidth(width int) {
	c.width = width
	c.input.Width = width - 4
}

func (c *CommandMode) SetTheme(theme StyleTheme) {
	c.theme = theme
}

// Show opens an empty command line.
func (c *CommandMode) Show() {
	c.reset()
	c.active = true
	c.input.Focus()
	c.recall = len(c.history)
}

// Hide closes the command line and discards any input.
func (c *CommandMode) Hide() {
	c.reset()
	c.active = false
	c.input.Blur()
	c.recall = -1
}

func (c *CommandMode) reset() {
	c.input.SetValue("")
	c.error = ""
	c.resetCompletion()
}

func (c *CommandMode) resetCompletion() {
	c.matches = nil
	c.next = 0
	c.stem = ""
}

func (c CommandMode) IsActive() bool {
	return c.active
}

// SetError replaces the prompt with err for a couple of seconds.
func (c *CommandMode) SetError(err string) tea.Cmd {
	c.error = err
	c.active = true
	c.input.Blur()

	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

// Update handles input while the command line is open.
func (c *CommandMode) Update(msg tea.Msg) (CommandMode, tea.Cmd) {
	if !c.active {
		return *c, nil
	}

	switch msg := msg.(type) {
	case clearErrorMsg:
		c.Hide()
		return *c, nil

	case tea.KeyMsg:
		if c.error != "" {
			c.Hide()
			return *c, nil
		}

		switch msg.Type {
		case tea.KeyEscape, tea.KeyCtrlC:
			c.Hide()
			return *c, nil
		case tea.KeyEnter:
			return *c, c.execute()
		case tea.KeyUp:
			c.browse(-1)
			return *c, nil
		case tea.KeyDown:
			c.browse(1)
			return *c, nil
		case tea.KeyTab:
			c.complete()
			return *c, nil
		case tea.KeyBackspace:
			if c.input.Value() == "" {
				c.Hide()
				return *c, nil
			}
		}
	}

	before := c.input.Value()
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	if c.input.Value() != before {
		c.resetCompletion()
	}
	return *c, cmd
}

// execute runs the typed line through the registry and closes the prompt.
func (c *CommandMode) execute() tea.Cmd {
	line := strings.TrimSpace(c.input.Value())
	if line != "" {
		c.remember(line)
	}
	c.Hide()

	parts := splitCommandLine(line)
	if len(parts) == 0 {
		return nil
	}
	return c.registry.Execute(parts[0], parts[1:])
}

// browse steps through history; stepping past the newest entry clears the line.
func (c *CommandMode) browse(delta int) {
	i := c.recall + delta
	switch {
	case i < 0:
		return
	case i >= len(c.history):
		if c.recall == len(c.history)-1 {
			c.recall = len(c.history)
			c.input.SetValue("")
		}
		return
	}
	c.recall = i
	c.input.SetValue(c.history[i])
	c.input.CursorEnd()
}

// complete applies the next completion, cycling while the line still holds
// the previously applied match.
func (c *CommandMode) complete() {
	current := c.input.Value()
	if current == "" {
		return
	}

	cycling := len(c.matches) > 0 && current == c.matches[(c.next+len(c.matches)-1)%len(c.matches)]
	if !cycling {
		c.stem = current
		c.matches = c.Complete(current)
		c.next = 0
		if len(c.matches) == 0 {
			return
		}
	}

	c.input.SetValue(c.matches[c.next])
	c.input.CursorEnd()
	c.next = (c.next + 1) % len(c.matches)
}

func (c *CommandMode) remember(line string) {
	if n := len(c.history); n > 0 && c.history[n-1] == line {
		return
	}
	if len(c.history) >= maxCommandHistory {
		c.history = c.history[1:]
	}
	c.history = append(c.history, line)
}

func (c CommandMode) View() string {
	if !c.active {
		return ""
	}

	style := lipgloss.NewStyle().Width(c.width).Padding(0, 1)
	if c.error != "" {
		return style.Foreground(c.theme.Red).Render(c.error)
	}

	content := c.input.View()
	if len(c.matches) > 1 {
		// next already points past the applied match
		pos := c.next
		if pos == 0 {
			pos = len(c.matches)
		}
		content += fmt.Sprintf(" [%d/%d]", pos, len(c.matches))
	}
	return style.Foreground(c.theme.Accent).Render(content)
}

// Complete lists completions for prefix: command names, or the first
// argument once a command that takes one is followed by a space.
func (c *CommandMode) Complete(prefix string) []string {
	if c.registry == nil {
		return nil
	}

	if name, arg, ok := strings.Cut(prefix, " "); ok {
		choices, known := argCompletions[strings.ToLower(name)]
		if !known || strings.Contains(arg, " ") {
			return nil
		}
		return withPrefix(choices, arg, name+" ")
	}
	return withPrefix(c.registry.GetCommands(), prefix, "")
}

// withPrefix returns lead+choice for every choice starting with prefix, ignoring case.
func withPrefix(choices []string, prefix, lead string) []string {
	prefix = strings.ToLower(prefix)
	var out []string
	for _, choice := range choices {
		if strings.HasPrefix(strings.ToLower(choice), prefix) {
			out = append(out, lead+choice)
		}
	}
	return out
}

var argCompletions = map[string][]string{
	"copy":     {"text", "url"},
	"filter":   {"keyword", "user"},
	"unfilter": {"keyword", "user"},
	"pull":     {"off", "on"},
	"sort":     {"id", "time"},
	"theme":    {"cyan", "light", "monokai"},
}

// splitCommandLine splits on spaces, keeping "quoted words" together.
// A backslash makes the next character literal.
func splitCommandLine(line string) []string {
	var (
		args    []string
		word    strings.Builder
		inWord  bool
		quoted  bool
		escaped bool
	)

	flush := func() {
		if inWord {
			args = append(args, word.String())
			word.Reset()
			inWord = false
		}
	}

	for _, r := range line {
		switch {
		case escaped:
			word.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
			inWord = true
		case r == '"':
			quoted = !quoted
			inWord = true
		case r == ' ' && !quoted:
			flush()
		default:
			word.WriteRune(r)
			inWord = true
		}
	}
	flush()
	return args
}
