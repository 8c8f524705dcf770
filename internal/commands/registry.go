package commands

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// CommandFunc is a function that executes a command
type CommandFunc func(args []string) tea.Cmd

// Registry holds all available commands
type Registry struct {
	commands map[string]CommandFunc
}

// NewRegistry creates a new command registry with built-in commands
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]CommandFunc),
	}

	// Register built-in commands (vim-style: full names only, completion handles prefixes)
	r.Register("quit", cmdQuit)
	r.Register("refresh", cmdRefresh)
	r.Register("more", cmdMore)
	r.Register("gap", cmdGap)
	r.Register("top", cmdTop)
	r.Register("help", cmdHelp)
	r.Register("history", cmdHistory)

	// Status actions
	r.Register("mark", cmdMark)
	r.Register("favorite", cmdFavorite)
	r.Register("open", cmdOpen)
	r.Register("yank", cmdYank)
	r.Register("copy", cmdCopy)

	// Timeline shaping
	r.Register("filter", cmdFilter)
	r.Register("unfilter", cmdUnfilter)
	r.Register("filters", cmdFilters)
	r.Register("sort", cmdSort)
	r.Register("unread", cmdUnread)
	r.Register("search", cmdSearch)

	r.Register("pull", cmdPull)
	r.Register("theme", cmdTheme)

	return r
}

// Register adds a command to the registry
func (r *Registry) Register(name string, fn CommandFunc) {
	r.commands[name] = fn
}

// Execute runs a command by name with arguments
func (r *Registry) Execute(name string, args []string) tea.Cmd {
	// First try exact match
	if fn, ok := r.commands[name]; ok {
		return fn(args)
	}

	// Then try prefix matching (vim-style)
	var matches []string
	var matchedFn CommandFunc
	lowerName := strings.ToLower(name)

	for cmdName, fn := range r.commands {
		if strings.HasPrefix(strings.ToLower(cmdName), lowerName) {
			matches = append(matches, cmdName)
			matchedFn = fn
		}
	}

	if len(matches) == 1 {
		return matchedFn(args)
	}

	if len(matches) > 1 {
		sort.Strings(matches)
		return showError(fmt.Sprintf("Ambiguous command '%s': %s", name, strings.Join(matches, ", ")))
	}

	return showError(fmt.Sprintf("Unknown command: %s", name))
}

// GetCommands returns all registered command names, sorted
func (r *Registry) GetCommands() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Built-in command implementations

func cmdQuit(args []string) tea.Cmd {
	return tea.Quit
}

// cmdRefresh fetches newer statuses, showing the pull header
func cmdRefresh(args []string) tea.Cmd {
	return msgCmd(RefreshMsg{})
}

// cmdMore fetches statuses below the oldest one
func cmdMore(args []string) tea.Cmd {
	return msgCmd(MoreMsg{})
}

// cmdGap fills the gap at the cursor
func cmdGap(args []string) tea.Cmd {
	return msgCmd(GapMsg{})
}

func cmdTop(args []string) tea.Cmd {
	return msgCmd(TopMsg{})
}

func cmdHelp(args []string) tea.Cmd {
	return msgCmd(HelpMsg{})
}

// cmdHistory shows recent refreshes
func cmdHistory(args []string) tea.Cmd {
	return msgCmd(HistoryMsg{})
}

// cmdMark toggles read/unread status of the selected status
func cmdMark(args []string) tea.Cmd {
	return msgCmd(MarkMsg{})
}

// cmdFavorite toggles favorite status of the selected status
func cmdFavorite(args []string) tea.Cmd {
	return msgCmd(FavoriteMsg{})
}

// cmdOpen opens the selected status URL in the browser
func cmdOpen(args []string) tea.Cmd {
	return msgCmd(OpenMsg{})
}

// cmdYank copies the selected status URL to the clipboard
func cmdYank(args []string) tea.Cmd {
	return msgCmd(YankMsg{})
}

// cmdCopy copies the selected status to the clipboard
func cmdCopy(args []string) tea.Cmd {
	return func() tea.Msg {
		// "text" (default) or "url"
		target := "text"
		if len(args) > 0 {
			target = args[0]
		}
		if target != "text" && target != "url" {
			return ErrorMsg{Message: fmt.Sprintf("copy: unknown target '%s' (use text or url)", target)}
		}
		return CopyMsg{Target: target}
	}
}

func cmdFilter(args []string) tea.Cmd {
	return filterCmd("filter", args, false)
}

func cmdUnfilter(args []string) tea.Cmd {
	return filterCmd("unfilter", args, true)
}

// filterCmd parses "<user|keyword> <value...>"
func filterCmd(name string, args []string, remove bool) tea.Cmd {
	return func() tea.Msg {
		if len(args) < 2 {
			return ErrorMsg{Message: fmt.Sprintf("%s: usage :%s user|keyword <value>", name, name)}
		}
		kind := args[0]
		if kind != "user" && kind != "keyword" {
			return ErrorMsg{Message: fmt.Sprintf("%s: unknown kind '%s' (use user or keyword)", name, kind)}
		}
		return FilterMsg{
			Kind:   kind,
			Value:  strings.Join(args[1:], " "),
			Remove: remove,
		}
	}
}

func cmdFilters(args []string) tea.Cmd {
	return msgCmd(ListFiltersMsg{})
}

// cmdSort switches between id and time ordering
func cmdSort(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return ErrorMsg{Message: "sort: time or id required"}
		}
		switch args[0] {
		case "time":
			return SortMsg{ByTime: true}
		case "id":
			return SortMsg{ByTime: false}
		default:
			return ErrorMsg{Message: fmt.Sprintf("sort: unknown order '%s' (use time or id)", args[0])}
		}
	}
}

// cmdUnread toggles hiding read statuses
func cmdUnread(args []string) tea.Cmd {
	return msgCmd(UnreadMsg{})
}

// cmdSearch looks up users; the query may span several words
func cmdSearch(args []string) tea.Cmd {
	return func() tea.Msg {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return ErrorMsg{Message: "search: usage :search <query>"}
		}
		return SearchMsg{Query: query}
	}
}

// cmdPull enables or disables pull-to-refresh; no argument toggles
func cmdPull(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return PullMsg{Toggle: true}
		}
		switch args[0] {
		case "on":
			return PullMsg{Enabled: true}
		case "off":
			return PullMsg{Enabled: false}
		default:
			return ErrorMsg{Message: fmt.Sprintf("pull: expected on or off, got '%s'", args[0])}
		}
	}
}

// cmdTheme cycles themes or selects one by name
func cmdTheme(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) > 0 {
			return ThemeMsg{Name: args[0]}
		}
		return ThemeMsg{}
	}
}

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// showError returns a command that shows an error message
func showError(msg string) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Message: msg}
	}
}

// Message types for commands

// RefreshMsg asks for newer statuses
type RefreshMsg struct{}

// MoreMsg asks for older statuses
type MoreMsg struct{}

// GapMsg asks to fill the gap at the cursor
type GapMsg struct{}

// TopMsg scrolls the timeline to the newest status
type TopMsg struct{}

// ErrorMsg contains an error message to display
type ErrorMsg struct {
	Message string
}

// HelpMsg signals to show the help modal
type HelpMsg struct{}

// HistoryMsg signals to show the refresh log
type HistoryMsg struct{}

// MarkMsg signals to toggle read/unread status
type MarkMsg struct{}

// FavoriteMsg signals to toggle favorite status
type FavoriteMsg struct{}

// OpenMsg signals to open URL in browser
type OpenMsg struct{}

// YankMsg signals to copy URL to clipboard
type YankMsg struct{}

// CopyMsg signals to copy status content to clipboard
type CopyMsg struct {
	Target string // "text" or "url"
}

// FilterMsg adds or removes a timeline filter
type FilterMsg struct {
	Kind   string // "user" or "keyword"
	Value  string
	Remove bool
}

// ListFiltersMsg signals to show active filters
type ListFiltersMsg struct{}

// SortMsg changes timeline ordering
type SortMsg struct {
	ByTime bool
}

// UnreadMsg toggles the unread-only view
type UnreadMsg struct{}

// SearchMsg starts a user search
type SearchMsg struct {
	Query string
}

// PullMsg enables or disables pull-to-refresh
type PullMsg struct {
	Enabled bool
	Toggle  bool
}

// ThemeMsg cycles or selects a theme
type ThemeMsg struct {
	Name string // Empty cycles to the next theme
}
