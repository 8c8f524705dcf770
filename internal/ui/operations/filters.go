package operations

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/pullfeed/internal/db"
)

// FilterChangedMsg reports an added or removed filter
type FilterChangedMsg struct {
	Message string
	Success bool
}

// FiltersListedMsg carries the active filters
type FiltersListedMsg struct {
	Filters []db.Filter
	Error   error
}

// HistoryLoadedMsg carries the most recent refresh log entries
type HistoryLoadedMsg struct {
	Refreshes []db.Refresh
	Error     error
}

// AddFilter hides a user or keyword from the timeline
func AddFilter(kind, value string) tea.Cmd {
	return func() tea.Msg {
		f, err := db.AddFilter(kind, value)
		if err != nil {
			return FilterChangedMsg{Message: fmt.Sprintf("✗ Filter failed: %v", err)}
		}
		return FilterChangedMsg{Message: fmt.Sprintf("✓ Filtering %s", f), Success: true}
	}
}

// RemoveFilter shows a previously filtered user or keyword again
func RemoveFilter(kind, value string) tea.Cmd {
	return func() tea.Msg {
		removed, err := db.RemoveFilter(kind, value)
		switch {
		case err != nil:
			return FilterChangedMsg{Message: fmt.Sprintf("✗ Unfilter failed: %v", err)}
		case !removed:
			return FilterChangedMsg{Message: fmt.Sprintf("No %s filter for '%s'", kind, value)}
		default:
			return FilterChangedMsg{Message: fmt.Sprintf("✓ Removed %s filter", kind), Success: true}
		}
	}
}

// ListFilters loads the active filters
func ListFilters() tea.Cmd {
	return func() tea.Msg {
		filters, err := db.ListFilters()
		return FiltersListedMsg{Filters: filters, Error: err}
	}
}

// LoadHistory loads the last n refreshes
func LoadHistory(n int) tea.Cmd {
	return func() tea.Msg {
		refreshes, err := db.RecentRefreshes(n)
		return HistoryLoadedMsg{Refreshes: refreshes, Error: err}
	}
}

// FormatFilters renders filters for the status bar
func FormatFilters(filters []db.Filter) string {
	if len(filters) == 0 {
		return "No filters"
	}
	parts := make([]string, len(filters))
	for i, f := range filters {
		parts[i] = f.String()
	}
	return "Filters: " + strings.Join(parts, ", ")
}
