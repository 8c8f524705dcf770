package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/pullfeed/internal/api"
	"github.com/nickpending/pullfeed/internal/service"
	"github.com/nickpending/pullfeed/internal/ui/operations"
)

// userSearch is the state behind the user search modal. One page is shown
// at a time; page counts from 1 and only advances when a page has results.
type userSearch struct {
	query     string
	page      int
	users     []api.User
	loading   bool
	exhausted bool // The page after this one came back empty
	err       string
}

// startSearch opens the modal and requests the first page.
func (m *Model) startSearch(query string) tea.Cmd {
	m.search = userSearch{query: query, loading: true}
	m.searchModal.SetTitle("USERS: " + truncate(query, 40))
	m.searchModal.SetContent(formatUsers(m.search, m.theme))
	m.searchModal.Show()
	return operations.SearchUsers(m.timeline, query, 1)
}

// turnSearchPage requests the page delta away from the current one.
func (m *Model) turnSearchPage(delta int) tea.Cmd {
	s := &m.search
	target := s.page + delta
	if s.loading || target < 1 || (delta > 0 && s.exhausted) {
		return nil
	}
	s.loading = true
	s.err = ""
	m.searchModal.SetContent(formatUsers(*s, m.theme))
	return operations.SearchUsers(m.timeline, s.query, target)
}

func (m *Model) usersFound(msg operations.UsersFoundMsg) {
	if msg.Query != m.search.query {
		return
	}
	s := &m.search
	s.loading = false

	switch {
	case errors.Is(msg.Error, service.ErrNoSource):
		s.err = "Offline: " + msg.Error.Error()
	case msg.Error != nil:
		s.err = fmt.Sprintf("Search failed: %v", msg.Error)
	case len(msg.Users) == 0:
		s.exhausted = true
	default:
		s.users = msg.Users
		s.page = msg.Page
		s.exhausted = false
	}
	m.searchModal.SetContent(formatUsers(*s, m.theme))
}

// handleSearchKey handles keys while the search modal is open.
func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "enter":
		m.searchModal.Hide()
	case "n", "l", "right":
		return m.turnSearchPage(1)
	case "p", "h", "left":
		return m.turnSearchPage(-1)
	}
	return nil
}

// formatUsers renders one page of search results
func formatUsers(s userSearch, theme StyleTheme) string {
	var lines []string
	for _, u := range s.users {
		line := theme.ScreenNameStyle().Render("@" + u.ScreenName)
		if u.Name != "" {
			line += " " + theme.TextStyle().Render(u.Name)
		}
		if u.FollowersCount > 0 {
			line += theme.MutedStyle().Render(fmt.Sprintf("  %d followers", u.FollowersCount))
		}
		lines = append(lines, line)
		if d := oneLine(u.Description); d != "" {
			lines = append(lines, "  "+theme.MutedStyle().Render(truncate(d, 50)))
		}
	}

	var footer string
	switch {
	case s.err != "":
		footer = theme.ErrorStyle().Render(s.err)
	case s.loading:
		footer = "Searching…"
	case len(s.users) == 0:
		footer = "No users found"
	case s.exhausted:
		footer = fmt.Sprintf("Page %d · no more results · p: previous", s.page)
	default:
		footer = fmt.Sprintf("Page %d · n: next · p: previous", s.page)
	}
	if s.err == "" {
		footer = theme.MutedStyle().Render(footer)
	}
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	lines = append(lines, footer)
	return strings.Join(lines, "\n")
}
