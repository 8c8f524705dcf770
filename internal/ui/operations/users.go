package operations

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/pullfeed/internal/api"
	"github.com/nickpending/pullfeed/internal/service"
)

// UsersFoundMsg carries one page of user search results
type UsersFoundMsg struct {
	Query string
	Page  int
	Users []api.User
	Error error
}

// SearchUsers fetches page of the users matching query
func SearchUsers(tl *service.Timeline, query string, page int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		users, err := tl.SearchUsers(ctx, query, page)
		return UsersFoundMsg{Query: query, Page: page, Users: users, Error: err}
	}
}
