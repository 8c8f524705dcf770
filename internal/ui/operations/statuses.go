package operations

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/pullfeed/internal/db"
	"github.com/nickpending/pullfeed/internal/service"
)

// favoriteTimeout bounds the server round trip for a favorite toggle.
const favoriteTimeout = 10 * time.Second

// StatusMarkedMsg reports a read/unread toggle
type StatusMarkedMsg struct {
	ID    int64
	Read  bool
	Error error
}

// StatusFavoritedMsg reports a favorite toggle
type StatusFavoritedMsg struct {
	ID        int64
	Favorited bool
	Error     error
}

// ToggleRead flips the read flag of a status in the store
func ToggleRead(st db.Status) tea.Cmd {
	return func() tea.Msg {
		read := !st.Read
		err := db.MarkRead(st.ID, read)
		return StatusMarkedMsg{ID: st.ID, Read: read, Error: err}
	}
}

// MarkRead sets the read flag without toggling. Used when a status is opened.
func MarkRead(id int64) tea.Cmd {
	return func() tea.Msg {
		err := db.MarkRead(id, true)
		return StatusMarkedMsg{ID: id, Read: true, Error: err}
	}
}

// ToggleFavorite flips the favorite flag on the server and in the store
func ToggleFavorite(tl *service.Timeline, st db.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), favoriteTimeout)
		defer cancel()

		favorited := !st.Favorited
		err := tl.SetFavorite(ctx, st.ID, favorited)
		return StatusFavoritedMsg{ID: st.ID, Favorited: favorited, Error: err}
	}
}
