package operations

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/pullfeed/internal/db"
	"github.com/nickpending/pullfeed/internal/service"
)

// fetchTimeout bounds one timeline fetch.
const fetchTimeout = 30 * time.Second

// Fetch kinds
const (
	FetchNewer = "newer"
	FetchOlder = "older"
	FetchGap   = "gap"
)

// FetchDoneMsg reports a finished timeline fetch
type FetchDoneMsg struct {
	Kind   string
	Result service.Result
	Error  error
}

// StatusesLoadedMsg carries the timeline read from the store
type StatusesLoadedMsg struct {
	Statuses []db.Status
	Error    error
	// TargetID is the status the cursor should land on, 0 for none
	TargetID int64
}

// FetchNewerStatuses loads statuses above the newest stored one.
// trigger is recorded in the refresh log ("pull", "manual", "auto").
func FetchNewerStatuses(tl *service.Timeline, trigger string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		res, err := tl.FetchNewer(ctx, trigger)
		return FetchDoneMsg{Kind: FetchNewer, Result: res, Error: err}
	}
}

// FetchOlderStatuses loads the page below the oldest stored status
func FetchOlderStatuses(tl *service.Timeline) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		res, err := tl.FetchOlder(ctx)
		return FetchDoneMsg{Kind: FetchOlder, Result: res, Error: err}
	}
}

// FillGap loads the statuses missing below gapID
func FillGap(tl *service.Timeline, gapID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		res, err := tl.FillGap(ctx, gapID)
		return FetchDoneMsg{Kind: FetchGap, Result: res, Error: err}
	}
}

// LoadStatuses reads the timeline from the store
func LoadStatuses(q db.TimelineQuery, targetID int64) tea.Cmd {
	return func() tea.Msg {
		statuses, err := db.GetTimeline(q)
		return StatusesLoadedMsg{Statuses: statuses, Error: err, TargetID: targetID}
	}
}

// SavePosition remembers the status under the cursor. Failures are only
// logged; a lost position costs a scroll.
func SavePosition(timeline string, statusID int64) tea.Cmd {
	return func() tea.Msg {
		if err := db.SavePosition(timeline, statusID); err != nil {
			slog.Warn("failed to save position", slog.String("timeline", timeline), slog.Any("error", err))
		}
		return nil
	}
}
