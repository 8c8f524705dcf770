// Package service orchestrates timeline fetches between the API and the
// local store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nickpending/pullfeed/internal/api"
	"github.com/nickpending/pullfeed/internal/db"
)

// ErrNoSource is returned when no timeline server is configured.
var ErrNoSource = errors.New("no timeline server configured (set [api].key)")

// ErrEmptyQuery is returned for a blank user search.
var ErrEmptyQuery = errors.New("search query is empty")

// Source is the remote side of the timeline.
type Source interface {
	HomeTimeline(ctx context.Context, q api.TimelineQuery) ([]api.Status, error)
	SetFavorite(ctx context.Context, id int64, favorited bool) error
	SearchUsers(ctx context.Context, query string, page int) ([]api.User, error)
}

// Result describes one completed fetch.
type Result struct {
	Trigger   string
	RefreshID string
	Fetched   int
	New       int
	Gap       bool // A gap was left below the fetched page
}

// Timeline fetches statuses into the store.
type Timeline struct {
	src      Source
	pageSize int
	account  string
}

// NewTimeline creates a service. A nil src yields ErrNoSource from every
// fetch, leaving the stored timeline browsable offline.
func NewTimeline(src Source, pageSize int, account string) *Timeline {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Timeline{src: src, pageSize: pageSize, account: account}
}

// Online reports whether a source is configured.
func (t *Timeline) Online() bool { return t.src != nil }

// FetchNewer loads statuses newer than the newest stored one. When a full
// page comes back the oldest of them is marked as a gap.
func (t *Timeline) FetchNewer(ctx context.Context, trigger string) (Result, error) {
	return t.record(trigger, func() (Result, error) {
		since, err := db.NewestStatusID()
		if err != nil {
			return Result{}, err
		}

		res, page, err := t.fetch(ctx, api.TimelineQuery{SinceID: since, Count: t.pageSize})
		if err != nil {
			return res, err
		}
		if since > 0 && len(page) == t.pageSize {
			if err := t.markGap(page); err != nil {
				return res, err
			}
			res.Gap = true
		}
		return res, nil
	})
}

// FetchOlder loads the page below the oldest stored status.
func (t *Timeline) FetchOlder(ctx context.Context) (Result, error) {
	return t.record("more", func() (Result, error) {
		oldest, err := db.OldestStatusID()
		if err != nil {
			return Result{}, err
		}

		q := api.TimelineQuery{Count: t.pageSize}
		if oldest > 0 {
			q.MaxID = oldest - 1
		}
		res, _, err := t.fetch(ctx, q)
		return res, err
	})
}

// FillGap loads the page below the gap status gapID and clears its marker.
// If that page is full and entirely new, the gap moves down to its oldest
// status.
func (t *Timeline) FillGap(ctx context.Context, gapID int64) (Result, error) {
	return t.record("gap", func() (Result, error) {
		res, page, err := t.fetch(ctx, api.TimelineQuery{MaxID: gapID - 1, Count: t.pageSize})
		if err != nil {
			return res, err
		}
		if err := db.SetGap(gapID, false); err != nil {
			return res, err
		}
		if len(page) == t.pageSize && res.New == len(page) {
			if err := t.markGap(page); err != nil {
				return res, err
			}
			res.Gap = true
		}
		return res, nil
	})
}

// SetFavorite updates the server and then the store.
func (t *Timeline) SetFavorite(ctx context.Context, id int64, favorited bool) error {
	if t.src == nil {
		return ErrNoSource
	}
	if err := t.src.SetFavorite(ctx, id, favorited); err != nil {
		return fmt.Errorf("failed to set favorite: %w", err)
	}
	if err := db.SetFavorite(id, favorited); err != nil {
		return fmt.Errorf("failed to store favorite: %w", err)
	}
	return nil
}

// SearchUsers returns one page of users matching query. Pages start at 1.
// Results are not stored.
func (t *Timeline) SearchUsers(ctx context.Context, query string, page int) ([]api.User, error) {
	if t.src == nil {
		return nil, ErrNoSource
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	page = max(page, 1)

	users, err := t.src.SearchUsers(ctx, query, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	slog.Debug("user search", slog.String("query", query), slog.Int("page", page), slog.Int("results", len(users)))
	return users, nil
}

func (t *Timeline) fetch(ctx context.Context, q api.TimelineQuery) (Result, []api.Status, error) {
	if t.src == nil {
		return Result{}, nil, ErrNoSource
	}

	page, err := t.src.HomeTimeline(ctx, q)
	if err != nil {
		return Result{}, nil, fmt.Errorf("failed to fetch timeline: %w", err)
	}

	inserted, err := db.UpsertStatuses(t.toStatuses(page))
	if err != nil {
		return Result{}, nil, fmt.Errorf("failed to store timeline: %w", err)
	}
	return Result{Fetched: len(page), New: inserted}, page, nil
}

func (t *Timeline) markGap(page []api.Status) error {
	oldest := page[0].ID
	for _, st := range page[1:] {
		oldest = min(oldest, st.ID)
	}
	if err := db.SetGap(oldest, true); err != nil {
		return fmt.Errorf("failed to mark gap: %w", err)
	}
	return nil
}

// record wraps fn in a refresh log entry. Log failures never mask the
// fetch result.
func (t *Timeline) record(trigger string, fn func() (Result, error)) (Result, error) {
	id, logErr := db.BeginRefresh(trigger)
	if logErr != nil {
		slog.Warn("failed to record refresh start", "trigger", trigger, slog.Any("error", logErr))
	}

	res, err := fn()
	res.Trigger = trigger
	res.RefreshID = id

	if id != "" {
		if logErr := db.FinishRefresh(id, res.New, err); logErr != nil {
			slog.Warn("failed to record refresh end", "id", id, slog.Any("error", logErr))
		}
	}
	slog.Debug("timeline fetch", "trigger", trigger, "fetched", res.Fetched, "new", res.New, "gap", res.Gap, slog.Any("error", err))
	return res, err
}

func (t *Timeline) toStatuses(page []api.Status) []db.Status {
	out := make([]db.Status, 0, len(page))
	for _, s := range page {
		st := db.Status{
			ID:           s.ID,
			Account:      t.account,
			ScreenName:   s.User.ScreenName,
			Name:         s.User.Name,
			Text:         s.Text,
			URL:          s.URL,
			CreatedAt:    s.CreatedAt.Time,
			RetweetCount: s.RetweetCount,
			InReplyTo:    s.InReplyToScreenName,
			Favorited:    s.Favorited,
		}
		if s.RetweetedBy != nil {
			st.RetweetedBy = s.RetweetedBy.ScreenName
		}
		out = append(out, st)
	}
	return out
}
