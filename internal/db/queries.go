package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a status does not exist.
var ErrNotFound = errors.New("status not found")

// Status is a timeline entry as stored locally.
type Status struct {
	ID           int64
	Account      string
	ScreenName   string
	Name         string
	Text         string
	URL          string
	CreatedAt    time.Time
	RetweetCount int
	RetweetedBy  string // Who retweeted it into the timeline, empty for originals
	InReplyTo    string
	Favorited    bool
	Read         bool
	Gap          bool // Older statuses below this one have not been fetched
}

// IsRetweet reports whether the status reached the timeline as a retweet.
func (s Status) IsRetweet() bool { return s.RetweetedBy != "" }

// TimelineQuery selects what GetTimeline returns.
type TimelineQuery struct {
	SortByTime bool // Order by created_at instead of status id
	UnreadOnly bool
	Limit      int // 0 means no limit
}

const statusColumns = `s.id, s.account, s.screen_name, s.name, s.text, s.url, s.created_at,
	s.retweet_count, s.retweeted_by, s.in_reply_to, s.favorited, s.read, s.gap`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStatus(row rowScanner) (Status, error) {
	var st Status
	var name, url, retweetedBy, inReplyTo sql.NullString
	var createdStr string

	err := row.Scan(
		&st.ID,
		&st.Account,
		&st.ScreenName,
		&name,
		&st.Text,
		&url,
		&createdStr,
		&st.RetweetCount,
		&retweetedBy,
		&inReplyTo,
		&st.Favorited,
		&st.Read,
		&st.Gap,
	)
	if err != nil {
		return Status{}, err
	}

	// Handle nullable fields
	st.Name = name.String
	st.URL = url.String
	st.RetweetedBy = retweetedBy.String
	st.InReplyTo = inReplyTo.String

	if t, err := time.Parse(time.RFC3339, createdStr); err == nil {
		st.CreatedAt = t
	}
	return st, nil
}

// GetTimeline returns stored statuses, newest first, with user and
// keyword filters applied.
func GetTimeline(q TimelineQuery) ([]Status, error) {
	db, err := GetDB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	query := `SELECT ` + statusColumns + `
	          FROM statuses s
	          WHERE lower(s.screen_name) NOT IN (SELECT value FROM filters WHERE kind = 'user')
	            AND NOT EXISTS (
	                SELECT 1 FROM filters f
	                WHERE f.kind = 'keyword' AND instr(lower(s.text), f.value) > 0)`

	var args []any
	if q.UnreadOnly {
		query += " AND s.read = 0"
	}

	if q.SortByTime {
		query += " ORDER BY s.created_at DESC, s.id DESC"
	} else {
		query += " ORDER BY s.id DESC"
	}

	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline: %w", err)
	}
	defer rows.Close()

	var statuses []Status
	for rows.Next() {
		st, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		statuses = append(statuses, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read timeline rows: %w", err)
	}

	return statuses, nil
}

// GetStatus returns a single status by id.
func GetStatus(id int64) (Status, error) {
	db, err := GetDB()
	if err != nil {
		return Status{}, fmt.Errorf("failed to get database connection: %w", err)
	}

	row := db.QueryRow(`SELECT `+statusColumns+` FROM statuses s WHERE s.id = ?`, id)
	st, err := scanStatus(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Status{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return Status{}, fmt.Errorf("failed to get status %d: %w", id, err)
	}
	return st, nil
}

// UpsertStatuses stores statuses fetched from the server. Server-owned
// fields are refreshed on existing rows; read and gap flags are kept.
// It returns how many statuses were new.
func UpsertStatuses(statuses []Status) (int, error) {
	if len(statuses) == 0 {
		return 0, nil
	}

	db, err := GetDB()
	if err != nil {
		return 0, fmt.Errorf("failed to get database connection: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert, err := tx.Prepare(`INSERT OR IGNORE INTO statuses
		(id, account, screen_name, name, text, url, created_at, retweet_count, retweeted_by, in_reply_to, favorited)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer insert.Close()

	update, err := tx.Prepare(`UPDATE statuses
		SET text = ?, retweet_count = ?, favorited = ?, name = ?
		WHERE id = ?`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare update: %w", err)
	}
	defer update.Close()

	inserted := 0
	for _, st := range statuses {
		res, err := insert.Exec(
			st.ID, st.Account, st.ScreenName, nullString(st.Name), st.Text, nullString(st.URL),
			st.CreatedAt.UTC().Format(time.RFC3339), st.RetweetCount,
			nullString(st.RetweetedBy), nullString(st.InReplyTo), st.Favorited,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert status %d: %w", st.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			inserted++
			continue
		}
		if _, err := update.Exec(st.Text, st.RetweetCount, st.Favorited, nullString(st.Name), st.ID); err != nil {
			return 0, fmt.Errorf("failed to update status %d: %w", st.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit statuses: %w", err)
	}
	return inserted, nil
}

// NewestStatusID returns the highest stored id, or 0 when empty.
func NewestStatusID() (int64, error) {
	return boundaryID("MAX")
}

// OldestStatusID returns the lowest stored id, or 0 when empty.
func OldestStatusID() (int64, error) {
	return boundaryID("MIN")
}

func boundaryID(fn string) (int64, error) {
	db, err := GetDB()
	if err != nil {
		return 0, fmt.Errorf("failed to get database connection: %w", err)
	}

	var id int64
	if err := db.QueryRow(`SELECT COALESCE(` + fn + `(id), 0) FROM statuses`).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read %s status id: %w", strings.ToLower(fn), err)
	}
	return id, nil
}

// SetGap flags or clears the gap marker on a status.
func SetGap(id int64, gap bool) error {
	return setFlag("gap", id, gap)
}

// MarkRead sets the read flag on a status.
func MarkRead(id int64, read bool) error {
	return setFlag("read", id, read)
}

// SetFavorite records the favorite flag locally.
func SetFavorite(id int64, favorited bool) error {
	return setFlag("favorited", id, favorited)
}

func setFlag(column string, id int64, value bool) error {
	db, err := GetDB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	result, err := db.Exec(`UPDATE statuses SET `+column+` = ? WHERE id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", column, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
