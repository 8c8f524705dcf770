package db

import (
	"fmt"
	"strings"
)

// Filter kinds.
const (
	FilterUser    = "user"
	FilterKeyword = "keyword"
)

// Filter hides statuses from the timeline.
type Filter struct {
	Kind  string
	Value string
}

func (f Filter) String() string {
	if f.Kind == FilterUser {
		return "@" + f.Value
	}
	return fmt.Sprintf("%q", f.Value)
}

// NormalizeFilter validates kind and canonicalizes value.
func NormalizeFilter(kind, value string) (Filter, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch kind {
	case FilterUser:
		value = strings.TrimPrefix(value, "@")
	case FilterKeyword:
	default:
		return Filter{}, fmt.Errorf("unknown filter kind %q (use user or keyword)", kind)
	}
	if value == "" {
		return Filter{}, fmt.Errorf("empty %s filter", kind)
	}
	return Filter{Kind: kind, Value: value}, nil
}

// AddFilter stores a filter. Adding an existing filter is a no-op.
func AddFilter(kind, value string) (Filter, error) {
	f, err := NormalizeFilter(kind, value)
	if err != nil {
		return Filter{}, err
	}

	db, err := GetDB()
	if err != nil {
		return Filter{}, fmt.Errorf("failed to get database connection: %w", err)
	}

	if _, err := db.Exec(`INSERT OR IGNORE INTO filters (kind, value) VALUES (?, ?)`, f.Kind, f.Value); err != nil {
		return Filter{}, fmt.Errorf("failed to add filter: %w", err)
	}
	return f, nil
}

// RemoveFilter deletes a filter and reports whether it existed.
func RemoveFilter(kind, value string) (bool, error) {
	f, err := NormalizeFilter(kind, value)
	if err != nil {
		return false, err
	}

	db, err := GetDB()
	if err != nil {
		return false, fmt.Errorf("failed to get database connection: %w", err)
	}

	result, err := db.Exec(`DELETE FROM filters WHERE kind = ? AND value = ?`, f.Kind, f.Value)
	if err != nil {
		return false, fmt.Errorf("failed to remove filter: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	return n > 0, nil
}

// ListFilters returns all filters ordered by kind and value.
func ListFilters() ([]Filter, error) {
	db, err := GetDB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	rows, err := db.Query(`SELECT kind, value FROM filters ORDER BY kind, value`)
	if err != nil {
		return nil, fmt.Errorf("failed to query filters: %w", err)
	}
	defer rows.Close()

	var filters []Filter
	for rows.Next() {
		var f Filter
		if err := rows.Scan(&f.Kind, &f.Value); err != nil {
			return nil, fmt.Errorf("failed to scan filter: %w", err)
		}
		filters = append(filters, f)
	}
	return filters, rows.Err()
}
