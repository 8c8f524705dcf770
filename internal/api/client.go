package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nickpending/pullfeed/internal/config"
)

// ErrAuth is returned when the server rejects the API key.
var ErrAuth = errors.New("authentication failed: invalid API key")

// globalRemoteURL stores the remote URL set via --remote flag
var (
	globalRemoteURL string
	remoteURLMu     sync.RWMutex
)

// SetRemoteURL sets the global remote URL for all API clients
func SetRemoteURL(url string) {
	remoteURLMu.Lock()
	defer remoteURLMu.Unlock()
	globalRemoteURL = url
}

// GetRemoteURL returns the global remote URL
func GetRemoteURL() string {
	remoteURLMu.RLock()
	defer remoteURLMu.RUnlock()
	return globalRemoteURL
}

// APIClient handles HTTP communication with the timeline server
type APIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// APIResponse represents the standard API response format
type APIResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// User is the author of a status, or a user search result.
type User struct {
	ID             int64  `json:"id"`
	ScreenName     string `json:"screen_name"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	FollowersCount int    `json:"followers_count,omitempty"`
}

// Status represents a timeline status from the API
type Status struct {
	ID                  int64   `json:"id"`
	User                User    `json:"user"`
	Text                string  `json:"text"`
	URL                 string  `json:"url"`
	CreatedAt           apiTime `json:"created_at"`
	RetweetCount        int     `json:"retweet_count"`
	Favorited           bool    `json:"favorited"`
	RetweetedBy         *User   `json:"retweeted_by,omitempty"`
	InReplyToScreenName string  `json:"in_reply_to_screen_name"`
}

// TimelineResponse represents the data of GET /api/timeline/home
type TimelineResponse struct {
	Statuses []Status `json:"statuses"`
}

// UsersResponse represents the data of GET /api/users/search
type UsersResponse struct {
	Users []User `json:"users"`
}

// TimelineQuery pages through the home timeline. Zero values are omitted.
type TimelineQuery struct {
	SinceID int64 // Only statuses newer than this id
	MaxID   int64 // Only statuses with id <= MaxID
	Count   int
}

func (q TimelineQuery) values() url.Values {
	v := url.Values{}
	if q.SinceID > 0 {
		v.Set("since_id", strconv.FormatInt(q.SinceID, 10))
	}
	if q.MaxID > 0 {
		v.Set("max_id", strconv.FormatInt(q.MaxID, 10))
	}
	if q.Count > 0 {
		v.Set("count", strconv.Itoa(q.Count))
	}
	return v
}

// apiTime wraps time.Time to accept both RFC3339 and the server's
// space-separated ISO8601 format
type apiTime struct {
	time.Time
}

// UnmarshalJSON parses timestamps like "2025-11-05 17:42:11.630705+00:00"
func (t *apiTime) UnmarshalJSON(b []byte) error {
	s := string(b)

	// Handle null
	if s == "null" {
		t.Time = time.Time{}
		return nil
	}

	// Remove quotes
	if len(s) < 2 {
		return fmt.Errorf("invalid time string: %s", s)
	}
	s = s[1 : len(s)-1]

	formats := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999-07:00", // With microseconds and timezone
		"2006-01-02 15:04:05-07:00",        // With timezone, no microseconds
		"2006-01-02 15:04:05",              // No timezone
	}

	var err error
	for _, format := range formats {
		var parsed time.Time
		parsed, err = time.Parse(format, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("failed to parse time %q: %w", s, err)
}

// NewClient creates a new API client with config loading (local mode)
func NewClient() (*APIClient, error) {
	return NewClientWithURL("")
}

// NewClientWithURL creates a new API client with optional custom base URL (remote mode)
func NewClientWithURL(baseURL string) (*APIClient, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewClientFromConfig(cfg, baseURL)
}

// NewClientFromConfig builds a client from an already loaded config.
// Priority for the URL: baseURL > global remote URL > [api].url.
func NewClientFromConfig(cfg *config.Config, baseURL string) (*APIClient, error) {
	if baseURL == "" {
		baseURL = GetRemoteURL()
	}
	if baseURL == "" {
		baseURL = cfg.GetAPIURL()
	}

	if cfg.API.Key == "" {
		return nil, fmt.Errorf("API key not found in config")
	}

	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.API.Key,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// BaseURL returns the server the client talks to.
func (c *APIClient) BaseURL() string { return c.baseURL }

// do sends a request and decodes the response envelope. out, when not nil,
// receives the envelope's data.
func (c *APIClient) do(ctx context.Context, method, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrAuth
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return fmt.Errorf("API error (status %d)", resp.StatusCode)
		}
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, apiResp.Message)
	}
	if !apiResp.Success {
		return fmt.Errorf("API error: %s", apiResp.Message)
	}

	if out != nil && len(apiResp.Data) > 0 {
		if err := json.Unmarshal(apiResp.Data, out); err != nil {
			return fmt.Errorf("failed to parse response data: %w", err)
		}
	}
	return nil
}

// HomeTimeline fetches a page of the home timeline, newest first.
func (c *APIClient) HomeTimeline(ctx context.Context, q TimelineQuery) ([]Status, error) {
	var data TimelineResponse
	if err := c.do(ctx, http.MethodGet, "/api/timeline/home", q.values(), &data); err != nil {
		return nil, err
	}
	return data.Statuses, nil
}

// SetFavorite favorites or unfavorites a status.
func (c *APIClient) SetFavorite(ctx context.Context, id int64, favorited bool) error {
	method := http.MethodPost
	if !favorited {
		method = http.MethodDelete
	}
	path := "/api/statuses/" + strconv.FormatInt(id, 10) + "/favorite"
	return c.do(ctx, method, path, nil, nil)
}

// SearchUsers returns one page of users matching query. Pages start at 1.
func (c *APIClient) SearchUsers(ctx context.Context, query string, page int) ([]User, error) {
	v := url.Values{}
	v.Set("q", query)
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}

	var data UsersResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/search", v, &data); err != nil {
		return nil, err
	}
	return data.Users, nil
}
