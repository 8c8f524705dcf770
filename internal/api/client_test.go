package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nickpending/pullfeed/internal/config"
)

// newTestClient points a client at an httptest server.
func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &APIClient{
		baseURL:    srv.URL,
		apiKey:     "test-key",
		httpClient: &http.Client{Timeout: 2 * time.Second},
	}
}

const timelineBody = `{
  "success": true,
  "message": "ok",
  "data": {
    "statuses": [
      {"id": 102, "user": {"id": 1, "screen_name": "alice", "name": "Alice"},
       "text": "newest", "created_at": "2025-11-05 17:42:11.630705+00:00",
       "retweet_count": 2, "favorited": true},
      {"id": 101, "user": {"id": 2, "screen_name": "bob", "name": "Bob"},
       "text": "older", "created_at": "2025-11-05T17:40:00Z",
       "retweeted_by": {"id": 3, "screen_name": "carol", "name": "Carol"}}
    ]
  }
}`

func TestHomeTimeline(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/timeline/home" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Errorf("missing API key header")
		}
		if got := r.URL.Query().Get("since_id"); got != "100" {
			t.Errorf("since_id = %q, want 100", got)
		}
		if got := r.URL.Query().Get("count"); got != "20" {
			t.Errorf("count = %q, want 20", got)
		}
		if r.URL.Query().Has("max_id") {
			t.Error("zero max_id should be omitted")
		}
		w.Write([]byte(timelineBody))
	})

	statuses, err := client.HomeTimeline(context.Background(), TimelineQuery{SinceID: 100, Count: 20})
	if err != nil {
		t.Fatalf("HomeTimeline failed: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}

	first := statuses[0]
	if first.ID != 102 || first.User.ScreenName != "alice" || !first.Favorited || first.RetweetCount != 2 {
		t.Errorf("unexpected first status %+v", first)
	}
	if first.CreatedAt.Year() != 2025 || first.CreatedAt.Minute() != 42 {
		t.Errorf("space-separated timestamp not parsed: %s", first.CreatedAt)
	}
	if statuses[1].RetweetedBy == nil || statuses[1].RetweetedBy.ScreenName != "carol" {
		t.Errorf("retweeted_by not decoded: %+v", statuses[1])
	}
}

func TestSetFavoriteMethods(t *testing.T) {
	var methods []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/statuses/42/favorite" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		methods = append(methods, r.Method)
		w.Write([]byte(`{"success": true, "message": "done"}`))
	})

	if err := client.SetFavorite(context.Background(), 42, true); err != nil {
		t.Fatal(err)
	}
	if err := client.SetFavorite(context.Background(), 42, false); err != nil {
		t.Fatal(err)
	}
	if strings.Join(methods, ",") != "POST,DELETE" {
		t.Errorf("methods = %v, want POST then DELETE", methods)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantAuth bool
		contains string
	}{
		{name: "forbidden", status: 403, body: `{"success": false}`, wantAuth: true},
		{name: "unauthorized", status: 401, body: ``, wantAuth: true},
		{name: "server error with message", status: 500, body: `{"success": false, "message": "db locked"}`, contains: "db locked"},
		{name: "server error without json", status: 502, body: `bad gateway`, contains: "502"},
		{name: "success false", status: 200, body: `{"success": false, "message": "rate limited"}`, contains: "rate limited"},
		{name: "malformed json", status: 200, body: `{"success": tru`, contains: "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.HomeTimeline(context.Background(), TimelineQuery{})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantAuth && !errors.Is(err, ErrAuth) {
				t.Errorf("expected ErrAuth, got %v", err)
			}
			if tt.contains != "" && !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q should contain %q", err, tt.contains)
			}
		})
	}
}

func TestAPIKeyNeverExposed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		w.Write([]byte(`{"success": false, "message": "boom"}`))
	})

	_, err := client.HomeTimeline(context.Background(), TimelineQuery{})
	if err == nil || strings.Contains(err.Error(), "test-key") {
		t.Errorf("error leaked API key or was nil: %v", err)
	}
}

func TestServerUnavailable(t *testing.T) {
	client := &APIClient{
		baseURL:    "http://127.0.0.1:1",
		apiKey:     "k",
		httpClient: &http.Client{Timeout: time.Second},
	}
	_, err := client.HomeTimeline(context.Background(), TimelineQuery{})
	if err == nil || !strings.Contains(err.Error(), "network error") {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.HomeTimeline(ctx, TimelineQuery{}); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := NewClient(); err == nil {
		t.Fatal("Expected error when API key is missing")
	}
}

func TestNewClientURLPriority(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	configDir := filepath.Join(tmpDir, "pullfeed")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "[api]\nurl = \"http://config.example\"\nkey = \"k\"\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.BaseURL() != "http://config.example" {
		t.Errorf("expected config URL, got %s", client.BaseURL())
	}

	SetRemoteURL("http://remote.example/")
	t.Cleanup(func() { SetRemoteURL("") })
	client, err = NewClient()
	if err != nil {
		t.Fatal(err)
	}
	if client.BaseURL() != "http://remote.example" {
		t.Errorf("expected remote URL, got %s", client.BaseURL())
	}

	client, err = NewClientWithURL("http://flag.example")
	if err != nil {
		t.Fatal(err)
	}
	if client.BaseURL() != "http://flag.example" {
		t.Errorf("expected explicit URL, got %s", client.BaseURL())
	}
}

func TestNewClientFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.API.Key = "secret"

	client, err := NewClientFromConfig(cfg, "")
	if err != nil {
		t.Fatal(err)
	}
	if client.BaseURL() != config.DefaultAPIURL {
		t.Errorf("expected default URL, got %s", client.BaseURL())
	}
}

func TestSearchUsers(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		wantPage string
	}{
		{"first page omits page", 1, ""},
		{"later page", 3, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/users/search" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("q"); got != "go lang" {
					t.Errorf("q = %q, want %q", got, "go lang")
				}
				if got := r.URL.Query().Get("page"); got != tt.wantPage {
					t.Errorf("page = %q, want %q", got, tt.wantPage)
				}
				w.Write([]byte(`{"success": true, "data": {"users": [
					{"id": 7, "screen_name": "gopher", "name": "Gopher", "description": "digs", "followers_count": 42}
				]}}`))
			})

			users, err := client.SearchUsers(context.Background(), "go lang", tt.page)
			if err != nil {
				t.Fatalf("SearchUsers failed: %v", err)
			}
			if len(users) != 1 || users[0].ScreenName != "gopher" || users[0].FollowersCount != 42 {
				t.Errorf("unexpected users %+v", users)
			}
		})
	}
}
