package commands

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func run(t *testing.T, r *Registry, name string, args ...string) tea.Msg {
	t.Helper()
	cmd := r.Execute(name, args)
	if cmd == nil {
		t.Fatalf("Execute(%q) returned nil command", name)
	}
	return cmd()
}

// INVARIANT: exact names win over prefix matching
// BREAKS: :filter would be ambiguous with :filters
func TestExactMatchBeatsPrefix(t *testing.T) {
	r := NewRegistry()

	msg := run(t, r, "filter", "user", "bob")
	fm, ok := msg.(FilterMsg)
	if !ok {
		t.Fatalf("Expected FilterMsg, got %T", msg)
	}
	if fm.Kind != "user" || fm.Value != "bob" || fm.Remove {
		t.Errorf("Unexpected FilterMsg %+v", fm)
	}

	if _, ok := run(t, r, "filters").(ListFiltersMsg); !ok {
		t.Error("Expected ListFiltersMsg for :filters")
	}
}

func TestPrefixMatching(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		input string
		want  tea.Msg
	}{
		{input: "ref", want: RefreshMsg{}},
		{input: "mo", want: MoreMsg{}},
		{input: "hi", want: HistoryMsg{}},
		{input: "fav", want: FavoriteMsg{}},
		{input: "REF", want: RefreshMsg{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := run(t, r, tt.input); got != tt.want {
				t.Errorf("Execute(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

// INVARIANT: ambiguous prefixes report every candidate
// BREAKS: User can't tell which command they meant
func TestAmbiguousPrefix(t *testing.T) {
	r := NewRegistry()

	msg := run(t, r, "f")
	em, ok := msg.(ErrorMsg)
	if !ok {
		t.Fatalf("Expected ErrorMsg, got %T", msg)
	}
	for _, name := range []string{"favorite", "filter", "filters"} {
		if !strings.Contains(em.Message, name) {
			t.Errorf("Ambiguity error %q should list %s", em.Message, name)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	r := NewRegistry()
	em, ok := run(t, r, "launch").(ErrorMsg)
	if !ok || !strings.Contains(em.Message, "launch") {
		t.Errorf("Expected unknown command error, got %#v", em)
	}
}

func TestPullCommand(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		args []string
		want tea.Msg
	}{
		{args: nil, want: PullMsg{Toggle: true}},
		{args: []string{"on"}, want: PullMsg{Enabled: true}},
		{args: []string{"off"}, want: PullMsg{Enabled: false}},
	}
	for _, tt := range tests {
		if got := run(t, r, "pull", tt.args...); got != tt.want {
			t.Errorf("pull %v = %#v, want %#v", tt.args, got, tt.want)
		}
	}

	if _, ok := run(t, r, "pull", "maybe").(ErrorMsg); !ok {
		t.Error("Expected ErrorMsg for bad pull argument")
	}
}

func TestSortCommand(t *testing.T) {
	r := NewRegistry()

	if got := run(t, r, "sort", "time"); got != (SortMsg{ByTime: true}) {
		t.Errorf("sort time = %#v", got)
	}
	if got := run(t, r, "sort", "id"); got != (SortMsg{ByTime: false}) {
		t.Errorf("sort id = %#v", got)
	}
	for _, args := range [][]string{nil, {"random"}} {
		if _, ok := run(t, r, "sort", args...).(ErrorMsg); !ok {
			t.Errorf("sort %v should fail", args)
		}
	}
}

func TestFilterValidation(t *testing.T) {
	r := NewRegistry()

	msg := run(t, r, "unfilter", "keyword", "world", "cup")
	fm, ok := msg.(FilterMsg)
	if !ok || !fm.Remove || fm.Value != "world cup" {
		t.Errorf("Expected multi-word keyword removal, got %#v", msg)
	}

	for _, args := range [][]string{{"user"}, {"hashtag", "go"}} {
		if _, ok := run(t, r, "filter", args...).(ErrorMsg); !ok {
			t.Errorf("filter %v should fail", args)
		}
	}
}

func TestCopyAndThemeArgs(t *testing.T) {
	r := NewRegistry()

	if got := run(t, r, "copy"); got != (CopyMsg{Target: "text"}) {
		t.Errorf("copy default = %#v", got)
	}
	if got := run(t, r, "copy", "url"); got != (CopyMsg{Target: "url"}) {
		t.Errorf("copy url = %#v", got)
	}
	if _, ok := run(t, r, "copy", "image").(ErrorMsg); !ok {
		t.Error("copy image should fail")
	}
	if got := run(t, r, "theme", "green"); got != (ThemeMsg{Name: "green"}) {
		t.Errorf("theme green = %#v", got)
	}
}

func TestGetCommandsSorted(t *testing.T) {
	names := NewRegistry().GetCommands()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("commands not sorted: %v", names)
		}
	}
}

func TestSearchCommand(t *testing.T) {
	r := NewRegistry()

	if got := run(t, r, "search", "go", "lang"); got != (SearchMsg{Query: "go lang"}) {
		t.Errorf("search go lang = %#v", got)
	}
	if got := run(t, r, "se", "gopher"); got != (SearchMsg{Query: "gopher"}) {
		t.Errorf("prefix se = %#v", got)
	}
	if _, ok := run(t, r, "search").(ErrorMsg); !ok {
		t.Error("search without a query should fail")
	}
}
