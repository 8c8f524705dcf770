package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nickpending/pullfeed/internal/commands"
	"github.com/nickpending/pullfeed/internal/config"
	"github.com/nickpending/pullfeed/internal/db"
	"github.com/nickpending/pullfeed/internal/ptr"
	"github.com/nickpending/pullfeed/internal/schedule"
	"github.com/nickpending/pullfeed/internal/service"
	"github.com/nickpending/pullfeed/internal/ui/operations"
)

// homeTimeline is the key used for the saved cursor position.
const homeTimeline = "home"

// Rows used by the title bar and the status bar.
const chromeRows = 2

// Each status takes two rows: the text line and the metadata line.
const rowHeight = 2

// Model represents the application state for the TUI
type Model struct {
	timeline *service.Timeline
	statuses []db.Status
	cursor   int
	offset   int    // Index of the first status on screen
	view     string // "list", "reader"
	loading  bool
	err      error
	viewport viewport.Model // Status reader
	width    int
	height   int

	// Timeline shaping
	sortByTime bool
	unreadOnly bool
	filters    int // Active filter count, for the title bar

	pull    *pullState
	theme   StyleTheme
	spinner spinner.Model
	spin    bool // Spinner ticks are in flight

	loadingMore bool // FetchOlder in flight
	atBottom    bool // Cursor is on the last status
	fillingGap  bool

	statusMessage string
	helpModal     HelpModal
	historyModal  Modal
	searchModal   Modal
	search        userSearch
	commandMode   CommandMode

	refreshInterval time.Duration // 0 = disabled
}

// StoreChangedMsg tells the model the store was written by someone else.
type StoreChangedMsg struct{}

// clearStatusMsg is sent to clear the status message after a delay
type clearStatusMsg struct{}

// autoRefreshMsg is sent by the timer to trigger automatic refresh
type autoRefreshMsg struct{}

// NewModel creates the TUI model around a pull controller configured from cfg.
func NewModel(cfg *config.Config, timeline *service.Timeline) (Model, error) {
	theme, ok := ThemeByName(cfg.TUI.Theme)
	if !ok {
		slog.Warn("unknown theme, using default", "theme", cfg.TUI.Theme)
		theme = CyanTheme
	}

	header, err := ptr.NewProgressHeader(cfg.Pull.HeaderLayout)
	if err != nil {
		return Model{}, fmt.Errorf("failed to create pull header: %w", err)
	}
	header.SetColors(string(theme.Accent), string(theme.Accent2), string(theme.Accent))

	sched := schedule.NewTea()
	opts := cfg.PullOptions()
	opts.Presenter = header
	opts.Scheduler = sched

	ctrl, err := ptr.New(ptr.Host{Name: "pullfeed", Width: 80}, opts)
	if err != nil {
		return Model{}, fmt.Errorf("failed to create pull controller: %w", err)
	}

	p := newPullState(ctrl, sched, header)
	onRefresh := func(v ptr.View) {
		p.enqueue(operations.FetchNewerStatuses(timeline, "pull"))
	}
	if err := ctrl.Register(timelineView{}, nil, onRefresh); err != nil {
		return Model{}, fmt.Errorf("failed to register timeline: %w", err)
	}
	if err := ctrl.Register(readerView{}, nil, onRefresh); err != nil {
		return Model{}, fmt.Errorf("failed to register reader: %w", err)
	}
	ctrl.SetTouchListener(timelineView{}, p.listen)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	helpModal := NewHelpModal()
	helpModal.theme = theme

	commandMode := NewCommandMode()
	commandMode.SetTheme(theme)

	return Model{
		timeline:        timeline,
		view:            "list",
		loading:         true,
		viewport:        viewport.New(80, 20),
		pull:            p,
		theme:           theme,
		spinner:         sp,
		helpModal:       helpModal,
		historyModal:    NewModal("REFRESH HISTORY", 60, 14),
		searchModal:     NewModal("USERS", 64, 18),
		commandMode:     commandMode,
		refreshInterval: time.Duration(cfg.GetRefreshInterval()) * time.Second,
	}, nil
}

// Init loads the stored timeline at the saved position
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadInitial(m.query())}
	if m.refreshInterval > 0 {
		cmds = append(cmds, autoRefreshCmd(m.refreshInterval))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state. Whatever the pull
// controller scheduled while handling msg is returned with it.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)

	cmds := []tea.Cmd{cmd, next.pull.drain()}
	if next.busy() && !next.spin {
		next.spin = true
		cmds = append(cmds, next.spinner.Tick)
	}
	return next, tea.Batch(cmds...)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	// Scheduler ticks and sizing apply whatever has focus
	switch msg := msg.(type) {
	case schedule.FiredMsg:
		m.pull.sched.Handle(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			m.spin = false
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.cancelTouch()
		m.width = msg.Width
		m.height = msg.Height
		m.resizeReader()
		m.helpModal.SetSize(msg.Width, msg.Height)
		m.commandMode.SetWidth(msg.Width)
		m.pull.ctrl.ConfigurationChanged(ptr.Host{Name: "pullfeed", Width: msg.Width})
		m.ensureVisible()
		if m.view == "reader" {
			m.updateReaderContent()
		}
		return m, nil

	case tea.BlurMsg:
		m.cancelTouch()
		return m, nil
	}

	// Handle command mode updates first (highest priority)
	if m.commandMode.IsActive() {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			m.commandMode, cmd = m.commandMode.Update(msg)
			return m, cmd
		}
		if _, isClear := msg.(clearErrorMsg); isClear {
			m.commandMode, cmd = m.commandMode.Update(msg)
			return m, cmd
		}
	}

	if m.historyModal.IsVisible() {
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "esc", "q", "enter":
				m.historyModal.Hide()
			}
			return m, nil
		}
	}

	if m.searchModal.IsVisible() {
		if key, ok := msg.(tea.KeyMsg); ok {
			return m, m.handleSearchKey(key)
		}
	}

	if m.helpModal.IsVisible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.helpModal, cmd = m.helpModal.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case commands.RefreshMsg:
		return m, m.startRefresh("manual")

	case commands.MoreMsg:
		if m.pull.ctrl.IsRefreshing() {
			m.statusMessage = "Refresh running, try again when it finishes"
			return m, clearStatusAfterDelay(2 * time.Second)
		}
		return m, m.loadMore()

	case commands.GapMsg:
		return m, m.fillGap()

	case commands.TopMsg:
		m.cursor = 0
		m.offset = 0
		m.atBottom = false

	case commands.ErrorMsg:
		return m, m.commandMode.SetError(msg.Message)

	case commands.HelpMsg:
		m.helpModal.SetSize(m.width, m.height)
		m.helpModal.Show()

	case commands.HistoryMsg:
		return m, operations.LoadHistory(10)

	case commands.SearchMsg:
		return m, m.startSearch(msg.Query)

	case commands.MarkMsg:
		if st, ok := m.selected(); ok {
			return m, operations.ToggleRead(st)
		}

	case commands.FavoriteMsg:
		if st, ok := m.selected(); ok {
			return m, operations.ToggleFavorite(m.timeline, st)
		}

	case commands.OpenMsg:
		if st, ok := m.selected(); ok {
			if err := openInBrowser(st.URL); err != nil {
				m.statusMessage = "Failed to open browser"
			} else {
				m.statusMessage = "Opening in browser..."
			}
			cmds = append(cmds, clearStatusAfterDelay(2*time.Second))
		}

	case commands.YankMsg:
		if st, ok := m.selected(); ok {
			cmds = append(cmds, m.copy(st.URL, "URL"))
		}

	case commands.CopyMsg:
		if st, ok := m.selected(); ok {
			if msg.Target == "url" {
				cmds = append(cmds, m.copy(st.URL, "URL"))
			} else {
				cmds = append(cmds, m.copy(fmt.Sprintf("@%s: %s", st.ScreenName, st.Text), "Status"))
			}
		}

	case commands.FilterMsg:
		if msg.Remove {
			return m, operations.RemoveFilter(msg.Kind, msg.Value)
		}
		return m, operations.AddFilter(msg.Kind, msg.Value)

	case commands.ListFiltersMsg:
		return m, operations.ListFilters()

	case commands.SortMsg:
		m.sortByTime = msg.ByTime
		return m, m.reload()

	case commands.UnreadMsg:
		m.unreadOnly = !m.unreadOnly
		return m, m.reload()

	case commands.PullMsg:
		enabled := msg.Enabled
		if msg.Toggle {
			enabled = !m.pull.ctrl.IsEnabled()
		}
		m.pull.ctrl.SetEnabled(enabled)
		if enabled {
			m.statusMessage = "Pull to refresh on"
		} else {
			m.statusMessage = "Pull to refresh off"
		}
		cmds = append(cmds, clearStatusAfterDelay(2*time.Second))

	case commands.ThemeMsg:
		if msg.Name == "" {
			m.setTheme(NextTheme(m.theme))
		} else if theme, ok := ThemeByName(msg.Name); ok {
			m.setTheme(theme)
		} else {
			return m, m.commandMode.SetError(fmt.Sprintf("theme: unknown theme '%s'", msg.Name))
		}
		m.statusMessage = "Theme: " + m.theme.Name
		cmds = append(cmds, clearStatusAfterDelay(2*time.Second))

	case operations.FetchDoneMsg:
		return m, m.fetchDone(msg)

	case operations.StatusesLoadedMsg:
		m.statusesLoaded(msg)

	case StoreChangedMsg:
		if !m.loading {
			return m, m.reload()
		}

	case operations.StatusMarkedMsg:
		if msg.Error != nil {
			m.statusMessage = fmt.Sprintf("Failed to mark: %v", msg.Error)
			return m, clearStatusAfterDelay(2 * time.Second)
		}
		if i := m.indexOf(msg.ID); i >= 0 {
			m.statuses[i].Read = msg.Read
		}

	case operations.StatusFavoritedMsg:
		if msg.Error != nil {
			m.statusMessage = fmt.Sprintf("Failed to toggle favorite: %v", msg.Error)
		} else {
			if i := m.indexOf(msg.ID); i >= 0 {
				m.statuses[i].Favorited = msg.Favorited
			}
			if msg.Favorited {
				m.statusMessage = "♥ Favorited"
			} else {
				m.statusMessage = "♡ Unfavorited"
			}
		}
		cmds = append(cmds, clearStatusAfterDelay(2*time.Second))

	case operations.FilterChangedMsg:
		m.statusMessage = msg.Message
		cmds = append(cmds, clearStatusAfterDelay(3*time.Second))
		if msg.Success {
			cmds = append(cmds, m.reload(), operations.ListFilters())
		}

	case operations.FiltersListedMsg:
		if msg.Error != nil {
			m.statusMessage = fmt.Sprintf("Failed to load filters: %v", msg.Error)
		} else {
			m.filters = len(msg.Filters)
			m.statusMessage = operations.FormatFilters(msg.Filters)
		}
		cmds = append(cmds, clearStatusAfterDelay(4*time.Second))

	case operations.HistoryLoadedMsg:
		if msg.Error != nil {
			m.statusMessage = fmt.Sprintf("Failed to load history: %v", msg.Error)
			return m, clearStatusAfterDelay(3 * time.Second)
		}
		m.historyModal.SetContent(formatHistory(msg.Refreshes, m.theme))
		m.historyModal.Show()

	case operations.UsersFoundMsg:
		m.usersFound(msg)

	case clearStatusMsg:
		m.statusMessage = ""

	case autoRefreshMsg:
		if m.view == "list" && !m.pull.ctrl.IsRefreshing() {
			cmds = append(cmds, m.startRefresh("auto"))
		}
		cmds = append(cmds, autoRefreshCmd(m.refreshInterval))
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case ":":
		m.commandMode.Show()
		return m, nil

	case "ctrl+c":
		return m, m.quit()

	case "q", "esc":
		if m.view == "reader" {
			m.view = "list"
			return m, nil
		}
		if msg.String() == "q" {
			return m, m.quit()
		}
		return m, nil

	case "?":
		m.helpModal.SetSize(m.width, m.height)
		m.helpModal.Show()
		return m, nil

	case "r":
		return m, m.startRefresh("manual")
	}

	if m.view == "reader" {
		switch msg.String() {
		case "j", "down":
			m.viewport.SetYOffset(m.viewport.YOffset + 1)
		case "k", "up":
			m.viewport.SetYOffset(m.viewport.YOffset - 1)
		case " ", "pgdown":
			m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)
		case "pgup":
			m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)
		case "h", "left":
			if m.cursor > 0 {
				m.cursor--
				m.ensureVisible()
				return m, m.openReader()
			}
		case "l", "right":
			if m.cursor < len(m.statuses)-1 {
				m.cursor++
				m.ensureVisible()
				return m, m.openReader()
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		return m.moveCursor(1)
	case "k", "up":
		return m.moveCursor(-1)
	case "pgdown", " ":
		return m.moveCursor(m.visibleRows())
	case "pgup":
		return m.moveCursor(-m.visibleRows())
	case "g", "home":
		m.cursor = 0
		m.offset = 0
		m.atBottom = false
	case "G", "end":
		return m.moveCursor(len(m.statuses))
	case "enter":
		if len(m.statuses) > 0 {
			if m.statuses[m.cursor].Gap {
				return m, m.fillGap()
			}
			m.view = "reader"
			return m, m.openReader()
		}
	case "u":
		m.unreadOnly = !m.unreadOnly
		return m, m.reload()
	case "s":
		m.sortByTime = !m.sortByTime
		return m, m.reload()
	}
	return m, nil
}

// View renders the current model state
func (m Model) View() string {
	base := RenderTimeline(m)

	if m.historyModal.IsVisible() {
		return m.historyModal.ViewWithOverlay(base, m.width, m.height, m.theme)
	}
	if m.searchModal.IsVisible() {
		return m.searchModal.ViewWithOverlay(base, m.width, m.height, m.theme)
	}
	if m.helpModal.IsVisible() {
		return m.helpModal.ViewWithOverlay(base, m.width, m.height)
	}
	return base
}

// busy reports whether a fetch is running.
func (m Model) busy() bool {
	return m.pull.ctrl.IsRefreshing() || m.loadingMore || m.fillingGap
}

func (m Model) query() db.TimelineQuery {
	return db.TimelineQuery{SortByTime: m.sortByTime, UnreadOnly: m.unreadOnly}
}

// startRefresh shows the header and fetches newer statuses, unless a
// refresh is already running.
func (m *Model) startRefresh(trigger string) tea.Cmd {
	if m.pull.ctrl.IsRefreshing() {
		m.statusMessage = "Refresh already running"
		return clearStatusAfterDelay(2 * time.Second)
	}
	m.pull.ctrl.SetRefreshing(true)
	return operations.FetchNewerStatuses(m.timeline, trigger)
}

// loadMore fetches older statuses below the bottom of the list.
func (m *Model) loadMore() tea.Cmd {
	if m.loadingMore || m.pull.ctrl.IsRefreshing() {
		return nil
	}
	m.loadingMore = true
	return operations.FetchOlderStatuses(m.timeline)
}

// fillGap loads the statuses missing below the status under the cursor.
func (m *Model) fillGap() tea.Cmd {
	st, ok := m.selected()
	if !ok || !st.Gap {
		m.statusMessage = "No gap here"
		return clearStatusAfterDelay(2 * time.Second)
	}
	if m.fillingGap {
		return nil
	}
	m.fillingGap = true
	return operations.FillGap(m.timeline, st.ID)
}

func (m *Model) fetchDone(msg operations.FetchDoneMsg) tea.Cmd {
	switch msg.Kind {
	case operations.FetchNewer:
		m.pull.ctrl.SetRefreshComplete()
	case operations.FetchOlder:
		m.loadingMore = false
	case operations.FetchGap:
		m.fillingGap = false
	}

	switch {
	case errors.Is(msg.Error, service.ErrNoSource):
		m.statusMessage = "Offline: " + msg.Error.Error()
	case msg.Error != nil:
		slog.Warn("timeline fetch failed", "kind", msg.Kind, slog.Any("error", msg.Error))
		m.statusMessage = fmt.Sprintf("✗ Refresh failed: %v", msg.Error)
	case msg.Result.New == 0:
		m.statusMessage = "✓ Up to date"
	default:
		m.statusMessage = fmt.Sprintf("✓ %d new status(es)", msg.Result.New)
		if msg.Result.Gap {
			m.statusMessage += ", gap left below"
		}
	}

	cmds := []tea.Cmd{clearStatusAfterDelay(3 * time.Second)}
	if msg.Error == nil {
		cmds = append(cmds, m.reload())
	}
	return tea.Batch(cmds...)
}

// reload re-reads the store, keeping the cursor on the same status.
func (m Model) reload() tea.Cmd {
	var target int64
	if st, ok := m.selected(); ok {
		target = st.ID
	}
	return operations.LoadStatuses(m.query(), target)
}

func (m *Model) statusesLoaded(msg operations.StatusesLoadedMsg) {
	m.loading = false
	m.err = msg.Error
	if msg.Error != nil {
		return
	}
	m.statuses = msg.Statuses

	if msg.TargetID != 0 {
		if i := m.indexOf(msg.TargetID); i >= 0 {
			m.cursor = i
		}
	}
	if m.cursor >= len(m.statuses) {
		m.cursor = max(len(m.statuses)-1, 0)
	}
	m.atBottom = len(m.statuses) > 0 && m.cursor == len(m.statuses)-1
	m.ensureVisible()

	if m.view == "reader" {
		if len(m.statuses) == 0 {
			m.view = "list"
		} else {
			m.updateReaderContent()
		}
	}
}

// moveCursor moves the list cursor by delta and loads older statuses the
// first time the cursor arrives at the bottom.
func (m Model) moveCursor(delta int) (Model, tea.Cmd) {
	if len(m.statuses) == 0 {
		return m, nil
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.statuses)-1)
	m.ensureVisible()

	wasAtBottom := m.atBottom
	m.atBottom = m.cursor == len(m.statuses)-1
	if m.atBottom && !wasAtBottom {
		return m, m.loadMore()
	}
	return m, nil
}

// listHeight is the number of rows available to the list below the title
// bar. The pull header borrows rows from it while shown.
func (m Model) listHeight() int {
	return max(m.height-chromeRows, rowHeight)
}

// visibleRows is the number of statuses on screen.
func (m Model) visibleRows() int {
	return max((m.listHeight()-m.pull.header.Height())/rowHeight, 1)
}

// ensureVisible scrolls the list so the cursor is on screen.
func (m *Model) ensureVisible() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = max(m.offset, 0)
}

// rowAt maps a screen row to a status index, or -1.
func (m Model) rowAt(y int) int {
	top := 1 + m.pull.header.Height()
	if y < top {
		return -1
	}
	i := m.offset + (y-top)/rowHeight
	if i >= len(m.statuses) {
		return -1
	}
	return i
}

func (m Model) selected() (db.Status, bool) {
	if m.cursor < 0 || m.cursor >= len(m.statuses) {
		return db.Status{}, false
	}
	return m.statuses[m.cursor], true
}

func (m Model) indexOf(id int64) int {
	for i, st := range m.statuses {
		if st.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) setTheme(theme StyleTheme) {
	m.theme = theme
	m.helpModal.theme = theme
	m.commandMode.SetTheme(theme)
	m.spinner.Style = lipgloss.NewStyle().Foreground(theme.Accent)
	m.pull.header.SetColors(string(theme.Accent), string(theme.Accent2), string(theme.Accent))
	if m.view == "reader" {
		m.updateReaderContent()
	}
}

func (m *Model) copy(text, what string) tea.Cmd {
	if err := CopyToClipboard(text); err != nil {
		m.statusMessage = fmt.Sprintf("Failed to copy %s", what)
	} else {
		m.statusMessage = what + " copied to clipboard"
	}
	return clearStatusAfterDelay(2 * time.Second)
}

// quit saves the cursor position before exiting.
func (m Model) quit() tea.Cmd {
	if st, ok := m.selected(); ok {
		return tea.Sequence(operations.SavePosition(homeTimeline, st.ID), tea.Quit)
	}
	return tea.Quit
}

// loadInitial restores the saved position and loads the timeline.
func loadInitial(q db.TimelineQuery) tea.Cmd {
	return func() tea.Msg {
		target, _, err := db.LoadPosition(homeTimeline)
		if err != nil {
			slog.Warn("failed to load saved position", slog.Any("error", err))
		}
		return operations.LoadStatuses(q, target)()
	}
}

// autoRefreshCmd returns a command that triggers auto-refresh after the specified interval
func autoRefreshCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return autoRefreshMsg{}
	})
}

// clearStatusAfterDelay returns a command that clears the status message after a delay
func clearStatusAfterDelay(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
