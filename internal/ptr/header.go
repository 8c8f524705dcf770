package ptr

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

type headerLayout struct {
	label bool
}

var headerLayouts = map[string]headerLayout{
	"progress": {label: true},
	"compact":  {label: false},
}

// ValidLayout reports whether name is a known header layout.
func ValidLayout(name string) bool {
	_, ok := headerLayouts[name]
	return ok
}

type headerPhase int

const (
	phaseIdle headerPhase = iota
	phasePulling
	phaseRelease
	phaseRefreshing
	phaseMinimized
)

// ProgressHeader is the default presenter. It draws a progress bar that
// fills as the pull travels and an optional label line.
type ProgressHeader struct {
	layout  headerLayout
	bar     progress.Model
	header  *HeaderView
	host    Host
	percent float64
	phase   headerPhase

	labelStyle lipgloss.Style
}

// NewProgressHeader creates a presenter for the named layout.
func NewProgressHeader(layout string) (*ProgressHeader, error) {
	l, ok := headerLayouts[layout]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
	}
	return &ProgressHeader{
		layout: l,
		bar:    progress.New(progress.WithGradient("#00D9FF", "#9F4DFF"), progress.WithoutPercentage()),
		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00D9FF")).
			Bold(true),
	}, nil
}

// SetColors restyles the bar and label.
func (p *ProgressHeader) SetColors(from, to, label string) {
	width := p.bar.Width
	p.bar = progress.New(progress.WithGradient(from, to), progress.WithoutPercentage())
	p.bar.Width = width
	p.labelStyle = p.labelStyle.Foreground(lipgloss.Color(label))
}

func (p *ProgressHeader) OnAttached(host Host, header *HeaderView) {
	p.host = host
	p.header = header
	if host.Width > 0 {
		p.bar.Width = host.Width
	}
}

func (p *ProgressHeader) OnPulled(fraction float64) {
	p.phase = phasePulling
	p.percent = fraction
}

func (p *ProgressHeader) OnReleaseToRefresh() {
	p.phase = phaseRelease
	p.percent = 1
}

func (p *ProgressHeader) OnRefreshStarted() {
	p.phase = phaseRefreshing
	p.percent = 1
}

func (p *ProgressHeader) OnRefreshMinimized() {
	p.phase = phaseMinimized
}

func (p *ProgressHeader) OnReset() {
	p.phase = phaseIdle
	p.percent = 0
}

// Height is the number of rows View renders.
func (p *ProgressHeader) Height() int {
	if p.header == nil || !p.header.Shown() {
		return 0
	}
	if p.layout.label && p.phase != phaseMinimized {
		return 2
	}
	return 1
}

func (p *ProgressHeader) label() string {
	switch p.phase {
	case phaseRelease:
		return "Release to refresh"
	case phaseRefreshing:
		return "Refreshing…"
	default:
		return "Pull to refresh"
	}
}

func (p *ProgressHeader) View() string {
	if p.header == nil || !p.header.Shown() {
		return ""
	}

	bar := p.bar.ViewAs(p.percent)
	if !p.layout.label || p.phase == phaseMinimized {
		return bar
	}

	var b strings.Builder
	b.WriteString(p.labelStyle.Render(p.label()))
	b.WriteString("\n")
	b.WriteString(bar)
	return b.String()
}
