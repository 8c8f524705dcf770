package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// StyleTheme is a color scheme for the TUI and the pull header
type StyleTheme struct {
	Name     string
	Accent   lipgloss.Color // Cursor, titles, pull label
	Accent2  lipgloss.Color // Gradient end, errors
	Purple   lipgloss.Color // Screen names, links
	Green    lipgloss.Color // Success and favorites
	Red      lipgloss.Color // Gaps
	Orange   lipgloss.Color // Retweets
	Gray     lipgloss.Color // Metadata and read statuses
	DarkGray lipgloss.Color // Status bar background
	White    lipgloss.Color // Status text
}

// CyanTheme is the default scheme
var CyanTheme = StyleTheme{
	Name:     "cyan",
	Accent:   lipgloss.Color("#00D9FF"),
	Accent2:  lipgloss.Color("#9F4DFF"),
	Purple:   lipgloss.Color("#E6CCFF"),
	Green:    lipgloss.Color("#00FF88"),
	Red:      lipgloss.Color("#FF0066"),
	Orange:   lipgloss.Color("#FF8800"),
	Gray:     lipgloss.Color("#666666"),
	DarkGray: lipgloss.Color("#333333"),
	White:    lipgloss.Color("#EEEEEE"),
}

// MonokaiTheme provides warm dark colors inspired by Monokai Pro
var MonokaiTheme = StyleTheme{
	Name:     "monokai",
	Accent:   lipgloss.Color("#78DCE8"),
	Accent2:  lipgloss.Color("#FF6188"),
	Purple:   lipgloss.Color("#AB9DF2"),
	Green:    lipgloss.Color("#A9DC76"),
	Red:      lipgloss.Color("#FF6188"),
	Orange:   lipgloss.Color("#FC9867"),
	Gray:     lipgloss.Color("#727072"),
	DarkGray: lipgloss.Color("#403E41"),
	White:    lipgloss.Color("#FCFCFA"),
}

// LightTheme uses softer tones that stay readable on dark terminals
var LightTheme = StyleTheme{
	Name:     "light",
	Accent:   lipgloss.Color("#06B6D4"),
	Accent2:  lipgloss.Color("#EC4899"),
	Purple:   lipgloss.Color("#8B5CF6"),
	Green:    lipgloss.Color("#22C55E"),
	Red:      lipgloss.Color("#F43F5E"),
	Orange:   lipgloss.Color("#FB923C"),
	Gray:     lipgloss.Color("#64748B"),
	DarkGray: lipgloss.Color("#475569"),
	White:    lipgloss.Color("#F1F5F9"),
}

// AvailableThemes is the cycling order for :theme
var AvailableThemes = []StyleTheme{
	CyanTheme,
	MonokaiTheme,
	LightTheme,
}

// ThemeByName looks up a theme, case-insensitively.
func ThemeByName(name string) (StyleTheme, bool) {
	for _, t := range AvailableThemes {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return StyleTheme{}, false
}

// NextTheme returns the theme after current in AvailableThemes.
func NextTheme(current StyleTheme) StyleTheme {
	for i, t := range AvailableThemes {
		if t.Name == current.Name {
			return AvailableThemes[(i+1)%len(AvailableThemes)]
		}
	}
	return AvailableThemes[0]
}

func (t StyleTheme) ScreenNameStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Purple).
		Bold(true)
}

func (t StyleTheme) TextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.White)
}

func (t StyleTheme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Gray)
}

func (t StyleTheme) SelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)
}

func (t StyleTheme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Accent2).
		Bold(true)
}

func (t StyleTheme) RetweetStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Orange)
}

// GapStyle marks the row below which statuses are missing
func (t StyleTheme) GapStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Red).
		Italic(true)
}

// ToGlamourStyle converts our theme to a glamour style config for the status reader
func (t StyleTheme) ToGlamourStyle() ansi.StyleConfig {
	style := styles.DraculaStyleConfig

	// No document margin, the reader pads itself
	style.Document.Margin = uintPtr(0)

	style.Document.StylePrimitive.Color = stringPtr(string(t.White))
	style.Heading.StylePrimitive.Color = stringPtr(string(t.Accent))
	style.Heading.StylePrimitive.Bold = boolPtr(true)

	style.H2.StylePrimitive.Color = stringPtr(string(t.Accent))
	style.H2.StylePrimitive.Bold = boolPtr(true)
	style.H2.Prefix = "▸ "
	style.H2.Suffix = ""
	style.H2.Format = ""

	style.Link.Color = stringPtr(string(t.Purple))
	style.LinkText.Color = stringPtr(string(t.Purple))
	style.Code.Color = stringPtr(string(t.Green))
	style.Emph.Color = stringPtr(string(t.Orange))
	style.Strong.Color = stringPtr(string(t.Accent2))

	style.HorizontalRule.Color = stringPtr(string(t.Gray))

	style.BlockQuote.StylePrimitive.Color = stringPtr("#999999")
	style.BlockQuote.StylePrimitive.Italic = boolPtr(true)

	return style
}

func stringPtr(s string) *string { return &s }
func uintPtr(u uint) *uint       { return &u }
func boolPtr(b bool) *bool       { return &b }

// RenderWithGradientBackground renders text with a gradient background
func RenderWithGradientBackground(text string, width int, startColor, endColor string) string {
	var paddedText string
	textRunes := []rune(text)
	if len(textRunes) < width {
		paddedText = string(textRunes) + strings.Repeat(" ", width-len(textRunes))
	} else {
		paddedText = string(textRunes[:width])
	}

	runes := []rune(paddedText)
	var result strings.Builder

	for i, r := range runes {
		position := float64(i) / float64(max(width-1, 1))
		bgColor := InterpolateColor(startColor, endColor, position)

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(bgColor)).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}

// InterpolateColor interpolates between two hex colors at the given position
func InterpolateColor(startColor, endColor string, position float64) string {
	startR, startG, startB, err := parseHexColor(startColor)
	if err != nil {
		return startColor
	}
	endR, endG, endB, err := parseHexColor(endColor)
	if err != nil {
		return startColor
	}

	position = min(max(position, 0), 1)

	r := int(float64(startR) + (float64(endR-startR) * position))
	g := int(float64(startG) + (float64(endG-startG) * position))
	b := int(float64(startB) + (float64(endB-startB) * position))

	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// parseHexColor parses a hex color string into RGB values
func parseHexColor(hexColor string) (int, int, int, error) {
	hexColor = strings.TrimPrefix(hexColor, "#")
	if len(hexColor) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color format")
	}

	rgb, err := strconv.ParseUint(hexColor, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", hexColor, err)
	}
	return int(rgb >> 16 & 0xFF), int(rgb >> 8 & 0xFF), int(rgb & 0xFF), nil
}
