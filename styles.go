package enquire

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Symbols holds the glyphs used for status prefixes and separators.
type Symbols struct {
	Question string
	Check    string
	Cross    string
	Ellipsis string
	Pointer  string
	Middot   string
	Bell     string
}

// DefaultSymbols are the glyphs used when Config.Symbols is nil.
var DefaultSymbols = &Symbols{
	Question: "?",
	Check:    "✔",
	Cross:    "✖",
	Ellipsis: "…",
	Pointer:  "›",
	Middot:   "·",
	Bell:     "\a",
}

// prefix returns the status glyph shown before the message.
func (s *Symbols) prefix(status Status) string {
	switch status {
	case StatusAnswered:
		return s.Check
	case StatusCancelled:
		return s.Cross
	default:
		return s.Question
	}
}

// separator returns the glyph shown between message and value.
func (s *Symbols) separator(status Status) string {
	switch status {
	case StatusAnswered, StatusCancelled:
		return s.Middot
	case StatusCompleting:
		return s.Ellipsis
	default:
		return s.Pointer
	}
}

// Color represents an RGB color with optional formatting.
type Color struct {
	R    uint8 `json:"r" yaml:"r"`
	G    uint8 `json:"g" yaml:"g"`
	B    uint8 `json:"b" yaml:"b"`
	Bold bool  `json:"bold" yaml:"bold"`
}

// Hex returns the color as a #rrggbb string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) style() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Bold(c.Bold)
}

// Theme defines the colors a prompt is drawn with.
type Theme struct {
	Name      string `json:"name" yaml:"name"`
	Primary   Color  `json:"primary" yaml:"primary"`     // pending prefix, focused entries
	Submitted Color  `json:"submitted" yaml:"submitted"` // the answered value
	Success   Color  `json:"success" yaml:"success"`     // answered prefix
	Danger    Color  `json:"danger" yaml:"danger"`       // errors, cancelled prefix
	Muted     Color  `json:"muted" yaml:"muted"`         // hints, initial preview, separators
	Text      Color  `json:"text" yaml:"text"`           // typed input
}

// ThemeDefault is the default theme with cyan accents
var ThemeDefault = &Theme{
	Name:      "default",
	Primary:   Color{R: 0, G: 255, B: 255},
	Submitted: Color{R: 0, G: 255, B: 255},
	Success:   Color{R: 0, G: 255, B: 0},
	Danger:    Color{R: 255, G: 0, B: 0},
	Muted:     Color{R: 128, G: 128, B: 128},
	Text:      Color{R: 255, G: 255, B: 255},
}

// ThemeDark is a dark theme with light blue accents and off-white text
var ThemeDark = &Theme{
	Name:      "Dark",
	Primary:   Color{R: 102, G: 217, B: 239, Bold: true},
	Submitted: Color{R: 80, G: 250, B: 123},
	Success:   Color{R: 80, G: 250, B: 123, Bold: true},
	Danger:    Color{R: 255, G: 85, B: 85, Bold: true},
	Muted:     Color{R: 98, G: 114, B: 164},
	Text:      Color{R: 248, G: 248, B: 242},
}

// ThemeSolarizedDark is the Solarized Dark color scheme
var ThemeSolarizedDark = &Theme{
	Name:      "Solarized Dark",
	Primary:   Color{R: 38, G: 139, B: 210, Bold: true},
	Submitted: Color{R: 42, G: 161, B: 152},
	Success:   Color{R: 133, G: 153, B: 0, Bold: true},
	Danger:    Color{R: 220, G: 50, B: 47, Bold: true},
	Muted:     Color{R: 88, G: 110, B: 117},
	Text:      Color{R: 147, G: 161, B: 161},
}

// ThemeAccessible is a colorblind-safe theme with high contrast
var ThemeAccessible = &Theme{
	Name:      "Accessible",
	Primary:   Color{R: 0, G: 114, B: 178, Bold: true},
	Submitted: Color{R: 86, G: 180, B: 233},
	Success:   Color{R: 0, G: 158, B: 115, Bold: true},
	Danger:    Color{R: 213, G: 94, B: 0, Bold: true},
	Muted:     Color{R: 204, G: 204, B: 204},
	Text:      Color{R: 255, G: 255, B: 255},
}

// ThemeDracula is the Dracula color scheme
var ThemeDracula = &Theme{
	Name:      "Dracula",
	Primary:   Color{R: 255, G: 121, B: 198, Bold: true},
	Submitted: Color{R: 139, G: 233, B: 253},
	Success:   Color{R: 80, G: 250, B: 123, Bold: true},
	Danger:    Color{R: 255, G: 85, B: 85, Bold: true},
	Muted:     Color{R: 98, G: 114, B: 164},
	Text:      Color{R: 248, G: 248, B: 242},
}

// ThemeMonokai is the Monokai color scheme
var ThemeMonokai = &Theme{
	Name:      "Monokai",
	Primary:   Color{R: 102, G: 217, B: 239, Bold: true},
	Submitted: Color{R: 166, G: 226, B: 46},
	Success:   Color{R: 166, G: 226, B: 46, Bold: true},
	Danger:    Color{R: 249, G: 38, B: 114, Bold: true},
	Muted:     Color{R: 117, G: 113, B: 94},
	Text:      Color{R: 248, G: 248, B: 242},
}

// Themes lists the built-in themes by name.
var Themes = map[string]*Theme{
	ThemeDefault.Name:       ThemeDefault,
	ThemeDark.Name:          ThemeDark,
	ThemeSolarizedDark.Name: ThemeSolarizedDark,
	ThemeAccessible.Name:    ThemeAccessible,
	ThemeDracula.Name:       ThemeDracula,
	ThemeMonokai.Name:       ThemeMonokai,
}

// Styles are the formatting functions used by the render pipeline.
type Styles struct {
	Primary   lipgloss.Style
	Strong    lipgloss.Style
	Submitted lipgloss.Style
	Success   lipgloss.Style
	Danger    lipgloss.Style
	Muted     lipgloss.Style
	Text      lipgloss.Style
}

// NewStyles builds styles from a theme. A nil theme uses ThemeDefault.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = ThemeDefault
	}
	return &Styles{
		Primary:   theme.Primary.style(),
		Strong:    lipgloss.NewStyle().Bold(true),
		Submitted: theme.Submitted.style(),
		Success:   theme.Success.style(),
		Danger:    theme.Danger.style(),
		Muted:     theme.Muted.style().Faint(true),
		Text:      theme.Text.style(),
	}
}

// prefix styles the status glyph.
func (s *Styles) prefix(status Status, glyph string) string {
	switch status {
	case StatusAnswered:
		return s.Success.Render(glyph)
	case StatusCancelled:
		return s.Danger.Render(glyph)
	default:
		return s.Primary.Render(glyph)
	}
}
