package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Background = lipgloss.Color("#000000")
	Foreground = lipgloss.Color("#d8ffd8")
	PromptFg   = lipgloss.Color("#39ff14")
	ErrorFg    = lipgloss.Color("#ff5555")
	StatusFg   = lipgloss.Color("#5f875f")

	// RainRamp runs from barely visible to brightest.
	RainRamp = []lipgloss.Color{
		lipgloss.Color("#002200"),
		lipgloss.Color("#004400"),
		lipgloss.Color("#007700"),
		lipgloss.Color("#00aa00"),
		lipgloss.Color("#00dd00"),
		lipgloss.Color("#33ff33"),
	}
)

// Styles holds every style the view uses.
type Styles struct {
	Text   lipgloss.Style
	Prompt lipgloss.Style
	Error  lipgloss.Style
	Cursor lipgloss.Style
	Status lipgloss.Style
	Blank  lipgloss.Style
	Rain   []lipgloss.Style
}

// DefaultStyles returns the green-on-black theme.
func DefaultStyles() Styles {
	base := lipgloss.NewStyle().Background(Background)
	s := Styles{
		Text:   base.Foreground(Foreground),
		Prompt: base.Foreground(PromptFg).Bold(true),
		Error:  base.Foreground(ErrorFg),
		Cursor: lipgloss.NewStyle().Foreground(Background).Background(PromptFg),
		Status: base.Foreground(StatusFg),
		Blank:  base,
	}
	for _, c := range RainRamp {
		s.Rain = append(s.Rain, base.Foreground(c))
	}
	return s
}

// rainLevel maps a drop's intensity (1..max) and the global opacity onto
// an index into Styles.Rain. -1 means invisible.
func rainLevel(intensity, maxIntensity int, opacity float64, levels int) int {
	if maxIntensity <= 0 || levels == 0 || opacity <= 0 {
		return -1
	}
	v := float64(intensity) / float64(maxIntensity) * opacity
	if v > 1 {
		v = 1
	}
	idx := int(v*float64(levels)+0.5) - 1
	if idx >= levels {
		idx = levels - 1
	}
	return idx
}

func (s Styles) style(cs cellStyle) lipgloss.Style {
	switch cs {
	case styleText:
		return s.Text
	case stylePrompt:
		return s.Prompt
	case styleError:
		return s.Error
	case styleCursor:
		return s.Cursor
	case styleStatus:
		return s.Status
	case styleBlank:
		return s.Blank
	}
	if i := int(cs - styleRain); i >= 0 && i < len(s.Rain) {
		return s.Rain[i]
	}
	return s.Blank
}
