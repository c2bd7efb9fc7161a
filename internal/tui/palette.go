package tui

import "github.com/charmbracelet/lipgloss"

type Palette struct {
	Ink       lipgloss.Color
	Dim       lipgloss.Color
	Accent    lipgloss.Color
	AccentAlt lipgloss.Color
	Success   lipgloss.Color
	Warn      lipgloss.Color
	Error     lipgloss.Color
}

var (
	DarkPalette = Palette{
		Ink:       lipgloss.Color("#E5E9F0"),
		Dim:       lipgloss.Color("#7A8291"),
		Accent:    lipgloss.Color("#88C0D0"),
		AccentAlt: lipgloss.Color("#81A1C1"),
		Success:   lipgloss.Color("#A3BE8C"),
		Warn:      lipgloss.Color("#EBCB8B"),
		Error:     lipgloss.Color("#BF616A"),
	}
	LightPalette = Palette{
		Ink:       lipgloss.Color("#2E3440"),
		Dim:       lipgloss.Color("#6B7280"),
		Accent:    lipgloss.Color("#0E7490"),
		AccentAlt: lipgloss.Color("#5E81AC"),
		Success:   lipgloss.Color("#4D7C0F"),
		Warn:      lipgloss.Color("#B45309"),
		Error:     lipgloss.Color("#B91C1C"),
	}
)

// PaletteFor returns the palette for a theme name; anything but "light" is dark.
func PaletteFor(theme string) Palette {
	if theme == "light" {
		return LightPalette
	}
	return DarkPalette
}

type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Dim     lipgloss.Style
	Bar     lipgloss.Style
	Accent  lipgloss.Style
	Success lipgloss.Style
	Warn    lipgloss.Style
	Failure lipgloss.Style
}

func NewStyles(p Palette) Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Label:   lipgloss.NewStyle().Foreground(p.Ink),
		Value:   lipgloss.NewStyle().Foreground(p.Ink).Bold(true),
		Dim:     lipgloss.NewStyle().Foreground(p.Dim),
		Bar:     lipgloss.NewStyle().Foreground(p.AccentAlt),
		Accent:  lipgloss.NewStyle().Foreground(p.AccentAlt),
		Success: lipgloss.NewStyle().Foreground(p.Success).Bold(true),
		Warn:    lipgloss.NewStyle().Foreground(p.Warn),
		Failure: lipgloss.NewStyle().Foreground(p.Error),
	}
}
