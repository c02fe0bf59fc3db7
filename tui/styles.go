package tui

import "github.com/charmbracelet/lipgloss"

// Styles is the colour scheme of one theme.
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Up       lipgloss.Style
	Down     lipgloss.Style
	Favorite lipgloss.Style
	Error    lipgloss.Style
	Chart    lipgloss.Style
	Active   lipgloss.Style
	Box      lipgloss.Style
}

type palette struct {
	fg, muted, accent, selBg, up, down, star, err, border string
}

var (
	lightColors = palette{
		fg: "#1f2937", muted: "#6b7280", accent: "#2563eb", selBg: "#dbeafe",
		up: "#16a34a", down: "#dc2626", star: "#ca8a04", err: "#b91c1c", border: "#d1d5db",
	}
	darkColors = palette{
		fg: "#e5e7eb", muted: "#9ca3af", accent: "#00c8ff", selBg: "#1e3a5f",
		up: "#4ade80", down: "#f87171", star: "#facc15", err: "#f87171", border: "#374151",
	}
)

// NewStyles builds the light or dark theme.
func NewStyles(dark bool) Styles {
	p := lightColors
	if dark {
		p = darkColors
	}

	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.accent)),
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.muted)),
		Row:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.fg)),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color(p.fg)).Background(lipgloss.Color(p.selBg)).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		Up:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.up)),
		Down:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.down)),
		Favorite: lipgloss.NewStyle().Foreground(lipgloss.Color(p.star)),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.err)),
		Chart:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.accent)),
		Active:   lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color(p.accent)),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),
	}
}
