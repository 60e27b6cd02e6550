package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles styles, symbols and the panel border.
// Styles are bound to the renderer of the writer they are printed on.
type Theme struct {
	Name string

	Title   lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Pending lipgloss.Style
	Done    lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.TerminalColor

	BoxUnchecked string
	BoxChecked   string
	SymOK        string
	SymFail      string
	SymWarn      string

	renderer *lipgloss.Renderer
}

// NewTheme returns the named theme; unknown names fall back to classic.
func NewTheme(name string, r *lipgloss.Renderer) Theme {
	t := baseTheme(strings.ToLower(name), r)
	t.renderer = r
	return t
}

// NewStyle returns an empty style bound to the theme's renderer.
func (t Theme) NewStyle() lipgloss.Style {
	if t.renderer == nil {
		return lipgloss.NewStyle()
	}
	return t.renderer.NewStyle()
}

func baseTheme(name string, r *lipgloss.Renderer) Theme {
	switch name {
	case "neon":
		return Theme{
			Name:         "neon",
			Title:        r.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:        r.NewStyle().Foreground(lipgloss.Color("8")),
			Accent:       r.NewStyle().Foreground(lipgloss.Color("14")),
			Success:      r.NewStyle().Foreground(lipgloss.Color("10")),
			Error:        r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:      r.NewStyle().Foreground(lipgloss.Color("11")),
			Done:         r.NewStyle().Foreground(lipgloss.Color("10")),
			Border:       lipgloss.RoundedBorder(),
			BorderColor:  lipgloss.Color("13"),
			BoxUnchecked: "◻",
			BoxChecked:   "◼",
			SymOK:        "✔",
			SymFail:      "✖",
			SymWarn:      "!",
		}
	case "mono":
		return Theme{
			Name:         "mono",
			Title:        r.NewStyle(),
			Muted:        r.NewStyle(),
			Accent:       r.NewStyle(),
			Success:      r.NewStyle(),
			Error:        r.NewStyle(),
			Pending:      r.NewStyle(),
			Done:         r.NewStyle(),
			Border:       lipgloss.NormalBorder(),
			BorderColor:  lipgloss.NoColor{},
			BoxUnchecked: "[ ]",
			BoxChecked:   "[x]",
			SymOK:        "ok:",
			SymFail:      "error:",
			SymWarn:      "warning:",
		}
	default: // classic
		return Theme{
			Name:         "classic",
			Title:        r.NewStyle().Bold(true),
			Muted:        r.NewStyle().Faint(true),
			Accent:       r.NewStyle().Foreground(lipgloss.Color("12")),
			Success:      r.NewStyle().Foreground(lipgloss.Color("42")),
			Error:        r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:      r.NewStyle().Foreground(lipgloss.Color("214")),
			Done:         r.NewStyle().Foreground(lipgloss.Color("42")),
			Border:       lipgloss.RoundedBorder(),
			BorderColor:  lipgloss.Color("8"),
			BoxUnchecked: "☐",
			BoxChecked:   "☑",
			SymOK:        "✔",
			SymFail:      "✖",
			SymWarn:      "!",
		}
	}
}
