package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/henri123lemoine/heartline/internal/theme"
)

// Styles holds the lipgloss styles derived from a theme palette.
type Styles struct {
	Box         lipgloss.Style
	Pane        lipgloss.Style
	FocusedPane lipgloss.Style
	Title       lipgloss.Style
	Header      lipgloss.Style
	Selected    lipgloss.Style
	Normal      lipgloss.Style
	Muted       lipgloss.Style
	Done        lipgloss.Style
	Tag         lipgloss.Style
	Help        lipgloss.Style
	Input       lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	Divider     lipgloss.Style
	Alert       lipgloss.Style
}

// NewStyles builds the styles for a palette.
func NewStyles(p theme.Palette) Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(1, 2),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		FocusedPane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Muted),
		Selected: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Normal: lipgloss.NewStyle().
			Foreground(p.Text),
		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),
		Done: lipgloss.NewStyle().
			Foreground(p.Muted).
			Strikethrough(true),
		Tag: lipgloss.NewStyle().
			Foreground(p.Accent),
		Help: lipgloss.NewStyle().
			Foreground(p.Muted),
		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(p.Danger),
		Success: lipgloss.NewStyle().
			Foreground(p.Success),
		Warning: lipgloss.NewStyle().
			Foreground(p.Warning),
		Divider: lipgloss.NewStyle().
			Foreground(p.Border),
		Alert: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.Accent).
			Foreground(p.Text).
			Padding(1, 3),
	}
}

// Symbols
const (
	SymbolCursor  = "›"
	SymbolActive  = "•"
	SymbolLocked  = "🔒"
	SymbolOpen    = "🔓"
	SymbolDivider = "─"
)
