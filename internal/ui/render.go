package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/henri123lemoine/heartline/internal/journal"
	"github.com/henri123lemoine/heartline/internal/theme"
)

// State constants (matching app.State)
const (
	StateList = iota
	StateCompose
	StateAddGoal
	StateAddReminder
	StateUnlock
	StateEdit
	StateConfirmDelete
	StateView
	StateThemes
	StateScript
	StateExport
	StateImport
	StateFilter
	StateHelp
)

// Pane indexes, in focus order.
const (
	PaneChapters = iota
	PaneGoals
	PaneReminders
	PaneCount
)

// EmptyChapters is shown when there are no entries.
const EmptyChapters = "No chapters yet. Begin today."

// HelpBinding represents a keybinding for help display.
type HelpBinding struct {
	Keys string
	Desc string
}

// HelpSection represents a section of help bindings.
type HelpSection struct {
	Title    string
	Bindings []HelpBinding
}

// Field is one input of a form, already rendered by its bubble.
type Field struct {
	Label   string
	View    string
	Focused bool
}

// Form describes the input screens (compose, add, unlock, script, ...).
type Form struct {
	Title    string
	Fields   []Field
	Priority *PriorityPick
	Hint     string
	Help     string
}

// PriorityPick is the priority selector of the goal and reminder forms.
type PriorityPick struct {
	Index   int
	Focused bool
}

// RenderParams contains all parameters needed for rendering.
type RenderParams struct {
	State         int
	Styles        Styles
	Width         int
	Height        int
	Theme         string
	Unlocked      bool
	Focus         int
	Panes         [PaneCount][]Row
	Cursors       [PaneCount]int
	FilterInput   string
	FilterValue   string
	Form          *Form
	ConfirmTarget string
	ViewTitle     string
	ViewBody      string
	ViewScroll    float64
	ThemeOptions  []theme.Option
	ThemeCursor   int
	HelpSections  []HelpSection
	Status        string
	Alert         string
}

// MinWidth is the absolute minimum terminal width we try to support.
const MinWidth = 30

// MinHeight is the absolute minimum terminal height we try to support.
const MinHeight = 8

// SideBySideWidth is the width from which panes are laid out in columns.
const SideBySideWidth = 120

// Render renders the full UI.
func Render(p RenderParams) string {
	if p.Width < MinWidth {
		p.Width = MinWidth
	}
	if p.Height < MinHeight {
		p.Height = MinHeight
	}

	if p.Alert != "" {
		return renderAlert(p)
	}

	switch p.State {
	case StateCompose, StateAddGoal, StateAddReminder, StateUnlock,
		StateEdit, StateScript, StateExport, StateImport:
		return renderForm(p)
	case StateConfirmDelete:
		return renderConfirmDelete(p)
	case StateView:
		return renderView(p)
	case StateThemes:
		return renderThemes(p)
	case StateHelp:
		return renderHelp(p)
	default:
		return renderHome(p)
	}
}

// renderHome renders the three record panes.
func renderHome(p RenderParams) string {
	s := p.Styles
	var b strings.Builder
	contentWidth := p.Width - 4

	b.WriteString(renderHeader(p) + "\n")
	b.WriteString(s.Divider.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n")

	if p.State == StateFilter || p.FilterValue != "" {
		filter := p.FilterInput
		if filter == "" {
			filter = p.FilterValue
		}
		b.WriteString(s.Header.Render("FILTER") + "  " + filter + "\n")
	}

	titles := [PaneCount]string{"CHAPTERS", "GOALS", "REMINDERS"}
	sideBySide := p.Width >= SideBySideWidth
	paneWidth := contentWidth - 4
	visible := max(2, (p.Height-12)/PaneCount)
	if sideBySide {
		paneWidth = contentWidth/PaneCount - 4
		visible = max(2, p.Height-12)
	}

	panes := make([]string, PaneCount)
	for i := range PaneCount {
		body := renderPane(p, i, titles[i], paneWidth, visible)
		style := s.Pane
		if i == p.Focus {
			style = s.FocusedPane
		}
		panes[i] = style.Width(paneWidth).Render(body)
	}
	if sideBySide {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panes...))
	} else {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, panes...))
	}

	b.WriteString("\n" + s.Divider.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n")
	if p.Status != "" {
		b.WriteString(s.Success.Render(p.Status) + "\n")
	}
	var helpText string
	switch {
	case p.State == StateFilter:
		helpText = "enter keep • esc clear"
	case p.Unlocked:
		helpText = compactHelp(
			"n new • x done • e edit • d delete • enter view • t theme • s script • / filter • ? help • q quit",
			"n•x•e•d•enter•t•s•/•?•q",
			p.Width,
		)
	default:
		helpText = compactHelp(
			"n new • x done • enter view • u unlock • t theme • s script • / filter • ? help • q quit",
			"n•x•enter•u•t•s•/•?•q",
			p.Width,
		)
	}
	b.WriteString(s.Help.Render(helpText))

	return wrapInBox(s, b.String(), p.Width)
}

func renderHeader(p RenderParams) string {
	s := p.Styles
	lockState := SymbolLocked + " locked"
	if p.Unlocked {
		lockState = SymbolOpen + " unlocked"
	}
	return s.Title.Render("HEARTLINE") + "  " +
		s.Muted.Render(theme.DisplayName(p.Theme)) + "  " +
		s.Muted.Render(lockState)
}

// renderPane renders one list. Only the focused pane shows a cursor.
func renderPane(p RenderParams, pane int, title string, width, visible int) string {
	s := p.Styles
	rows := p.Panes[pane]
	focused := pane == p.Focus

	var b strings.Builder
	header := fmt.Sprintf("%s (%d)", title, len(rows))
	if focused {
		b.WriteString(s.Title.Render(header))
	} else {
		b.WriteString(s.Header.Render(header))
	}

	if len(rows) == 0 {
		b.WriteString("\n" + s.Muted.Render(emptyMessage(pane, p.FilterValue)))
		return b.String()
	}

	cursor := p.Cursors[pane]
	start, end := visibleRange(cursor, len(rows), visible)
	if start > 0 {
		b.WriteString("\n" + s.Muted.Render(fmt.Sprintf("  ↑ %d more above", start)))
	}
	for i := start; i < end; i++ {
		b.WriteString("\n" + renderRow(s, rows[i], focused && i == cursor, width))
	}
	if end < len(rows) {
		b.WriteString("\n" + s.Muted.Render(fmt.Sprintf("  ↓ %d more below", len(rows)-end)))
	}
	return b.String()
}

func emptyMessage(pane int, filter string) string {
	if filter != "" {
		return "No matches found."
	}
	switch pane {
	case PaneChapters:
		return EmptyChapters
	case PaneGoals:
		return "No goals yet. Press 'n' to add one."
	default:
		return "No reminders yet. Press 'n' to add one."
	}
}

// visibleRange keeps the cursor inside a window of size visible.
func visibleRange(cursor, total, visible int) (int, int) {
	if total <= visible {
		return 0, total
	}
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := min(start+visible, total)
	return start, end
}

// renderRow renders a record with its action buttons.
func renderRow(s Styles, r Row, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = s.Selected.Render(SymbolCursor + " ")
	}

	var line string
	switch r.Kind {
	case journal.KindEntries:
		title := s.Normal.Render(r.Title)
		if selected {
			title = s.Selected.Render(r.Title)
		}
		line = cursor + title + "\n    " + s.Muted.Render(truncate(r.Detail, width-4))
	default:
		text := truncate(r.Title, width-6)
		switch {
		case r.Done:
			text = s.Done.Render(text)
		case selected:
			text = s.Selected.Render(text)
		default:
			text = s.Normal.Render(text)
		}
		line = cursor + r.Glyph + " " + text
	}

	if selected {
		var tags []string
		for _, a := range r.Actions {
			tags = append(tags, s.Tag.Render("["+r.ActionLabel(a)+"]"))
		}
		line += "\n    " + strings.Join(tags, " ")
	}
	return line
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 1 || len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// renderForm renders any of the input screens.
func renderForm(p RenderParams) string {
	s := p.Styles
	var b strings.Builder
	contentWidth := p.Width - 4

	f := p.Form
	if f == nil {
		return wrapInBox(s, "", p.Width)
	}

	b.WriteString(s.Header.Render(f.Title) + "\n")
	b.WriteString(s.Divider.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n\n")

	for _, field := range f.Fields {
		label := field.Label
		if field.Focused {
			label = s.Selected.Render(label)
		}
		b.WriteString(label + "\n")
		b.WriteString(field.View + "\n\n")
	}

	if f.Priority != nil {
		label := "Priority:"
		if f.Priority.Focused {
			label = s.Selected.Render(label)
		}
		b.WriteString(label + "  " + renderPriorities(s, f.Priority.Index) + "\n\n")
	}

	if f.Hint != "" {
		b.WriteString(s.Muted.Render(f.Hint) + "\n")
	}

	b.WriteString("\n" + s.Divider.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n")
	b.WriteString(s.Help.Render(f.Help))

	return wrapInBox(s, b.String(), p.Width)
}

func renderPriorities(s Styles, selected int) string {
	parts := make([]string, len(journal.Priorities))
	for i, pr := range journal.Priorities {
		label := fmt.Sprintf("%d %s %s", i+1, pr.Glyph(), pr)
		if i == selected {
			parts[i] = s.Selected.Render("[" + label + "]")
		} else {
			parts[i] = s.Muted.Render(" " + label + " ")
		}
	}
	return strings.Join(parts, " ")
}

// renderConfirmDelete renders the delete confirmation.
func renderConfirmDelete(p RenderParams) string {
	s := p.Styles
	var b strings.Builder
	contentWidth := p.Width - 4

	b.WriteString(s.Header.Render("DELETE CHAPTER") + "\n")
	b.WriteString(s.Divider.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n\n")
	b.WriteString(s.Warning.Render("⚠ This chapter will be gone for good.") + "\n\n")
	b.WriteString(s.Normal.Render(p.ConfirmTarget) + "\n")
	b.WriteString("\n" + s.Help.Render("y confirm • n cancel"))

	return wrapInBox(s, b.String(), p.Width)
}

// renderView renders a chapter in its viewport.
func renderView(p RenderParams) string {
	s := p.Styles
	var b strings.Builder
	contentWidth := p.Width - 4

	header := s.Title.Render(p.ViewTitle)
	if p.ViewScroll >= 0 {
		header += "  " + s.Muted.Render(fmt.Sprintf("↕ %.0f%%", p.ViewScroll*100))
	}
	b.WriteString(header + "\n")
	b.WriteString(s.Divider.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n")
	b.WriteString(p.ViewBody + "\n")
	b.WriteString(s.Divider.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n")
	b.WriteString(s.Help.Render("↑/↓ scroll • esc back"))

	return wrapInBox(s, b.String(), p.Width)
}

// renderThemes renders the theme picker.
func renderThemes(p RenderParams) string {
	s := p.Styles
	var b strings.Builder
	contentWidth := p.Width - 4

	b.WriteString(s.Header.Render("THEMES") + "\n")
	b.WriteString(s.Divider.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n\n")

	for i, opt := range p.ThemeOptions {
		cursor := "  "
		name := s.Normal.Render(opt.Name)
		if i == p.ThemeCursor {
			cursor = s.Selected.Render(SymbolCursor + " ")
			name = s.Selected.Render(opt.Name)
		}
		active := ""
		if opt.Active {
			active = s.Tag.Render(" " + SymbolActive + " active")
		}
		b.WriteString(cursor + name + active + "\n")
	}

	b.WriteString("\n" + s.Divider.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n")
	b.WriteString(s.Help.Render("↑/↓ select • enter apply • esc close"))

	return wrapInBox(s, b.String(), p.Width)
}

// renderHelp renders the help screen.
func renderHelp(p RenderParams) string {
	s := p.Styles
	var b strings.Builder
	contentWidth := p.Width - 4

	b.WriteString(s.Header.Render("HELP") + "\n")
	b.WriteString(s.Divider.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n\n")

	for i, section := range p.HelpSections {
		b.WriteString(s.Normal.Render(section.Title) + "\n")
		b.WriteString(s.Divider.Render(strings.Repeat(SymbolDivider, 40)) + "\n")
		for _, binding := range section.Bindings {
			// Pad keys to 12 chars for alignment
			keys := binding.Keys
			if len(keys) < 12 {
				keys = keys + strings.Repeat(" ", 12-len(keys))
			}
			b.WriteString(s.Muted.Render("  "+keys) + " " + binding.Desc + "\n")
		}
		if i < len(p.HelpSections)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + s.Divider.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n")
	b.WriteString(s.Help.Render("Press any key to close"))

	return wrapInBox(s, b.String(), p.Width)
}

// renderAlert renders a message box over the screen. Any key dismisses it.
func renderAlert(p RenderParams) string {
	s := p.Styles
	width := min(p.Width-4, 60)
	box := s.Alert.Width(width).Render(p.Alert + "\n\n" + s.Help.Render("Press any key"))
	return lipgloss.Place(p.Width, p.Height, lipgloss.Center, lipgloss.Center, box)
}

// RenderMarkdown renders a chapter for the viewer. Text that glamour cannot
// render is shown as is.
func RenderMarkdown(text string, width int, themeID string) string {
	style := "dark"
	if themeID == theme.Default {
		style = "light"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(20, width)),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// wrapInBox wraps content in a box.
func wrapInBox(s Styles, content string, width int) string {
	boxWidth := width - 2
	// Graceful degradation: use actual width, just ensure minimum for box borders
	if boxWidth < MinWidth-2 {
		boxWidth = MinWidth - 2
	}
	return s.Box.Width(boxWidth).Render(content)
}

// compactHelp returns a shortened help string for small terminals.
func compactHelp(full, compact string, width int) string {
	if width >= 100 {
		return full
	}
	return compact
}
