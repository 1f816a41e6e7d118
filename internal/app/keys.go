package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/henri123lemoine/heartline/internal/config"
	"github.com/henri123lemoine/heartline/internal/ui"
)

// KeyMap defines all keybindings.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	NextPane key.Binding
	PrevPane key.Binding

	// Records
	New    key.Binding
	Toggle key.Binding
	Delete key.Binding
	Edit   key.Binding
	View   key.Binding

	// Journal
	Unlock key.Binding
	Themes key.Binding
	Script key.Binding
	Export key.Binding
	Import key.Binding
	Filter key.Binding

	// Forms
	Save         key.Binding
	ExternalEdit key.Binding
	DeleteOpen   key.Binding

	// General
	Confirm key.Binding
	Cancel  key.Binding
	Quit    key.Binding
	Help    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", "first"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", "last"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		PrevPane: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous pane"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new chapter, goal or reminder"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x", "done / undo"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete (unlocked)"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit chapter (unlocked)"),
		),
		View: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "read chapter"),
		),
		Unlock: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unlock"),
		),
		Themes: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "themes"),
		),
		Script: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "theme script"),
		),
		Export: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export"),
		),
		Import: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "import"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save / run"),
		),
		ExternalEdit: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "open in $EDITOR"),
		),
		DeleteOpen: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "delete chapter being edited"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", "y"),
			key.WithHelp("enter/y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "n"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// KeyMapFromConfig creates a KeyMap from config settings.
func KeyMapFromConfig(cfg *config.KeysConfig) KeyMap {
	km := DefaultKeyMap()

	override := func(b *key.Binding, keys string) {
		if keys == "" {
			return
		}
		*b = key.NewBinding(
			key.WithKeys(parseKeys(keys)...),
			key.WithHelp(keys, b.Help().Desc),
		)
	}

	override(&km.Up, cfg.Up)
	override(&km.Down, cfg.Down)
	override(&km.Home, cfg.Home)
	override(&km.End, cfg.End)
	override(&km.NextPane, cfg.NextPane)
	override(&km.PrevPane, cfg.PrevPane)
	override(&km.New, cfg.New)
	override(&km.Toggle, cfg.Toggle)
	override(&km.Delete, cfg.Delete)
	override(&km.Edit, cfg.Edit)
	override(&km.View, cfg.View)
	override(&km.Unlock, cfg.Unlock)
	override(&km.Themes, cfg.Themes)
	override(&km.Script, cfg.Script)
	override(&km.Export, cfg.Export)
	override(&km.Import, cfg.Import)
	override(&km.Filter, cfg.Filter)
	override(&km.Help, cfg.Help)
	override(&km.Quit, cfg.Quit)

	return km
}

// parseKeys parses a comma-separated list of keys. "space" names the space bar.
func parseKeys(s string) []string {
	parts := strings.Split(s, ",")
	var keys []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "space" {
			p = " "
		}
		if p != "" {
			keys = append(keys, p)
		}
	}
	return keys
}

// HelpSections groups the bindings for the help screen.
func (km KeyMap) HelpSections() []ui.HelpSection {
	section := func(title string, bindings ...key.Binding) ui.HelpSection {
		s := ui.HelpSection{Title: title}
		for _, b := range bindings {
			h := b.Help()
			s.Bindings = append(s.Bindings, ui.HelpBinding{Keys: h.Key, Desc: h.Desc})
		}
		return s
	}

	return []ui.HelpSection{
		section("Navigation", km.Up, km.Down, km.Home, km.End, km.NextPane, km.PrevPane),
		section("Records", km.New, km.Toggle, km.View, km.Edit, km.Delete),
		section("Journal", km.Unlock, km.Themes, km.Script, km.Filter, km.Export, km.Import),
		section("Writing", km.Save, km.ExternalEdit, km.DeleteOpen),
		section("General", km.Help, km.Quit),
	}
}
