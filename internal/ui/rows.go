package ui

import (
	"github.com/henri123lemoine/heartline/internal/journal"
)

// Action is a control offered by a displayed record.
type Action string

const (
	ActionToggle Action = "toggle"
	ActionDelete Action = "delete"
	ActionEdit   Action = "edit"
	ActionView   Action = "view"
)

// DefaultPreviewLength is the number of runes of a chapter shown in the list.
const DefaultPreviewLength = 50

// Row is one displayed record.
type Row struct {
	ID      string
	Kind    journal.Kind
	Title   string
	Detail  string
	Glyph   string
	Done    bool
	Actions []Action
}

// Has reports whether the row offers a.
func (r Row) Has(a Action) bool {
	for _, x := range r.Actions {
		if x == a {
			return true
		}
	}
	return false
}

// ActionLabel returns the button text of a on this row.
func (r Row) ActionLabel(a Action) string {
	switch a {
	case ActionToggle:
		if r.Done {
			return "Undo"
		}
		return "Done"
	case ActionDelete:
		return "Delete"
	case ActionEdit:
		return "Edit"
	case ActionView:
		return "View"
	}
	return string(a)
}

// FilterText is the text a row is matched against when filtering.
func (r Row) FilterText() string {
	if r.Detail == "" {
		return r.Title
	}
	return r.Title + " " + r.Detail
}

// Preview returns the first n runes of text followed by "...".
func Preview(text string, n int) string {
	if n <= 0 {
		n = DefaultPreviewLength
	}
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes) + "..."
}

// EntryRows returns entries newest first. Rows keep the record ID so
// actions address the right chapter regardless of display order.
func EntryRows(entries []journal.Entry, unlocked bool, previewLen int) []Row {
	rows := make([]Row, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		actions := []Action{ActionView}
		if unlocked {
			actions = append(actions, ActionEdit, ActionDelete)
		}
		rows = append(rows, Row{
			ID:      e.ID,
			Kind:    journal.KindEntries,
			Title:   e.Date,
			Detail:  Preview(e.Text, previewLen),
			Actions: actions,
		})
	}
	return rows
}

// GoalRows returns goals in insertion order.
func GoalRows(goals []journal.Goal, unlocked bool) []Row {
	rows := make([]Row, 0, len(goals))
	for _, g := range goals {
		rows = append(rows, Row{
			ID:      g.ID,
			Kind:    journal.KindGoals,
			Title:   g.Text,
			Glyph:   g.Priority.Glyph(),
			Done:    g.Done,
			Actions: toggleActions(unlocked),
		})
	}
	return rows
}

// ReminderRows returns reminders in insertion order as "date @ time: text".
func ReminderRows(reminders []journal.Reminder, unlocked bool) []Row {
	rows := make([]Row, 0, len(reminders))
	for _, r := range reminders {
		rows = append(rows, Row{
			ID:      r.ID,
			Kind:    journal.KindReminders,
			Title:   r.When() + ": " + r.Text,
			Glyph:   r.Priority.Glyph(),
			Done:    r.Done,
			Actions: toggleActions(unlocked),
		})
	}
	return rows
}

func toggleActions(unlocked bool) []Action {
	if unlocked {
		return []Action{ActionToggle, ActionDelete}
	}
	return []Action{ActionToggle}
}
