package app

import (
	"github.com/henri123lemoine/heartline/internal/journal"
)

// Message types for the bubbletea app.

// RecordsLoadedMsg is sent when all three lists and the theme are loaded.
type RecordsLoadedMsg struct {
	Entries   []journal.Entry
	Goals     []journal.Goal
	Reminders []journal.Reminder
	Theme     string
	Err       error
}

// RecordsChangedMsg is sent after a mutation of a list.
type RecordsChangedMsg struct {
	Op  string
	Err error
}

// ThemeAppliedMsg is sent when a theme has been persisted.
type ThemeAppliedMsg struct {
	ID  string
	Err error
}

// ScriptFinishedMsg is sent when a theme script completes.
type ScriptFinishedMsg struct {
	Theme string
	Err   error
}

// ExportedMsg is sent when the journal has been written to a file.
type ExportedMsg struct {
	Path string
	Err  error
}

// ImportedMsg is sent when a journal file has replaced the stored data.
type ImportedMsg struct {
	Path string
	Err  error
}

// EditorFinishedMsg is sent when the external editor closes.
type EditorFinishedMsg struct {
	Text string
	Err  error
}

// StoreChangedMsg is sent when another process changed the stored data.
type StoreChangedMsg struct{}
