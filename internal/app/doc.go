// Package app provides the main Bubble Tea application model for heartline.
//
// Model is the explicit application state: loaded records, the lock gate,
// the active theme, and the state of whichever form or overlay is open.
// Update is a reducer that returns the next Model. Storage work runs in
// tea.Cmds that report back through the messages in messages.go, after
// which the affected lists are reloaded and every pane is redrawn.
package app
