package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/henri123lemoine/heartline/internal/debug"
	"github.com/henri123lemoine/heartline/internal/exec"
	"github.com/henri123lemoine/heartline/internal/journal"
	"github.com/henri123lemoine/heartline/internal/script"
	"github.com/henri123lemoine/heartline/internal/store"
	"github.com/henri123lemoine/heartline/internal/theme"
)

// Operation names reported in RecordsChangedMsg.
const (
	opAddEntry    = "add chapter"
	opEditEntry   = "edit chapter"
	opDeleteEntry = "delete chapter"
	opAddGoal     = "add goal"
	opAddReminder = "add reminder"
	opToggle      = "toggle"
	opDelete      = "delete"
)

func loadRecords(j *journal.Journal, reg *theme.Registry, fallback string) tea.Cmd {
	return func() tea.Msg {
		defer debug.Timed("load records")()

		var msg RecordsLoadedMsg
		if msg.Entries, msg.Err = j.Entries(); msg.Err != nil {
			return msg
		}
		if msg.Goals, msg.Err = j.Goals(); msg.Err != nil {
			return msg
		}
		if msg.Reminders, msg.Err = j.Reminders(); msg.Err != nil {
			return msg
		}
		msg.Theme = currentTheme(reg, fallback)
		return msg
	}
}

// currentTheme is the persisted theme, or the configured one when nothing
// has been picked yet.
func currentTheme(reg *theme.Registry, fallback string) string {
	if _, ok, err := reg.Stored(); err == nil && ok {
		return reg.Current()
	}
	if theme.Valid(fallback) {
		return fallback
	}
	return theme.Default
}

func mutate(op string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		defer debug.Timed(op)()
		err := fn()
		if err != nil {
			debug.Log("%s failed: %v", op, err)
		}
		return RecordsChangedMsg{Op: op, Err: err}
	}
}

func applyTheme(reg *theme.Registry, id string) tea.Cmd {
	return func() tea.Msg {
		return ThemeAppliedMsg{ID: id, Err: reg.Apply(id)}
	}
}

func runScript(runner *script.Runner, reg *theme.Registry, code, current string) tea.Cmd {
	return func() tea.Msg {
		defer debug.Timed("theme script")()

		host := newScriptHost(current)
		err := runner.Run(context.Background(), code, host)
		if err == nil {
			err = host.Err()
		}
		if err != nil {
			debug.Log("theme script failed: %v", err)
			return ScriptFinishedMsg{Err: err}
		}
		id := host.Theme()
		if id != current {
			if err := reg.Apply(id); err != nil {
				return ScriptFinishedMsg{Err: err}
			}
		}
		return ScriptFinishedMsg{Theme: id}
	}
}

func exportTo(j *journal.Journal, path string) tea.Cmd {
	return func() tea.Msg {
		return ExportedMsg{Path: path, Err: j.ExportFile(path)}
	}
}

func importFrom(j *journal.Journal, path string) tea.Cmd {
	return func() tea.Msg {
		return ImportedMsg{Path: path, Err: j.ImportFile(path)}
	}
}

// editExternally suspends the UI and opens text in the configured editor.
func editExternally(template, text string) tea.Cmd {
	draft, err := exec.NewDraft(text)
	if err != nil {
		return func() tea.Msg { return EditorFinishedMsg{Err: err} }
	}
	return tea.ExecProcess(exec.EditorCommand(template, draft.Path), func(err error) tea.Msg {
		defer draft.Remove()
		if err != nil {
			return EditorFinishedMsg{Err: err}
		}
		text, err := draft.Read()
		return EditorFinishedMsg{Text: text, Err: err}
	})
}

// waitForChange blocks until the watcher reports an external write.
func waitForChange(w *store.Watcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.Changes():
			return StoreChangedMsg{}
		case <-w.Done():
			return nil
		}
	}
}
