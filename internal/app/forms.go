package app

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/henri123lemoine/heartline/internal/journal"
	"github.com/henri123lemoine/heartline/internal/ui"
)

// Reminder form fields, in tab order.
const (
	reminderText = iota
	reminderDate
	reminderTime
	reminderPriority
)

// goalPriority is the goal form's priority field.
const goalPriority = 1

// openNew starts the add flow of the focused pane.
func (m Model) openNew() (tea.Model, tea.Cmd) {
	m.formFocus = 0
	m.priority = 0

	switch m.focus {
	case ui.PaneGoals:
		m.state = StateAddGoal
		m.goalInput.Reset()
		m.goalInput.Focus()
		return m, textinput.Blink
	case ui.PaneReminders:
		m.state = StateAddReminder
		for i := range m.reminderInputs {
			m.reminderInputs[i].Reset()
			m.reminderInputs[i].Blur()
		}
		m.reminderInputs[reminderText].Focus()
		return m, textinput.Blink
	default:
		m.state = StateCompose
		m.chapterInput.Reset()
		m.chapterInput.Focus()
		return m, textarea.Blink
	}
}

// openEdit opens the edit flow for a chapter.
func (m Model) openEdit(id string) (tea.Model, tea.Cmd) {
	e, ok := m.entryByID(id)
	if !ok {
		return m, nil
	}
	m.editID = id
	m.state = StateEdit
	m.chapterInput.SetValue(e.Text)
	m.chapterInput.Focus()
	return m, textarea.Blink
}

// closeEdit closes the edit flow, discarding anything unsaved.
func (m *Model) closeEdit() {
	m.editID = ""
	m.state = StateList
	m.chapterInput.Reset()
	m.chapterInput.Blur()
}

func (m Model) openPath(state State) (tea.Model, tea.Cmd) {
	m.state = state
	m.pathInput.SetValue(m.config.ExportPath())
	m.pathInput.CursorEnd()
	m.pathInput.Focus()
	return m, textinput.Blink
}

// handleComposeKeys handles key presses while writing a new chapter.
func (m Model) handleComposeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		m.state = StateList
		m.chapterInput.Reset()
		m.chapterInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		text := m.chapterInput.Value()
		m.state = StateList
		m.chapterInput.Reset()
		m.chapterInput.Blur()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		return m, mutate(opAddEntry, func() error {
			_, err := m.journal.AddEntry(text)
			return err
		})
	case key.Matches(msg, m.keys.ExternalEdit):
		return m, editExternally(m.config.Editor.Command, m.chapterInput.Value())
	}

	var cmd tea.Cmd
	m.chapterInput, cmd = m.chapterInput.Update(msg)
	return m, cmd
}

// handleEditKeys handles key presses in the open edit flow.
func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		m.closeEdit()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		text := m.chapterInput.Value()
		if strings.TrimSpace(text) == "" {
			m.alert = alertEmptyChapter
			return m, nil
		}
		id := m.editID
		m.closeEdit()
		return m, mutate(opEditEntry, func() error {
			return m.journal.EditEntry(id, text)
		})
	case key.Matches(msg, m.keys.DeleteOpen):
		m.deleteID = m.editID
		m.state = StateConfirmDelete
		return m, nil
	case key.Matches(msg, m.keys.ExternalEdit):
		return m, editExternally(m.config.Editor.Command, m.chapterInput.Value())
	}

	var cmd tea.Cmd
	m.chapterInput, cmd = m.chapterInput.Update(msg)
	return m, cmd
}

// handleConfirmDeleteKeys handles the chapter delete confirmation.
func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		id := m.deleteID
		m.deleteID = ""
		m.closeEdit()
		return m, mutate(opDeleteEntry, func() error {
			return m.journal.DeleteEntry(id)
		})
	case key.Matches(msg, m.keys.Cancel):
		m.deleteID = ""
		if m.editID != "" {
			m.state = StateEdit
		} else {
			m.state = StateList
		}
	}
	return m, nil
}

// handlePriorityKeys moves the priority selector. It reports whether the
// key was used.
func (m *Model) handlePriorityKeys(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "1", "2", "3":
		m.priority = int(msg.String()[0] - '1')
	case "left", "h":
		if m.priority > 0 {
			m.priority--
		}
	case "right", "l":
		if m.priority < len(journal.Priorities)-1 {
			m.priority++
		}
	default:
		return false
	}
	return true
}

// handleGoalKeys handles key presses in the add goal form.
func (m Model) handleGoalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = StateList
		m.goalInput.Reset()
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		if m.formFocus == goalPriority {
			m.formFocus = 0
			m.goalInput.Focus()
			return m, textinput.Blink
		}
		m.formFocus = goalPriority
		m.goalInput.Blur()
		return m, nil
	case tea.KeyEnter:
		text := m.goalInput.Value()
		p := journal.Priorities[m.priority]
		m.state = StateList
		m.goalInput.Reset()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		return m, mutate(opAddGoal, func() error {
			_, err := m.journal.AddGoal(text, p)
			return err
		})
	}

	if m.formFocus == goalPriority {
		m.handlePriorityKeys(msg)
		return m, nil
	}
	var cmd tea.Cmd
	m.goalInput, cmd = m.goalInput.Update(msg)
	return m, cmd
}

// handleReminderKeys handles key presses in the add reminder form.
func (m Model) handleReminderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = StateList
		return m, nil
	case tea.KeyTab:
		return m.focusReminderField((m.formFocus + 1) % (reminderPriority + 1))
	case tea.KeyShiftTab:
		return m.focusReminderField((m.formFocus + reminderPriority) % (reminderPriority + 1))
	case tea.KeyEnter:
		return m.submitReminder()
	}

	if m.formFocus == reminderPriority {
		m.handlePriorityKeys(msg)
		return m, nil
	}
	var cmd tea.Cmd
	m.reminderInputs[m.formFocus], cmd = m.reminderInputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m Model) focusReminderField(field int) (tea.Model, tea.Cmd) {
	m.formFocus = field
	for i := range m.reminderInputs {
		if i == field {
			m.reminderInputs[i].Focus()
		} else {
			m.reminderInputs[i].Blur()
		}
	}
	if field == reminderPriority {
		return m, nil
	}
	return m, textinput.Blink
}

// submitReminder saves the reminder. Blank text or date closes the form
// without saving; a malformed date or time keeps it open.
func (m Model) submitReminder() (tea.Model, tea.Cmd) {
	text := m.reminderInputs[reminderText].Value()
	date := strings.TrimSpace(m.reminderInputs[reminderDate].Value())
	clock := strings.TrimSpace(m.reminderInputs[reminderTime].Value())
	p := journal.Priorities[m.priority]

	if strings.TrimSpace(text) == "" || date == "" {
		m.state = StateList
		return m, nil
	}
	if _, err := time.Parse(journal.ReminderDateLayout, date); err != nil {
		m.alert = "Invalid date. Use YYYY-MM-DD."
		return m, nil
	}
	if clock != "" {
		if _, err := time.Parse(journal.ReminderTimeLayout, clock); err != nil {
			m.alert = "Invalid time. Use HH:MM."
			return m, nil
		}
	}

	m.state = StateList
	return m, mutate(opAddReminder, func() error {
		_, err := m.journal.AddReminder(text, date, clock, p)
		return err
	})
}

// handleUnlockKeys handles passphrase entry.
func (m Model) handleUnlockKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = StateList
		m.unlockInput.Reset()
		return m, nil
	case tea.KeyEnter:
		gate, err := m.gate.Unlock(m.unlockInput.Value(), m.config.Lock.Passphrase)
		m.unlockInput.Reset()
		if err != nil {
			m.alert = alertWrongPassphrase
			return m, nil
		}
		m.gate = gate
		m.state = StateList
		m.status = ui.SymbolOpen + " Unlocked"
		m.rebuildRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.unlockInput, cmd = m.unlockInput.Update(msg)
	return m, cmd
}

// handleScriptKeys handles key presses in the theme script editor.
func (m Model) handleScriptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		m.state = StateList
		m.scriptInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		code := m.scriptInput.Value()
		if strings.TrimSpace(code) == "" {
			m.alert = alertEmptyScript
			return m, nil
		}
		return m, runScript(m.runner, m.themes, code, m.theme)
	}

	var cmd tea.Cmd
	m.scriptInput, cmd = m.scriptInput.Update(msg)
	return m, cmd
}

// handlePathKeys handles the export and import file prompts.
func (m Model) handlePathKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = StateList
		m.pathInput.Blur()
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			return m, nil
		}
		if m.state == StateExport {
			return m, exportTo(m.journal, path)
		}
		return m, importFrom(m.journal, path)
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

// form describes the input screen of the current state.
func (m Model) form() *ui.Form {
	save := m.keys.Save.Help().Key
	editor := m.keys.ExternalEdit.Help().Key

	switch m.state {
	case StateCompose:
		return &ui.Form{
			Title:  "NEW CHAPTER  " + time.Now().Format(journal.EntryDateLayout),
			Fields: []ui.Field{{View: m.chapterInput.View(), Focused: true}},
			Help:   save + " save • " + editor + " $EDITOR • esc cancel",
		}
	case StateEdit:
		title := "EDIT CHAPTER"
		if e, ok := m.entryByID(m.editID); ok {
			title = "EDIT CHAPTER  " + e.Date
		}
		return &ui.Form{
			Title:  title,
			Fields: []ui.Field{{View: m.chapterInput.View(), Focused: true}},
			Help:   save + " save • " + m.keys.DeleteOpen.Help().Key + " delete • " + editor + " $EDITOR • esc discard",
		}
	case StateAddGoal:
		return &ui.Form{
			Title:    "NEW GOAL",
			Fields:   []ui.Field{{Label: "Goal:", View: m.goalInput.View(), Focused: m.formFocus == 0}},
			Priority: &ui.PriorityPick{Index: m.priority, Focused: m.formFocus == goalPriority},
			Help:     "tab next field • 1-3 priority • enter save • esc cancel",
		}
	case StateAddReminder:
		labels := []string{"Reminder:", "Date:", "Time:"}
		fields := make([]ui.Field, len(m.reminderInputs))
		for i, in := range m.reminderInputs {
			fields[i] = ui.Field{Label: labels[i], View: in.View(), Focused: m.formFocus == i}
		}
		return &ui.Form{
			Title:    "NEW REMINDER",
			Fields:   fields,
			Priority: &ui.PriorityPick{Index: m.priority, Focused: m.formFocus == reminderPriority},
			Help:     "tab next field • 1-3 priority • enter save • esc cancel",
		}
	case StateUnlock:
		return &ui.Form{
			Title:  "UNLOCK",
			Fields: []ui.Field{{Label: "Passphrase:", View: m.unlockInput.View(), Focused: true}},
			Hint:   "Unlocking reveals edit and delete for this session.",
			Help:   "enter unlock • esc cancel",
		}
	case StateScript:
		hint := "Go code. heartline.SetTheme(id), heartline.Theme() and heartline.Themes() are available."
		if !m.config.Script.Enabled {
			hint = "Theme scripts are disabled in config."
		}
		return &ui.Form{
			Title:  "THEME SCRIPT",
			Fields: []ui.Field{{View: m.scriptInput.View(), Focused: true}},
			Hint:   hint,
			Help:   save + " run • esc close",
		}
	case StateExport:
		return &ui.Form{
			Title:  "EXPORT",
			Fields: []ui.Field{{Label: "Write journal to:", View: m.pathInput.View(), Focused: true}},
			Help:   "enter export • esc cancel",
		}
	case StateImport:
		return &ui.Form{
			Title:  "IMPORT",
			Fields: []ui.Field{{Label: "Read journal from:", View: m.pathInput.View(), Focused: true}},
			Hint:   "Importing replaces all chapters, goals, reminders and the theme.",
			Help:   "enter import • esc cancel",
		}
	}
	return nil
}
