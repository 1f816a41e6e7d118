package app

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/henri123lemoine/heartline/internal/config"
	"github.com/henri123lemoine/heartline/internal/journal"
	"github.com/henri123lemoine/heartline/internal/lock"
	"github.com/henri123lemoine/heartline/internal/script"
	"github.com/henri123lemoine/heartline/internal/store"
	"github.com/henri123lemoine/heartline/internal/theme"
	"github.com/henri123lemoine/heartline/internal/ui"
)

// State represents the current UI state.
type State int

const (
	StateList State = iota
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

// Alert texts shown to the user.
const (
	alertWrongPassphrase = "The void does not open for strangers."
	alertEmptyChapter    = "Chapter cannot be empty."
	alertEmptyScript     = "Please enter a script to execute."
	alertScriptOK        = "Theme Script executed successfully!"
	alertScriptFailed    = "Error executing script: "
)

// Model is the main application model.
type Model struct {
	// Configuration
	config  *config.Config
	journal *journal.Journal
	themes  *theme.Registry
	runner  *script.Runner
	watcher *store.Watcher

	// Data
	entries   []journal.Entry
	goals     []journal.Goal
	reminders []journal.Reminder
	rows      [ui.PaneCount][]ui.Row
	cursors   [ui.PaneCount]int
	focus     int

	// State
	state  State
	gate   lock.Gate
	theme  string
	styles ui.Styles
	alert  string
	status string

	// Chapter writing. editID is set while the edit flow is open.
	chapterInput textarea.Model
	editID       string
	deleteID     string

	// Goal and reminder forms
	goalInput      textinput.Model
	reminderInputs []textinput.Model
	formFocus      int
	priority       int

	unlockInput textinput.Model
	scriptInput textarea.Model
	pathInput   textinput.Model
	filterInput textinput.Model

	// Chapter viewer
	viewer    viewport.Model
	viewTitle string

	themeCursor int

	// UI
	width  int
	height int
	keys   KeyMap
}

// New creates a new Model. The gate starts locked on every launch.
func New(cfg *config.Config, j *journal.Journal) Model {
	chapterInput := textarea.New()
	chapterInput.Placeholder = "Write today's chapter..."
	chapterInput.ShowLineNumbers = false
	chapterInput.CharLimit = 0

	goalInput := textinput.New()
	goalInput.Placeholder = "What are you reaching for?"
	goalInput.CharLimit = 200

	reminderInputs := make([]textinput.Model, 3)
	for i, placeholder := range []string{"Remind me to...", "YYYY-MM-DD", "HH:MM (optional)"} {
		reminderInputs[i] = textinput.New()
		reminderInputs[i].Placeholder = placeholder
	}
	reminderInputs[reminderDate].CharLimit = 10
	reminderInputs[reminderTime].CharLimit = 5

	unlockInput := textinput.New()
	unlockInput.Placeholder = "passphrase"
	unlockInput.EchoMode = textinput.EchoPassword
	unlockInput.CharLimit = 100

	scriptInput := textarea.New()
	scriptInput.Placeholder = `heartline.SetTheme("cyberpunk")`
	scriptInput.CharLimit = 0

	pathInput := textinput.New()
	pathInput.Placeholder = "heartline-export.json"

	filterInput := textinput.New()
	filterInput.Placeholder = "filter..."
	filterInput.CharLimit = 50

	m := Model{
		config:         cfg,
		journal:        j,
		themes:         theme.NewRegistry(j.Backend()),
		runner:         script.NewRunner(cfg.Script.Enabled, cfg.ScriptTimeout()),
		gate:           lock.Locked(),
		keys:           KeyMapFromConfig(&cfg.Keys),
		chapterInput:   chapterInput,
		goalInput:      goalInput,
		reminderInputs: reminderInputs,
		unlockInput:    unlockInput,
		scriptInput:    scriptInput,
		pathInput:      pathInput,
		filterInput:    filterInput,
		state:          StateList,
	}
	m.setTheme(cfg.UI.Theme)
	return m
}

// WithWatcher makes the model reload whenever w reports a change.
func (m Model) WithWatcher(w *store.Watcher) Model {
	m.watcher = w
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.reload()}
	if m.watcher != nil {
		cmds = append(cmds, waitForChange(m.watcher))
	}
	return tea.Batch(cmds...)
}

func (m Model) reload() tea.Cmd {
	return loadRecords(m.journal, m.themes, m.config.UI.Theme)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		// Any key dismisses an alert
		if m.alert != "" {
			m.alert = ""
			return m, nil
		}
		if key.Matches(msg, m.keys.Quit) && m.state == StateList {
			return m, tea.Quit
		}
		return m.handleKeyPress(msg)

	case RecordsLoadedMsg:
		if msg.Err != nil {
			m.alert = msg.Err.Error()
			return m, nil
		}
		m.entries = msg.Entries
		m.goals = msg.Goals
		m.reminders = msg.Reminders
		m.setTheme(msg.Theme)
		m.rebuildRows()
		return m, nil

	case RecordsChangedMsg:
		if msg.Err != nil {
			m.alert = mutationAlert(msg)
		}
		return m, m.reload()

	case ThemeAppliedMsg:
		if msg.Err != nil {
			m.alert = "Could not save theme: " + msg.Err.Error()
		}
		return m, nil

	case ScriptFinishedMsg:
		switch {
		case errors.Is(msg.Err, script.ErrEmpty):
			m.alert = alertEmptyScript
		case msg.Err != nil:
			m.alert = alertScriptFailed + msg.Err.Error()
		default:
			m.setTheme(msg.Theme)
			m.themeCursor = max(0, slices.Index(theme.IDs(), msg.Theme))
			m.scriptInput.Reset()
			m.alert = alertScriptOK
		}
		return m, nil

	case ExportedMsg:
		if msg.Err != nil {
			m.alert = "Export failed: " + msg.Err.Error()
			return m, nil
		}
		m.state = StateList
		m.status = "Exported to " + msg.Path
		return m, nil

	case ImportedMsg:
		if msg.Err != nil {
			m.alert = "Import failed: " + msg.Err.Error()
			return m, nil
		}
		m.state = StateList
		m.status = "Imported " + msg.Path
		return m, m.reload()

	case EditorFinishedMsg:
		if msg.Err != nil {
			m.alert = "Editor failed: " + msg.Err.Error()
			return m, nil
		}
		m.chapterInput.SetValue(msg.Text)
		return m, nil

	case StoreChangedMsg:
		return m, tea.Batch(m.reload(), waitForChange(m.watcher))
	}

	return m.updateActiveInput(msg)
}

// mutationAlert turns a failed list mutation into alert text. Blank adds
// are silent; a blank edit is not.
func mutationAlert(msg RecordsChangedMsg) string {
	switch {
	case errors.Is(msg.Err, journal.ErrEmpty):
		if msg.Op == opEditEntry {
			return alertEmptyChapter
		}
		return ""
	case errors.Is(msg.Err, journal.ErrNotFound):
		return "That record no longer exists."
	}
	return fmt.Sprintf("Could not %s: %v", msg.Op, msg.Err)
}

// handleKeyPress handles key presses based on current state.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateList:
		return m.handleListKeys(msg)
	case StateCompose:
		return m.handleComposeKeys(msg)
	case StateEdit:
		return m.handleEditKeys(msg)
	case StateConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	case StateAddGoal:
		return m.handleGoalKeys(msg)
	case StateAddReminder:
		return m.handleReminderKeys(msg)
	case StateUnlock:
		return m.handleUnlockKeys(msg)
	case StateView:
		return m.handleViewKeys(msg)
	case StateThemes:
		return m.handleThemeKeys(msg)
	case StateScript:
		return m.handleScriptKeys(msg)
	case StateExport, StateImport:
		return m.handlePathKeys(msg)
	case StateFilter:
		return m.handleFilterKeys(msg)
	case StateHelp:
		return m.handleHelpKeys(msg)
	}
	return m, nil
}

// handleListKeys handles key presses in the pane view.
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	rows := m.rows[m.focus]

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursors[m.focus] > 0 {
			m.cursors[m.focus]--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursors[m.focus] < len(rows)-1 {
			m.cursors[m.focus]++
		}
	case key.Matches(msg, m.keys.Home):
		m.cursors[m.focus] = 0
	case key.Matches(msg, m.keys.End):
		m.cursors[m.focus] = max(0, len(rows)-1)
	case key.Matches(msg, m.keys.NextPane):
		m.focus = (m.focus + 1) % ui.PaneCount
	case key.Matches(msg, m.keys.PrevPane):
		m.focus = (m.focus + ui.PaneCount - 1) % ui.PaneCount
	case key.Matches(msg, m.keys.New):
		return m.openNew()
	case key.Matches(msg, m.keys.Toggle):
		if row, ok := m.selected(); ok && row.Has(ui.ActionToggle) {
			return m, mutate(opToggle, func() error {
				return m.journal.ToggleDone(row.Kind, row.ID)
			})
		}
	case key.Matches(msg, m.keys.Delete):
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		if !row.Has(ui.ActionDelete) {
			m.status = "Locked. Press " + m.keys.Unlock.Help().Key + " to unlock."
			return m, nil
		}
		if row.Kind == journal.KindEntries {
			m.deleteID = row.ID
			m.state = StateConfirmDelete
			return m, nil
		}
		return m, mutate(opDelete, func() error {
			return m.journal.Delete(row.Kind, row.ID)
		})
	case key.Matches(msg, m.keys.Edit):
		if row, ok := m.selected(); ok && row.Has(ui.ActionEdit) {
			return m.openEdit(row.ID)
		}
	case key.Matches(msg, m.keys.View):
		if row, ok := m.selected(); ok && row.Has(ui.ActionView) {
			return m.openViewer(row.ID)
		}
	case key.Matches(msg, m.keys.Unlock):
		if m.gate.Open() {
			m.status = "Already unlocked."
			return m, nil
		}
		m.state = StateUnlock
		m.unlockInput.Reset()
		m.unlockInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Themes):
		m.state = StateThemes
		m.themeCursor = max(0, slices.Index(theme.IDs(), m.theme))
	case key.Matches(msg, m.keys.Script):
		m.state = StateScript
		m.scriptInput.Focus()
		return m, textarea.Blink
	case key.Matches(msg, m.keys.Export):
		return m.openPath(StateExport)
	case key.Matches(msg, m.keys.Import):
		return m.openPath(StateImport)
	case key.Matches(msg, m.keys.Filter):
		m.state = StateFilter
		m.filterInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Help):
		m.state = StateHelp
	}
	return m, nil
}

// handleViewKeys handles key presses while reading a chapter.
func (m Model) handleViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.state = StateList
		return m, nil
	}
	var cmd tea.Cmd
	m.viewer, cmd = m.viewer.Update(msg)
	return m, cmd
}

// handleThemeKeys handles key presses in the theme picker.
func (m Model) handleThemeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ids := theme.IDs()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.themeCursor > 0 {
			m.themeCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.themeCursor < len(ids)-1 {
			m.themeCursor++
		}
	case msg.Type == tea.KeyEnter:
		id := ids[m.themeCursor]
		m.setTheme(id)
		return m, applyTheme(m.themes, id)
	case msg.Type == tea.KeyEsc, msg.String() == "q":
		m.state = StateList
	}
	return m, nil
}

// handleHelpKeys handles key presses in the help view.
func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	m.state = StateList
	return m, nil
}

// handleFilterKeys handles key presses in filter mode.
func (m Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = StateList
		m.filterInput.Reset()
		m.rebuildRows()
		return m, nil
	case tea.KeyEnter:
		m.state = StateList
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.rebuildRows()
	return m, cmd
}

// selected returns the row under the cursor of the focused pane.
func (m Model) selected() (ui.Row, bool) {
	rows := m.rows[m.focus]
	c := m.cursors[m.focus]
	if c < 0 || c >= len(rows) {
		return ui.Row{}, false
	}
	return rows[c], true
}

func (m Model) entryByID(id string) (journal.Entry, bool) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, true
		}
	}
	return journal.Entry{}, false
}

// openViewer shows a whole chapter in a scrollable viewport.
func (m Model) openViewer(id string) (tea.Model, tea.Cmd) {
	e, ok := m.entryByID(id)
	if !ok {
		return m, nil
	}
	width, height := m.viewerSize()
	body := e.Text
	if m.config.UI.Markdown {
		body = ui.RenderMarkdown(e.Text, width, m.theme)
	}
	m.viewer = viewport.New(width, height)
	m.viewer.SetContent(body)
	m.viewTitle = e.Date
	m.state = StateView
	return m, nil
}

func (m Model) viewerSize() (int, int) {
	return max(20, m.width-8), max(5, m.height-9)
}

func (m *Model) resize() {
	width := max(20, m.width-10)
	m.chapterInput.SetWidth(width)
	m.chapterInput.SetHeight(max(5, m.height-16))
	m.scriptInput.SetWidth(width)
	m.scriptInput.SetHeight(max(5, m.height-16))
	if m.state == StateView {
		m.viewer.Width, m.viewer.Height = m.viewerSize()
	}
}

func (m *Model) setTheme(id string) {
	m.theme = id
	m.styles = ui.NewStyles(theme.PaletteFor(id))
}

// rowSource implements fuzzy.Source for row matching.
type rowSource []ui.Row

func (r rowSource) String(i int) string {
	return r[i].FilterText()
}

func (r rowSource) Len() int {
	return len(r)
}

// rebuildRows redraws every pane from the loaded records, the gate and the
// filter.
func (m *Model) rebuildRows() {
	unlocked := m.gate.Open()
	all := [ui.PaneCount][]ui.Row{
		ui.EntryRows(m.entries, unlocked, m.config.UI.PreviewLength),
		ui.GoalRows(m.goals, unlocked),
		ui.ReminderRows(m.reminders, unlocked),
	}

	filter := m.filterInput.Value()
	for i, rows := range all {
		m.rows[i] = filterRows(rows, filter)

		// Ensure cursor is in bounds
		if m.cursors[i] >= len(m.rows[i]) {
			m.cursors[i] = len(m.rows[i]) - 1
		}
		if m.cursors[i] < 0 {
			m.cursors[i] = 0
		}
	}
}

// filterRows keeps fuzzy matches in display order.
func filterRows(rows []ui.Row, filter string) []ui.Row {
	if strings.TrimSpace(filter) == "" {
		return rows
	}
	matches := fuzzy.FindFrom(filter, rowSource(rows))
	idx := make([]int, len(matches))
	for i, match := range matches {
		idx[i] = match.Index
	}
	slices.Sort(idx)

	out := make([]ui.Row, len(idx))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return out
}

// updateActiveInput forwards non-key messages (cursor blinks) to the
// focused input.
func (m Model) updateActiveInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case StateCompose, StateEdit:
		m.chapterInput, cmd = m.chapterInput.Update(msg)
	case StateScript:
		m.scriptInput, cmd = m.scriptInput.Update(msg)
	case StateAddGoal:
		m.goalInput, cmd = m.goalInput.Update(msg)
	case StateAddReminder:
		if m.formFocus < len(m.reminderInputs) {
			m.reminderInputs[m.formFocus], cmd = m.reminderInputs[m.formFocus].Update(msg)
		}
	case StateUnlock:
		m.unlockInput, cmd = m.unlockInput.Update(msg)
	case StateExport, StateImport:
		m.pathInput, cmd = m.pathInput.Update(msg)
	case StateFilter:
		m.filterInput, cmd = m.filterInput.Update(msg)
	case StateView:
		m.viewer, cmd = m.viewer.Update(msg)
	}
	return m, cmd
}

// View renders the UI.
func (m Model) View() string {
	p := ui.RenderParams{
		State:        int(m.state),
		Styles:       m.styles,
		Width:        m.width,
		Height:       m.height,
		Theme:        m.theme,
		Unlocked:     m.gate.Open(),
		Focus:        m.focus,
		Panes:        m.rows,
		Cursors:      m.cursors,
		FilterInput:  m.filterInput.View(),
		FilterValue:  m.filterInput.Value(),
		HelpSections: m.keys.HelpSections(),
		Status:       m.status,
		Alert:        m.alert,
	}

	switch m.state {
	case StateConfirmDelete:
		p.ConfirmTarget = m.confirmText()
	case StateView:
		p.ViewTitle = m.viewTitle
		p.ViewBody = m.viewer.View()
		p.ViewScroll = -1
		if m.viewer.TotalLineCount() > m.viewer.VisibleLineCount() {
			p.ViewScroll = m.viewer.ScrollPercent()
		}
	case StateThemes:
		p.ThemeOptions = theme.Picker(m.theme)
		p.ThemeCursor = m.themeCursor
	default:
		p.Form = m.form()
	}

	return ui.Render(p)
}

func (m Model) confirmText() string {
	e, ok := m.entryByID(m.deleteID)
	if !ok {
		return "Delete this chapter?"
	}
	return fmt.Sprintf("Are you sure you want to delete the chapter from %s?", e.Date)
}

// Unlocked reports whether edit and delete controls are revealed.
func (m Model) Unlocked() bool {
	return m.gate.Open()
}
