package app

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/henri123lemoine/heartline/internal/config"
	"github.com/henri123lemoine/heartline/internal/journal"
	"github.com/henri123lemoine/heartline/internal/store"
	"github.com/henri123lemoine/heartline/internal/theme"
	"github.com/henri123lemoine/heartline/internal/ui"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// settle runs cmd and feeds its message back into the model until the
// model stops producing app messages.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		switch msg.(type) {
		case RecordsLoadedMsg, RecordsChangedMsg, ThemeAppliedMsg,
			ScriptFinishedMsg, ExportedMsg, ImportedMsg:
		default:
			return m
		}
		next, c := m.Update(msg)
		m = next.(Model)
		cmd = c
	}
	return m
}

func newTestModel(t *testing.T) (Model, *journal.Journal) {
	t.Helper()
	b, err := store.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend() error: %v", err)
	}
	j := journal.New(b)
	m := New(config.DefaultConfig(), j)
	m.width, m.height = 100, 40
	return settle(t, m, m.reload()), j
}

func unlock(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = press(t, m, runes("u"))
	m.unlockInput.SetValue("guilty")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Unlocked() {
		t.Fatal("Expected gate to open with the default passphrase")
	}
	return m
}

func TestNewModel(t *testing.T) {
	m, _ := newTestModel(t)

	if m.state != StateList {
		t.Errorf("Expected initial state StateList, got %d", m.state)
	}
	if m.Unlocked() {
		t.Error("Expected gate to start locked")
	}
	if m.theme != theme.Default {
		t.Errorf("Expected default theme, got %q", m.theme)
	}
	if len(m.rows[ui.PaneChapters]) != 0 {
		t.Errorf("Expected no chapters, got %d", len(m.rows[ui.PaneChapters]))
	}
	if !strings.Contains(m.View(), ui.EmptyChapters) {
		t.Error("Expected empty chapters message in view")
	}
}

func TestStateTransitions(t *testing.T) {
	m, _ := newTestModel(t)

	tests := []struct {
		name  string
		key   tea.KeyMsg
		want  State
		close tea.KeyMsg
	}{
		{"new chapter", runes("n"), StateCompose, tea.KeyMsg{Type: tea.KeyEsc}},
		{"unlock", runes("u"), StateUnlock, tea.KeyMsg{Type: tea.KeyEsc}},
		{"themes", runes("t"), StateThemes, tea.KeyMsg{Type: tea.KeyEsc}},
		{"script", runes("s"), StateScript, tea.KeyMsg{Type: tea.KeyEsc}},
		{"export", runes("E"), StateExport, tea.KeyMsg{Type: tea.KeyEsc}},
		{"import", runes("I"), StateImport, tea.KeyMsg{Type: tea.KeyEsc}},
		{"filter", runes("/"), StateFilter, tea.KeyMsg{Type: tea.KeyEsc}},
		{"help", runes("?"), StateHelp, tea.KeyMsg{Type: tea.KeyEnter}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opened, _ := press(t, m, tt.key)
			if opened.state != tt.want {
				t.Fatalf("Expected state %d, got %d", tt.want, opened.state)
			}
			closed, _ := press(t, opened, tt.close)
			if closed.state != StateList {
				t.Errorf("Expected StateList after closing, got %d", closed.state)
			}
		})
	}
}

func TestNewOpensFormOfFocusedPane(t *testing.T) {
	m, _ := newTestModel(t)

	want := []State{StateCompose, StateAddGoal, StateAddReminder}
	for pane, state := range want {
		opened, _ := press(t, m, runes("n"))
		if opened.state != state {
			t.Errorf("pane %d: expected state %d, got %d", pane, state, opened.state)
		}
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.focus != ui.PaneChapters {
		t.Errorf("Expected tab to cycle back to chapters, got pane %d", m.focus)
	}
}

func TestComposeSavesChapter(t *testing.T) {
	m, j := newTestModel(t)

	m, _ = press(t, m, runes("n"))
	m.chapterInput.SetValue("Today I walked by the sea.")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = settle(t, m, cmd)

	if m.state != StateList {
		t.Errorf("Expected StateList after save, got %d", m.state)
	}
	entries, err := j.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Text != "Today I walked by the sea." {
		t.Fatalf("Expected saved chapter, got %+v", entries)
	}
	if len(m.rows[ui.PaneChapters]) != 1 {
		t.Errorf("Expected chapter row after reload, got %d", len(m.rows[ui.PaneChapters]))
	}
}

func TestComposeBlankIsSilentNoOp(t *testing.T) {
	m, j := newTestModel(t)

	m, _ = press(t, m, runes("n"))
	m.chapterInput.SetValue("   \n  ")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if cmd != nil {
		t.Error("Expected no command for a blank chapter")
	}
	if m.alert != "" {
		t.Errorf("Expected no alert, got %q", m.alert)
	}
	entries, _ := j.Entries()
	if len(entries) != 0 {
		t.Errorf("Expected nothing saved, got %+v", entries)
	}
}

func TestChaptersDisplayNewestFirst(t *testing.T) {
	m, j := newTestModel(t)
	var last journal.Entry
	for _, text := range []string{"one", "two", "three"} {
		e, err := j.AddEntry(text)
		if err != nil {
			t.Fatal(err)
		}
		last = e
	}
	m = settle(t, m, m.reload())

	rows := m.rows[ui.PaneChapters]
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0].ID != last.ID {
		t.Errorf("Expected newest chapter first, got %q", rows[0].ID)
	}
	if rows[0].Detail != "three..." {
		t.Errorf("Expected preview of newest chapter, got %q", rows[0].Detail)
	}
}

func TestUnlockRevealsEditAndDelete(t *testing.T) {
	m, j := newTestModel(t)
	if _, err := j.AddEntry("secret"); err != nil {
		t.Fatal(err)
	}
	if _, err := j.AddGoal("run", journal.PriorityMedium); err != nil {
		t.Fatal(err)
	}
	m = settle(t, m, m.reload())

	if row := m.rows[ui.PaneChapters][0]; row.Has(ui.ActionEdit) || row.Has(ui.ActionDelete) {
		t.Fatal("Locked chapter should not offer edit or delete")
	}

	m = unlock(t, m)

	if row := m.rows[ui.PaneChapters][0]; !row.Has(ui.ActionEdit) || !row.Has(ui.ActionDelete) {
		t.Errorf("Unlocked chapter should offer edit and delete, got %v", row.Actions)
	}
	if row := m.rows[ui.PaneGoals][0]; !row.Has(ui.ActionDelete) || row.Has(ui.ActionEdit) {
		t.Errorf("Unlocked goal should offer delete only, got %v", row.Actions)
	}

	// Once open, the gate stays open
	m, _ = press(t, m, runes("u"))
	if m.state != StateList || !m.Unlocked() {
		t.Error("Expected unlock to be a no-op once open")
	}
}

func TestWrongPassphrase(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(t, m, runes("u"))
	m.unlockInput.SetValue("guess")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.alert != alertWrongPassphrase {
		t.Errorf("Expected wrong passphrase alert, got %q", m.alert)
	}
	if m.Unlocked() {
		t.Error("Gate should stay locked")
	}
	if m.unlockInput.Value() != "" {
		t.Error("Expected passphrase input to be cleared")
	}
	if !strings.Contains(m.View(), alertWrongPassphrase) {
		t.Error("Expected alert in view")
	}

	// Any key dismisses the alert
	m, _ = press(t, m, runes("z"))
	if m.alert != "" {
		t.Errorf("Expected alert dismissed, got %q", m.alert)
	}
	if m.state != StateUnlock {
		t.Errorf("Expected to stay in StateUnlock, got %d", m.state)
	}
}

func TestCustomPassphrase(t *testing.T) {
	m, _ := newTestModel(t)
	m.config.Lock.Passphrase = "open sesame"

	m, _ = press(t, m, runes("u"))
	m.unlockInput.SetValue("guilty")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Unlocked() {
		t.Fatal("Default passphrase should not unlock when overridden")
	}

	m, _ = press(t, m, runes("x"))
	m.unlockInput.SetValue("open sesame")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Unlocked() {
		t.Error("Configured passphrase should unlock")
	}
}

func TestEditFlow(t *testing.T) {
	m, j := newTestModel(t)
	e, err := j.AddEntry("first draft")
	if err != nil {
		t.Fatal(err)
	}
	m = settle(t, m, m.reload())

	// Locked: edit does nothing
	locked, _ := press(t, m, runes("e"))
	if locked.state != StateList || locked.editID != "" {
		t.Fatal("Edit should not open while locked")
	}

	m = unlock(t, m)
	m, _ = press(t, m, runes("e"))
	if m.state != StateEdit || m.editID != e.ID {
		t.Fatalf("Expected edit open for %q, got state %d id %q", e.ID, m.state, m.editID)
	}
	if m.chapterInput.Value() != "first draft" {
		t.Errorf("Expected chapter text in editor, got %q", m.chapterInput.Value())
	}

	// Blank save is rejected and keeps the editor open
	m.chapterInput.SetValue("   ")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.alert != alertEmptyChapter {
		t.Errorf("Expected empty chapter alert, got %q", m.alert)
	}
	m, _ = press(t, m, runes("a"))
	if m.state != StateEdit {
		t.Fatalf("Expected edit to stay open, got %d", m.state)
	}

	m.chapterInput.SetValue("  final words  ")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = settle(t, m, cmd)

	if m.state != StateList || m.editID != "" {
		t.Errorf("Expected edit closed after save, got state %d id %q", m.state, m.editID)
	}
	entries, _ := j.Entries()
	if entries[0].Text != "final words" || entries[0].Date != e.Date {
		t.Errorf("Expected trimmed text with date kept, got %+v", entries[0])
	}
}

func TestEditEscDiscards(t *testing.T) {
	m, j := newTestModel(t)
	if _, err := j.AddEntry("keep me"); err != nil {
		t.Fatal(err)
	}
	m = unlock(t, settle(t, m, m.reload()))

	m, _ = press(t, m, runes("e"))
	m.chapterInput.SetValue("changed")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if cmd != nil || m.state != StateList || m.editID != "" {
		t.Errorf("Expected edit closed without writing, state %d id %q", m.state, m.editID)
	}
	entries, _ := j.Entries()
	if entries[0].Text != "keep me" {
		t.Errorf("Expected text unchanged, got %q", entries[0].Text)
	}
}

func TestDeleteChapterFromEditAsksForConfirmation(t *testing.T) {
	m, j := newTestModel(t)
	if _, err := j.AddEntry("doomed"); err != nil {
		t.Fatal(err)
	}
	m = unlock(t, settle(t, m, m.reload()))

	m, _ = press(t, m, runes("e"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	if m.state != StateConfirmDelete {
		t.Fatalf("Expected confirmation, got %d", m.state)
	}
	if !strings.Contains(m.View(), "Are you sure you want to delete the chapter from") {
		t.Error("Expected confirmation question in view")
	}

	// Declining returns to the editor
	m, _ = press(t, m, runes("n"))
	if m.state != StateEdit {
		t.Fatalf("Expected StateEdit after declining, got %d", m.state)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	m, cmd := press(t, m, runes("y"))
	m = settle(t, m, cmd)

	if m.state != StateList || m.editID != "" {
		t.Errorf("Expected edit closed after delete, got state %d id %q", m.state, m.editID)
	}
	entries, _ := j.Entries()
	if len(entries) != 0 {
		t.Errorf("Expected chapter deleted, got %+v", entries)
	}
	if len(m.rows[ui.PaneChapters]) != 0 {
		t.Error("Expected chapter row removed after reload")
	}
}

func TestDeleteRespectsLock(t *testing.T) {
	m, j := newTestModel(t)
	if _, err := j.AddGoal("stay", journal.PriorityLight); err != nil {
		t.Fatal(err)
	}
	m = settle(t, m, m.reload())
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})

	m, cmd := press(t, m, runes("d"))
	if cmd != nil {
		t.Fatal("Delete should not run while locked")
	}
	if !strings.Contains(m.status, "Locked") {
		t.Errorf("Expected locked hint, got %q", m.status)
	}

	m = unlock(t, m)
	m, cmd = press(t, m, runes("d"))
	m = settle(t, m, cmd)

	goals, _ := j.Goals()
	if len(goals) != 0 {
		t.Errorf("Expected goal deleted, got %+v", goals)
	}
}

func TestToggleGoal(t *testing.T) {
	m, j := newTestModel(t)
	if _, err := j.AddGoal("stretch", journal.PriorityLight); err != nil {
		t.Fatal(err)
	}
	m = settle(t, m, m.reload())
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})

	// Toggle works while locked
	m, cmd := press(t, m, runes("x"))
	m = settle(t, m, cmd)

	if !m.rows[ui.PaneGoals][0].Done {
		t.Error("Expected goal done after toggle")
	}
	if got := m.rows[ui.PaneGoals][0].ActionLabel(ui.ActionToggle); got != "Undo" {
		t.Errorf("Expected Undo label, got %q", got)
	}

	m, cmd = press(t, m, runes("x"))
	m = settle(t, m, cmd)
	if m.rows[ui.PaneGoals][0].Done {
		t.Error("Expected goal undone after second toggle")
	}
}

func TestAddGoalWithPriority(t *testing.T) {
	m, j := newTestModel(t)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, runes("n"))

	m.goalInput.SetValue("learn the guitar")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, runes("3"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = settle(t, m, cmd)

	goals, _ := j.Goals()
	if len(goals) != 1 {
		t.Fatalf("Expected one goal, got %+v", goals)
	}
	if goals[0].Priority != journal.PriorityDeep {
		t.Errorf("Expected deep priority, got %q", goals[0].Priority)
	}
	if m.rows[ui.PaneGoals][0].Glyph != "❤️" {
		t.Errorf("Expected deep glyph, got %q", m.rows[ui.PaneGoals][0].Glyph)
	}
}

func TestAddGoalDefaultsToLight(t *testing.T) {
	m, j := newTestModel(t)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, runes("n"))
	m.goalInput.SetValue("drink water")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	settle(t, m, cmd)

	goals, _ := j.Goals()
	if len(goals) != 1 || goals[0].Priority != journal.PriorityLight {
		t.Errorf("Expected one light goal, got %+v", goals)
	}
}

func TestAddReminder(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		date      string
		clock     string
		wantAlert bool
		wantSaved bool
	}{
		{"dated and timed", "dentist", "2026-04-01", "09:30", false, true},
		{"no time", "call mom", "2026-04-02", "", false, true},
		{"blank text is ignored", "  ", "2026-04-02", "", false, false},
		{"blank date is ignored", "pay rent", "", "", false, false},
		{"bad date", "pay rent", "April 1", "", true, false},
		{"bad time", "pay rent", "2026-04-01", "9am", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, j := newTestModel(t)
			m.focus = ui.PaneReminders
			m, _ = press(t, m, runes("n"))

			m.reminderInputs[reminderText].SetValue(tt.text)
			m.reminderInputs[reminderDate].SetValue(tt.date)
			m.reminderInputs[reminderTime].SetValue(tt.clock)
			m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
			m = settle(t, m, cmd)

			if got := m.alert != ""; got != tt.wantAlert {
				t.Errorf("alert = %q, want alert %v", m.alert, tt.wantAlert)
			}
			reminders, _ := j.Reminders()
			if got := len(reminders) == 1; got != tt.wantSaved {
				t.Errorf("saved = %v, want %v (%+v)", got, tt.wantSaved, reminders)
			}
			if tt.wantSaved {
				want := tt.date
				if tt.clock != "" {
					want += " @ " + tt.clock
				}
				want += ": " + tt.text
				if m.rows[ui.PaneReminders][0].Title != want {
					t.Errorf("Title = %q, want %q", m.rows[ui.PaneReminders][0].Title, want)
				}
			}
		})
	}
}

func TestThemePickerAppliesAndMarksOneActive(t *testing.T) {
	m, j := newTestModel(t)

	m, _ = press(t, m, runes("t"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = settle(t, m, cmd)

	if m.theme != "guilty-crown" {
		t.Errorf("Expected guilty-crown, got %q", m.theme)
	}
	if got := theme.NewRegistry(j.Backend()).Current(); got != "guilty-crown" {
		t.Errorf("Expected persisted theme guilty-crown, got %q", got)
	}

	active := 0
	for _, opt := range theme.Picker(m.theme) {
		if opt.Active {
			active++
		}
	}
	if active != 1 {
		t.Errorf("Expected exactly one active theme, got %d", active)
	}

	// A reload keeps the persisted theme
	m = settle(t, m, m.reload())
	if m.theme != "guilty-crown" {
		t.Errorf("Expected theme to survive reload, got %q", m.theme)
	}
}

func TestConfiguredThemeUntilOneIsPicked(t *testing.T) {
	b, err := store.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.UI.Theme = "cyberpunk"
	m := New(cfg, journal.New(b))
	m = settle(t, m, m.reload())

	if m.theme != "cyberpunk" {
		t.Errorf("Expected configured theme, got %q", m.theme)
	}
}

func TestScript(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantAlert string
		wantTheme string
	}{
		{"sets theme", `heartline.SetTheme("naruto")`, alertScriptOK, "naruto"},
		{"empty", "   ", alertEmptyScript, theme.Default},
		{"unknown theme", `heartline.SetTheme("vaporwave")`, alertScriptFailed, theme.Default},
		{"syntax error", `heartline.SetTheme(`, alertScriptFailed, theme.Default},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			m, _ = press(t, m, runes("s"))
			m.scriptInput.SetValue(tt.code)
			m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
			m = settle(t, m, cmd)

			if !strings.HasPrefix(m.alert, tt.wantAlert) {
				t.Errorf("alert = %q, want prefix %q", m.alert, tt.wantAlert)
			}
			if m.theme != tt.wantTheme {
				t.Errorf("theme = %q, want %q", m.theme, tt.wantTheme)
			}
			wantInput := tt.code
			if tt.wantAlert == alertScriptOK {
				wantInput = ""
			}
			if got := m.scriptInput.Value(); got != wantInput {
				t.Errorf("script input = %q, want %q", got, wantInput)
			}
		})
	}
}

func TestScriptDisabled(t *testing.T) {
	b, err := store.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.Script.Enabled = false
	m := New(cfg, journal.New(b))

	m, _ = press(t, m, runes("s"))
	m.scriptInput.SetValue(`heartline.SetTheme("dark")`)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = settle(t, m, cmd)

	if !strings.HasPrefix(m.alert, alertScriptFailed) {
		t.Errorf("Expected script error alert, got %q", m.alert)
	}
}

func TestExportImportThroughUI(t *testing.T) {
	m, j := newTestModel(t)
	if _, err := j.AddEntry("portable"); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.json")

	m, _ = press(t, m, runes("E"))
	if m.pathInput.Value() != m.config.ExportPath() {
		t.Errorf("Expected configured export path prefilled, got %q", m.pathInput.Value())
	}
	m.pathInput.SetValue(path)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = settle(t, m, cmd)
	if m.state != StateList || !strings.Contains(m.status, path) {
		t.Fatalf("Expected export status, got state %d status %q alert %q", m.state, m.status, m.alert)
	}

	other, otherJournal := newTestModel(t)
	other, _ = press(t, other, runes("I"))
	other.pathInput.SetValue(path)
	other, cmd = press(t, other, tea.KeyMsg{Type: tea.KeyEnter})
	other = settle(t, other, cmd)

	entries, _ := otherJournal.Entries()
	if len(entries) != 1 || entries[0].Text != "portable" {
		t.Errorf("Expected imported chapter, got %+v", entries)
	}
	if len(other.rows[ui.PaneChapters]) != 1 {
		t.Error("Expected import to redraw the chapter list")
	}
}

func TestImportMissingFileAlerts(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, runes("I"))
	m.pathInput.SetValue(filepath.Join(t.TempDir(), "missing.json"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = settle(t, m, cmd)

	if !strings.HasPrefix(m.alert, "Import failed") {
		t.Errorf("Expected import failure alert, got %q", m.alert)
	}
}

func TestViewChapter(t *testing.T) {
	m, j := newTestModel(t)
	if _, err := j.AddEntry("A long day, " + strings.Repeat("and then more ", 10)); err != nil {
		t.Fatal(err)
	}
	m.config.UI.Markdown = false
	m = settle(t, m, m.reload())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != StateView {
		t.Fatalf("Expected StateView, got %d", m.state)
	}
	if !strings.Contains(m.View(), "A long day") {
		t.Error("Expected full chapter text in view")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateList {
		t.Errorf("Expected StateList after esc, got %d", m.state)
	}
}

func TestCursorNavigation(t *testing.T) {
	m, j := newTestModel(t)
	for _, text := range []string{"a", "b", "c"} {
		if _, err := j.AddEntry(text); err != nil {
			t.Fatal(err)
		}
	}
	m = settle(t, m, m.reload())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursors[ui.PaneChapters] != 1 {
		t.Errorf("Expected cursor 1 after down, got %d", m.cursors[ui.PaneChapters])
	}
	m, _ = press(t, m, runes("j"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursors[ui.PaneChapters] != 2 {
		t.Errorf("Expected cursor 2 (clamped), got %d", m.cursors[ui.PaneChapters])
	}
	m, _ = press(t, m, runes("g"))
	if m.cursors[ui.PaneChapters] != 0 {
		t.Errorf("Expected cursor 0 after home, got %d", m.cursors[ui.PaneChapters])
	}
	m, _ = press(t, m, runes("G"))
	if m.cursors[ui.PaneChapters] != 2 {
		t.Errorf("Expected cursor 2 after end, got %d", m.cursors[ui.PaneChapters])
	}

	// Other panes keep their own cursor
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.cursors[ui.PaneGoals] != 0 {
		t.Errorf("Expected goals cursor 0, got %d", m.cursors[ui.PaneGoals])
	}
}

func TestFuzzyFilter(t *testing.T) {
	m, j := newTestModel(t)
	for _, text := range []string{"walked the dog", "rainy afternoon", "dog park again"} {
		if _, err := j.AddEntry(text); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := j.AddGoal("adopt a dog", journal.PriorityDeep); err != nil {
		t.Fatal(err)
	}
	m = settle(t, m, m.reload())

	m, _ = press(t, m, runes("/"))
	for _, r := range "dog" {
		m, _ = press(t, m, runes(string(r)))
	}

	chapters := m.rows[ui.PaneChapters]
	if len(chapters) != 2 {
		t.Fatalf("Expected 2 matching chapters, got %d", len(chapters))
	}
	// Display order survives filtering
	if !strings.HasPrefix(chapters[0].Detail, "dog park") {
		t.Errorf("Expected newest match first, got %q", chapters[0].Detail)
	}
	if len(m.rows[ui.PaneGoals]) != 1 {
		t.Errorf("Expected goal match, got %d", len(m.rows[ui.PaneGoals]))
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if len(m.rows[ui.PaneChapters]) != 3 {
		t.Errorf("Expected filter cleared, got %d chapters", len(m.rows[ui.PaneChapters]))
	}
}

func TestRecordsChangedAlerts(t *testing.T) {
	tests := []struct {
		name string
		msg  RecordsChangedMsg
		want string
	}{
		{"blank add is silent", RecordsChangedMsg{Op: opAddGoal, Err: journal.ErrEmpty}, ""},
		{"blank edit alerts", RecordsChangedMsg{Op: opEditEntry, Err: journal.ErrEmpty}, alertEmptyChapter},
		{"missing record", RecordsChangedMsg{Op: opToggle, Err: journal.ErrNotFound}, "That record no longer exists."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mutationAlert(tt.msg); got != tt.want {
				t.Errorf("mutationAlert() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWindowSizeMessage(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	m = next.(Model)
	if m.width != 140 || m.height != 50 {
		t.Errorf("Expected 140x50, got %dx%d", m.width, m.height)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}

	// q is text while composing
	m, _ = press(t, m, runes("n"))
	m, _ = press(t, m, runes("q"))
	if m.state != StateCompose {
		t.Errorf("Expected q to be typed while composing, got state %d", m.state)
	}
}

func TestKeyMapFromConfig(t *testing.T) {
	keysConfig := &config.KeysConfig{
		Up:     "up,k,w",
		Toggle: "x,space",
		Unlock: "U",
	}

	km := KeyMapFromConfig(keysConfig)

	if !key.Matches(runes("w"), km.Up) {
		t.Error("Expected 'w' to match Up binding")
	}
	if !key.Matches(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, km.Toggle) {
		t.Error("Expected space to match Toggle binding")
	}
	if key.Matches(runes("u"), km.Unlock) || !key.Matches(runes("U"), km.Unlock) {
		t.Error("Expected Unlock rebound to 'U'")
	}
	// Unset keys keep defaults
	if !key.Matches(runes("n"), km.New) {
		t.Error("Expected default New binding")
	}
}

func TestHelpSectionsListEveryAction(t *testing.T) {
	km := DefaultKeyMap()
	var descs []string
	for _, s := range km.HelpSections() {
		for _, b := range s.Bindings {
			descs = append(descs, b.Desc)
		}
	}
	joined := strings.Join(descs, "|")
	for _, want := range []string{"unlock", "themes", "theme script", "export", "import", "filter"} {
		if !strings.Contains(joined, want) {
			t.Errorf("Expected %q in help", want)
		}
	}
}

func TestScriptHost(t *testing.T) {
	h := newScriptHost("light")

	if err := h.SetTheme("one-piece"); err != nil {
		t.Fatalf("SetTheme() error: %v", err)
	}
	if h.Theme() != "one-piece" {
		t.Errorf("Theme() = %q", h.Theme())
	}
	if err := h.SetTheme("nope"); err == nil {
		t.Error("Expected unknown theme to be rejected")
	}
	if h.Theme() != "one-piece" {
		t.Error("Rejected theme should not replace the current one")
	}
	if h.Err() == nil {
		t.Error("Expected rejected call to be remembered")
	}
	if len(h.Themes()) != len(theme.IDs()) {
		t.Error("Expected every theme to be listed")
	}
}
