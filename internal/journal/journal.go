package journal

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/henri123lemoine/heartline/internal/debug"
	"github.com/henri123lemoine/heartline/internal/store"
)

// Layouts used for dates and times.
const (
	EntryDateLayout    = "January 2, 2006"
	ReminderDateLayout = "2006-01-02"
	ReminderTimeLayout = "15:04"
)

var (
	// ErrEmpty is returned when required text is blank. Add operations treat
	// it as a silent no-op.
	ErrEmpty = errors.New("nothing to save")

	// ErrNotFound is returned when no record has the given ID.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidDate is returned for reminder dates not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date (expected YYYY-MM-DD)")

	// ErrInvalidTime is returned for reminder times not in HH:MM form.
	ErrInvalidTime = errors.New("invalid time (expected HH:MM)")

	// ErrUnknownKind is returned for operations on a list that does not
	// support them.
	ErrUnknownKind = errors.New("unknown list")
)

// Journal performs record operations against a storage backend.
type Journal struct {
	backend store.Backend
	now     func() time.Time
	newID   func() string
}

// New returns a Journal backed by b.
func New(b store.Backend) *Journal {
	return &Journal{
		backend: b,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// Backend returns the storage backend.
func (j *Journal) Backend() store.Backend {
	return j.backend
}

// Entries returns all chapters in storage order (oldest first).
func (j *Journal) Entries() ([]Entry, error) {
	return store.Load[Entry](j.backend, string(KindEntries))
}

// Goals returns all goals in insertion order.
func (j *Journal) Goals() ([]Goal, error) {
	return store.Load[Goal](j.backend, string(KindGoals))
}

// Reminders returns all reminders in insertion order.
func (j *Journal) Reminders() ([]Reminder, error) {
	return store.Load[Reminder](j.backend, string(KindReminders))
}

// AddEntry appends a chapter dated today. Blank text returns ErrEmpty.
func (j *Journal) AddEntry(text string) (Entry, error) {
	if strings.TrimSpace(text) == "" {
		return Entry{}, ErrEmpty
	}
	e := Entry{ID: j.newID(), Date: j.now().Format(EntryDateLayout), Text: text}
	err := store.Mutate(j.backend, string(KindEntries), func(items []Entry) ([]Entry, error) {
		return append(items, e), nil
	})
	if err != nil {
		return Entry{}, err
	}
	debug.Log("journal: added entry %s", e.ID)
	return e, nil
}

// EditEntry overwrites the text of one chapter, leaving its date alone.
func (j *Journal) EditEntry(id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmpty
	}
	return mutateByID(j.backend, KindEntries, id, entryID, func(items []Entry, i int) []Entry {
		items[i].Text = text
		return items
	})
}

// DeleteEntry removes one chapter.
func (j *Journal) DeleteEntry(id string) error {
	return mutateByID(j.backend, KindEntries, id, entryID, remove[Entry])
}

// AddGoal appends a goal. Blank text returns ErrEmpty; an empty priority
// becomes light.
func (j *Journal) AddGoal(text string, p Priority) (Goal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Goal{}, ErrEmpty
	}
	g := Goal{ID: j.newID(), Text: text, Priority: p.orDefault()}
	err := store.Mutate(j.backend, string(KindGoals), func(items []Goal) ([]Goal, error) {
		return append(items, g), nil
	})
	if err != nil {
		return Goal{}, err
	}
	return g, nil
}

// AddReminder appends a reminder. Blank text or date returns ErrEmpty.
func (j *Journal) AddReminder(text, date, clock string, p Priority) (Reminder, error) {
	text = strings.TrimSpace(text)
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if text == "" || date == "" {
		return Reminder{}, ErrEmpty
	}
	if _, err := time.Parse(ReminderDateLayout, date); err != nil {
		return Reminder{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if clock != "" {
		if _, err := time.Parse(ReminderTimeLayout, clock); err != nil {
			return Reminder{}, fmt.Errorf("%w: %q", ErrInvalidTime, clock)
		}
	}
	r := Reminder{ID: j.newID(), Text: text, Date: date, Time: clock, Priority: p.orDefault()}
	err := store.Mutate(j.backend, string(KindReminders), func(items []Reminder) ([]Reminder, error) {
		return append(items, r), nil
	})
	if err != nil {
		return Reminder{}, err
	}
	return r, nil
}

// ToggleDone flips the done flag of a goal or reminder.
func (j *Journal) ToggleDone(kind Kind, id string) error {
	switch kind {
	case KindGoals:
		return mutateByID(j.backend, kind, id, goalID, func(items []Goal, i int) []Goal {
			items[i].Done = !items[i].Done
			return items
		})
	case KindReminders:
		return mutateByID(j.backend, kind, id, reminderID, func(items []Reminder, i int) []Reminder {
			items[i].Done = !items[i].Done
			return items
		})
	}
	return fmt.Errorf("%w: cannot toggle %s", ErrUnknownKind, kind)
}

// Delete removes one record from any list.
func (j *Journal) Delete(kind Kind, id string) error {
	switch kind {
	case KindEntries:
		return j.DeleteEntry(id)
	case KindGoals:
		return mutateByID(j.backend, kind, id, goalID, remove[Goal])
	case KindReminders:
		return mutateByID(j.backend, kind, id, reminderID, remove[Reminder])
	}
	return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

// Backfill assigns IDs to records stored without one, such as lists imported
// from older exports. Lists that need nothing are not rewritten. It returns
// the number of records changed.
func (j *Journal) Backfill() (int, error) {
	total := 0
	n, err := backfill(j.backend, KindEntries, j.newID, entryID)
	total += n
	if err != nil {
		return total, err
	}
	n, err = backfill(j.backend, KindGoals, j.newID, goalID)
	total += n
	if err != nil {
		return total, err
	}
	n, err = backfill(j.backend, KindReminders, j.newID, reminderID)
	total += n
	if total > 0 {
		debug.Log("journal: backfilled %d record ids", total)
	}
	return total, err
}

func entryID(e *Entry) *string       { return &e.ID }
func goalID(g *Goal) *string         { return &g.ID }
func reminderID(r *Reminder) *string { return &r.ID }

func remove[T any](items []T, i int) []T {
	return slices.Delete(items, i, i+1)
}

// mutateByID applies fn to the record with the given id under the store lock.
func mutateByID[T any](b store.Backend, kind Kind, id string, idOf func(*T) *string, fn func([]T, int) []T) error {
	return store.Mutate(b, string(kind), func(items []T) ([]T, error) {
		for i := range items {
			if *idOf(&items[i]) == id {
				return fn(items, i), nil
			}
		}
		return nil, fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
	})
}

func backfill[T any](b store.Backend, kind Kind, newID func() string, idOf func(*T) *string) (int, error) {
	changed := 0
	err := store.Mutate(b, string(kind), func(items []T) ([]T, error) {
		for i := range items {
			if id := idOf(&items[i]); *id == "" {
				*id = newID()
				changed++
			}
		}
		if changed == 0 {
			return nil, store.ErrUnchanged
		}
		return items, nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}
