package journal

import "fmt"

// Kind names a record list. Its value is the storage key.
type Kind string

const (
	KindEntries   Kind = "entries"
	KindGoals     Kind = "goals"
	KindReminders Kind = "reminders"
)

// Priority is the urgency level of goals and reminders.
type Priority string

const (
	PriorityLight  Priority = "light"
	PriorityMedium Priority = "medium"
	PriorityDeep   Priority = "deep"
)

// Priorities lists the levels from least to most urgent.
var Priorities = []Priority{PriorityLight, PriorityMedium, PriorityDeep}

// Glyph returns the display glyph of p.
func (p Priority) Glyph() string {
	switch p {
	case PriorityLight:
		return "💙"
	case PriorityMedium:
		return "💛"
	case PriorityDeep:
		return "❤️"
	default:
		return "⚪"
	}
}

// orDefault returns p, or PriorityLight when no priority was picked.
func (p Priority) orDefault() Priority {
	if p == "" {
		return PriorityLight
	}
	return p
}

// ParsePriority accepts a level name or its 1-based position.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "light", "1":
		return PriorityLight, nil
	case "medium", "2":
		return PriorityMedium, nil
	case "deep", "3":
		return PriorityDeep, nil
	}
	return "", fmt.Errorf("unknown priority %q (expected light, medium or deep)", s)
}

// Entry is a dated journal chapter.
type Entry struct {
	ID   string `json:"id,omitempty"`
	Date string `json:"date"`
	Text string `json:"text"`
}

// Goal is a prioritized goal that can be marked done.
type Goal struct {
	ID       string   `json:"id,omitempty"`
	Text     string   `json:"text"`
	Priority Priority `json:"priority"`
	Done     bool     `json:"done"`
}

// Reminder is a dated, optionally timed, prioritized reminder.
type Reminder struct {
	ID       string   `json:"id,omitempty"`
	Text     string   `json:"text"`
	Date     string   `json:"date"`
	Time     string   `json:"time"`
	Priority Priority `json:"priority"`
	Done     bool     `json:"done"`
}

// When formats the reminder's date and optional time.
func (r Reminder) When() string {
	if r.Time == "" {
		return r.Date
	}
	return r.Date + " @ " + r.Time
}
