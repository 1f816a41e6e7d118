// Package theme holds the static theme registry and persists the active theme.
package theme

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/henri123lemoine/heartline/internal/store"
)

// Key is the storage key of the active theme id.
const Key = "heartline-theme"

// Default is used when no theme is stored or the stored id is unknown.
const Default = "light"

// Palette is the set of colors a theme contributes to the UI.
type Palette struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Danger  lipgloss.Color
}

type themeDef struct {
	id      string
	palette Palette
}

// themes is in picker display order.
var themes = []themeDef{
	{"light", Palette{"#3A6EA5", "#D6336C", "#2E2E2E", "#8A8A8A", "#C8C8C8", "#2B8A3E", "#E8A317", "#C92A2A"}},
	{"dark", Palette{"#8AB4F8", "#F28B82", "#E8EAED", "#9AA0A6", "#5F6368", "#81C995", "#FDD663", "#F28B82"}},
	{"guilty-crown", Palette{"#9B5DE5", "#F15BB5", "#EDE7F6", "#8E7CC3", "#4A3B6B", "#00BBF9", "#FEE440", "#F15BB5"}},
	{"naruto", Palette{"#FF8C00", "#1E3A8A", "#FFF4E0", "#B8860B", "#7A4B00", "#3FA34D", "#FFD166", "#D62828"}},
	{"dragon-ball", Palette{"#F97316", "#FACC15", "#FFF7ED", "#A16207", "#7C2D12", "#22C55E", "#FACC15", "#DC2626"}},
	{"anime-girls", Palette{"#FF77A9", "#A0E7E5", "#FFF0F5", "#C39BD3", "#F5B7D1", "#7BD389", "#FFD6A5", "#FF4D6D"}},
	{"attack-on-titan", Palette{"#7B5E3B", "#A4161A", "#EAE0D5", "#9C8C7A", "#5E503F", "#6A994E", "#D4A373", "#A4161A"}},
	{"demon-slayer", Palette{"#2D6A4F", "#D00000", "#F1FAEE", "#74A892", "#1B4332", "#52B788", "#F4A261", "#D00000"}},
	{"one-piece", Palette{"#D62828", "#F4D35E", "#FDF0D5", "#C1A57B", "#003049", "#2A9D8F", "#F4D35E", "#D62828"}},
	{"sailor-moon", Palette{"#E0529C", "#FFD700", "#FFF5FA", "#B48EAD", "#6A4C93", "#8AC926", "#FFD700", "#FF595E"}},
	{"cyberpunk", Palette{"#00F0FF", "#FF00A0", "#F0F0F0", "#7D7D9C", "#3D3D5C", "#39FF14", "#FCEE0A", "#FF003C"}},
}

// IDs returns the theme ids in display order.
func IDs() []string {
	ids := make([]string, len(themes))
	for i, t := range themes {
		ids[i] = t.id
	}
	return ids
}

// Valid reports whether id is a registered theme.
func Valid(id string) bool {
	for _, t := range themes {
		if t.id == id {
			return true
		}
	}
	return false
}

// PaletteFor returns the palette of id. Unknown ids match no theme and fall
// back to the default palette.
func PaletteFor(id string) Palette {
	for _, t := range themes {
		if t.id == id {
			return t.palette
		}
	}
	return themes[0].palette
}

// DisplayName turns "dragon-ball" into "Dragon Ball".
func DisplayName(id string) string {
	words := strings.Split(id, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Option is one selectable control of the theme picker.
type Option struct {
	ID     string
	Name   string
	Active bool
}

// Picker builds one option per theme, marking current as active.
func Picker(current string) []Option {
	opts := make([]Option, len(themes))
	for i, t := range themes {
		opts[i] = Option{ID: t.id, Name: DisplayName(t.id), Active: t.id == current}
	}
	return opts
}

// Registry reads and writes the persisted theme selection.
type Registry struct {
	backend store.Backend
}

// NewRegistry returns a registry persisting to b.
func NewRegistry(b store.Backend) *Registry {
	return &Registry{backend: b}
}

// Stored returns the raw persisted id, which may not be a registered theme.
// ok is false when nothing is stored.
func (r *Registry) Stored() (id string, ok bool, err error) {
	data, ok, err := r.backend.Get(Key)
	if err != nil || !ok {
		return "", ok, err
	}
	if err := json.Unmarshal(data, &id); err != nil {
		// Older stores kept the bare id rather than a JSON string
		return strings.TrimSpace(string(data)), true, nil
	}
	return id, true, nil
}

// Current returns the persisted theme, or Default when it is absent,
// unreadable or not a registered theme.
func (r *Registry) Current() string {
	id, ok, err := r.Stored()
	if err != nil || !ok || !Valid(id) {
		return Default
	}
	return id
}

// Apply persists id as the active theme. No validation is performed.
func (r *Registry) Apply(id string) error {
	data, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return r.backend.Set(Key, data)
}
