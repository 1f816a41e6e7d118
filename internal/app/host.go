package app

import (
	"fmt"
	"sync"

	"github.com/henri123lemoine/heartline/internal/theme"
)

// scriptHost is what a theme script sees as the heartline package. The
// chosen theme is only persisted after the script succeeds. A rejected
// SetTheme fails the run even when the script ignores the returned error.
type scriptHost struct {
	mu    sync.Mutex
	theme string
	err   error
}

func newScriptHost(current string) *scriptHost {
	return &scriptHost{theme: current}
}

func (h *scriptHost) SetTheme(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !theme.Valid(id) {
		err := fmt.Errorf("unknown theme %q", id)
		if h.err == nil {
			h.err = err
		}
		return err
	}
	h.theme = id
	return nil
}

// Err returns the first rejected SetTheme call.
func (h *scriptHost) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *scriptHost) Theme() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.theme
}

func (h *scriptHost) Themes() []string {
	return theme.IDs()
}
