package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisabledLogIsNoop(t *testing.T) {
	if IsEnabled() {
		t.Fatal("debug logging should start disabled")
	}
	// Must not panic without a log file
	Log("nothing %d", 1)
	Timed("noop")()
}

func TestEnableWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debug.log")

	if err := Enable(path); err != nil {
		t.Fatalf("Enable() error: %v", err)
	}
	if !IsEnabled() {
		t.Error("Expected IsEnabled() after Enable")
	}

	Log("saved %s", "entries")
	Close()

	if IsEnabled() {
		t.Error("Expected IsEnabled() to be false after Close")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "saved entries") {
		t.Errorf("Expected log to contain message, got %q", string(data))
	}
}
