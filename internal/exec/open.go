// Package exec runs the external editor used to write chapters.
package exec

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/henri123lemoine/heartline/internal/debug"
)

// Draft is a temporary file holding chapter text while an editor has it open.
type Draft struct {
	Path string
}

// NewDraft writes initial to a fresh temp file.
func NewDraft(initial string) (*Draft, error) {
	f, err := os.CreateTemp("", "heartline-*.md")
	if err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(initial); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("write draft: %w", err)
	}
	return &Draft{Path: f.Name()}, nil
}

// Read returns the draft's content with the trailing newline editors add removed.
func (d *Draft) Read() (string, error) {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return "", fmt.Errorf("read draft: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// Remove deletes the draft file.
func (d *Draft) Remove() {
	if err := os.Remove(d.Path); err != nil && !os.IsNotExist(err) {
		debug.Log("draft cleanup failed: %v", err)
	}
}

// EditorCommand builds the shell command that opens path in an editor.
// An empty template falls back to $VISUAL, then $EDITOR, then vi.
func EditorCommand(template, path string) *exec.Cmd {
	expanded := expandTemplate(resolveTemplate(template), path)
	debug.Log("editor: %s", expanded)

	cmd := exec.Command("sh", "-c", expanded)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

func resolveTemplate(template string) string {
	if strings.TrimSpace(template) != "" {
		return template
	}
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return "vi"
}

// expandTemplate expands template variables in the command.
// A command without {path} gets the path appended.
func expandTemplate(command, path string) string {
	quoted := shellQuote(path)
	if !strings.Contains(command, "{path}") {
		return command + " " + quoted
	}
	return strings.ReplaceAll(command, "{path}", quoted)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
