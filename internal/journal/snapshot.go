package journal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/henri123lemoine/heartline/internal/theme"
)

// ErrMalformedImport is returned when an import payload cannot be decoded.
var ErrMalformedImport = errors.New("malformed import")

// Snapshot is the export document. Each field holds the stored value of its
// key verbatim.
type Snapshot struct {
	Entries   json.RawMessage `json:"entries"`
	Goals     json.RawMessage `json:"goals"`
	Reminders json.RawMessage `json:"reminders"`
	Theme     json.RawMessage `json:"theme"`
}

var (
	emptyList    = json.RawMessage(`[]`)
	defaultTheme = json.RawMessage(`"` + theme.Default + `"`)
)

// Snapshot reads the four stored values. Absent lists read as [] and an
// absent theme as the default theme.
func (j *Journal) Snapshot() (Snapshot, error) {
	var s Snapshot
	var err error
	if s.Entries, err = j.raw(string(KindEntries), emptyList); err != nil {
		return s, err
	}
	if s.Goals, err = j.raw(string(KindGoals), emptyList); err != nil {
		return s, err
	}
	if s.Reminders, err = j.raw(string(KindReminders), emptyList); err != nil {
		return s, err
	}
	if s.Theme, err = j.raw(theme.Key, defaultTheme); err != nil {
		return s, err
	}
	return s, nil
}

func (j *Journal) raw(key string, fallback json.RawMessage) (json.RawMessage, error) {
	data, ok, err := j.backend.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return fallback, nil
	}
	if !json.Valid(data) {
		// A bare theme id written by an older version
		if key == theme.Key {
			return json.Marshal(string(data))
		}
		return nil, fmt.Errorf("stored %s is not valid JSON", key)
	}
	return data, nil
}

// Export writes the snapshot as indented JSON.
func (j *Journal) Export(w io.Writer) error {
	s, err := j.Snapshot()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(s)
}

// Import decodes a snapshot and overwrites all four keys unconditionally.
// Missing lists are written as [] and a missing theme as the default theme.
// Records without IDs are given one afterwards.
func (j *Journal) Import(r io.Reader) error {
	var s Snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data after snapshot", ErrMalformedImport)
	}

	values := []struct {
		key      string
		raw      json.RawMessage
		fallback json.RawMessage
		target   any
	}{
		{string(KindEntries), s.Entries, emptyList, &[]Entry{}},
		{string(KindGoals), s.Goals, emptyList, &[]Goal{}},
		{string(KindReminders), s.Reminders, emptyList, &[]Reminder{}},
		{theme.Key, s.Theme, defaultTheme, new(string)},
	}

	// Decode everything before writing anything
	compacted := make([][]byte, len(values))
	for i, v := range values {
		raw := v.raw
		if len(raw) == 0 || string(raw) == "null" {
			raw = v.fallback
		}
		if err := json.Unmarshal(raw, v.target); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedImport, v.key, err)
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedImport, v.key, err)
		}
		compacted[i] = buf.Bytes()
	}

	for i, v := range values {
		if err := j.backend.Set(v.key, compacted[i]); err != nil {
			return fmt.Errorf("import %s: %w", v.key, err)
		}
	}

	_, err := j.Backfill()
	return err
}

// ExportFile writes the snapshot to path, replacing any existing file.
func (j *Journal) ExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := j.Export(f); err != nil {
		f.Close()
		return fmt.Errorf("export: %w", err)
	}
	return f.Close()
}

// ImportFile imports the snapshot stored at path.
func (j *Journal) ImportFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer f.Close()
	return j.Import(f)
}
