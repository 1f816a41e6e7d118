package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// database/sql keeps a connection opener goroutine per open DB until Close
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

func TestWatcherReportsExternalWrite(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewFileBackend(dir)
	require.NoError(t, err)
	reader, err := NewFileBackend(dir)
	require.NoError(t, err)

	w, err := Watch(reader, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, Save(writer, "goals", []record{{Text: "from another process"}}))

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestWatcherIgnoresLockFiles(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	_, match := b.WatchTarget()

	require.True(t, match("goals.json"))
	require.False(t, match("goals.json.lock"))
	require.False(t, match("goals.json.tmp"))
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	w, err := Watch(b, time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
