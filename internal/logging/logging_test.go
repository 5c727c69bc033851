package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesFileAndUI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pulse.log")
	l := New(Options{File: path, MaxSizeMB: 1, UIBuffer: 4})

	l.Logger.Printf("SessionTimer: paused at %s", "00:03")
	require.NoError(t, l.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "SessionTimer: paused at 00:03\n")

	select {
	case line := <-l.UILines:
		assert.Contains(t, line, "SessionTimer: paused at 00:03")
		assert.NotContains(t, line, "\n")
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for UI line")
	}
}

func TestNew_FullUIChannelDoesNotBlock(t *testing.T) {
	l := New(Options{File: filepath.Join(t.TempDir(), "pulse.log"), UIBuffer: 2})
	defer l.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			l.Logger.Printf("line %d", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("logging blocked on a full UI channel")
	}
	assert.Len(t, l.UILines, 2)
}

func TestNew_DefaultBuffer(t *testing.T) {
	l := New(Options{File: filepath.Join(t.TempDir(), "pulse.log")})
	defer l.Close()
	assert.Equal(t, DefaultUIBuffer, cap(l.UILines))
}

func TestNew_UnwritableFileKeepsUILines(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o600))

	// The log directory would have to live inside a regular file
	l := New(Options{File: filepath.Join(blocker, "pulse.log"), UIBuffer: 4})
	defer l.Close()

	l.Logger.Println("Pulse: starting")
	l.Logger.Println("Pulse: stopped")

	for _, want := range []string{"Pulse: starting", "Pulse: stopped"} {
		select {
		case line := <-l.UILines:
			assert.Contains(t, line, want)
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Timeout waiting for UI line %q", want)
		}
	}
	_, err := os.Stat(filepath.Join(blocker, "pulse.log"))
	assert.Error(t, err)
}
