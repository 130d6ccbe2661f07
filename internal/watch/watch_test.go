package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/voxbook/voxbook/internal/logger"
)

func waitForCount(t *testing.T, n *atomic.Int64, want int64, what string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if n.Load() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s (have %d, want at least %d)", what, n.Load(), want)
}

func TestStartCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "recordings", "sam")
	w := New(dir, func() {}, logger.Nop())

	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Expected watched directory to exist: %v", err)
	}
}

func TestChangeFiresCallback(t *testing.T) {
	dir := t.TempDir()

	var fired atomic.Int64
	w := New(dir, func() { fired.Add(1) }, logger.Nop())
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "001_hello.wav"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	waitForCount(t, &fired, 1, "change callback after create")
}

func TestRemovalFiresCallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "001_hello.wav")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var fired atomic.Int64
	w := New(dir, func() { fired.Add(1) }, logger.Nop())
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	waitForCount(t, &fired, 1, "change callback after remove")
}

func TestBurstCoalesced(t *testing.T) {
	dir := t.TempDir()

	var fired atomic.Int64
	w := New(dir, func() { fired.Add(1) }, logger.Nop())
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	// A capture stop writes the .wav and its .txt copy back to back;
	// the burst should collapse into far fewer callbacks than events.
	for i := 0; i < 10; i++ {
		name := filepath.Join(dir, "burst"+string(rune('a'+i))+".wav")
		if err := os.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	waitForCount(t, &fired, 1, "coalesced callback")

	time.Sleep(2 * debounce)
	if n := fired.Load(); n > 5 {
		t.Errorf("Expected coalescing, got %d callbacks for 10 writes", n)
	}
}

func TestStopIdempotent(t *testing.T) {
	w := New(t.TempDir(), func() {}, logger.Nop())
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	w.Stop()
	w.Stop()

	if err := w.Start(); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	w.Stop()
}

func TestStopWithoutStart(t *testing.T) {
	w := New(t.TempDir(), func() {}, logger.Nop())
	w.Stop()
}
