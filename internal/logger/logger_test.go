package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	l, err := New(Config{LogDir: dir, Level: INFO, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	l.Info("capture started for %s", "001_hello.wav")
	l.Debug("should be filtered at INFO")
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "voxbook.log"))
	if err != nil {
		t.Fatalf("Log file not created: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "capture started for 001_hello.wav") {
		t.Errorf("Log file missing info message: %q", out)
	}
	if strings.Contains(out, "should be filtered") {
		t.Errorf("Debug message leaked at INFO level: %q", out)
	}
}

func TestSetLevel(t *testing.T) {
	dir := t.TempDir()
	l, err := New(Config{LogDir: dir, Level: ERROR, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	l.Info("before")
	l.SetLevel(DEBUG)
	l.Debug("after")
	l.Close()

	data, _ := os.ReadFile(filepath.Join(dir, "voxbook.log"))
	out := string(data)
	if strings.Contains(out, "before") {
		t.Error("Info message logged at ERROR level")
	}
	if !strings.Contains(out, "after") {
		t.Error("Debug message missing after SetLevel(DEBUG)")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DEBUG,
		"info":    INFO,
		"warn":    WARN,
		"error":   ERROR,
		"bogus":   INFO,
		"":        INFO,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelString(t *testing.T) {
	if DEBUG.String() != "DEBUG" || ERROR.String() != "ERROR" {
		t.Error("Level String() mismatch")
	}
	if Level(42).String() != "UNKNOWN" {
		t.Error("Unexpected String() for unknown level")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("discarded %d", 1)
	if err := l.Close(); err != nil {
		t.Errorf("Nop Close failed: %v", err)
	}
}
