// Package session coordinates the prompt catalog, the recording binder
// and the capture/playback engines for one voice. It owns the working
// set of prompts and the cached recorded/unrecorded view, re-deriving
// that view from the filesystem after every successful capture stop.
package session

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/voxbook/voxbook/internal/audio"
	"github.com/voxbook/voxbook/internal/binder"
	"github.com/voxbook/voxbook/internal/capture"
	"github.com/voxbook/voxbook/internal/logger"
	"github.com/voxbook/voxbook/internal/playback"
	"github.com/voxbook/voxbook/internal/transcript"
)

// ErrPromptNotFound means no prompt in the working set matches the key.
var ErrPromptNotFound = errors.New("session: prompt not found")

// Config holds session configuration.
type Config struct {
	RootDir       string
	Voice         string
	AudioDeviceID int
	Latency       audio.LatencyMode
}

// Manager drives one operator session: at most one capture and one
// playback at a time, against the paths the binder derives.
type Manager struct {
	cfg    Config
	log    *logger.Logger
	binder binder.Binder

	capture  *capture.Engine
	playback *playback.Engine

	mu       sync.Mutex
	prompts  []transcript.Prompt
	recorded map[string]bool
	// current is the prompt of the in-progress take; nil while idle or
	// while recording the voice reference.
	current *transcript.Prompt
}

// New creates a session manager and loads the prompt catalog.
func New(drv audio.Driver, cfg Config, log *logger.Logger) (*Manager, error) {
	m := &Manager{
		cfg:      cfg,
		log:      log,
		binder:   binder.New(cfg.RootDir),
		capture:  capture.New(drv, cfg.Latency, log),
		playback: playback.New(drv, log),
	}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Voice returns the session's voice name.
func (m *Manager) Voice() string {
	return m.cfg.Voice
}

// Binder returns the session's binder.
func (m *Manager) Binder() binder.Binder {
	return m.binder
}

// Logger returns the session's logger, for wiring companions like the
// directory watcher.
func (m *Manager) Logger() *logger.Logger {
	return m.log
}

// Reload re-reads the prompt catalog from disk, re-sorting the working
// set and re-deriving recorded state.
func (m *Manager) Reload() error {
	prompts, err := transcript.LoadPrompts(m.cfg.RootDir)
	if err != nil {
		return fmt.Errorf("session: failed to load prompts: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = prompts
	m.deriveLocked()
	return nil
}

// Refresh re-derives recorded state from the filesystem without
// reloading prompt texts. Used when the recordings directory changes
// outside the engines (see the watch package).
func (m *Manager) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deriveLocked()
}

func (m *Manager) deriveLocked() {
	m.recorded = make(map[string]bool, len(m.prompts))
	for _, p := range m.prompts {
		m.recorded[p.Name] = m.binder.IsRecorded(p, m.cfg.Voice)
	}
}

// Prompts returns the working set in catalog order.
func (m *Manager) Prompts() []transcript.Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]transcript.Prompt, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// Recorded reports the cached recorded state for a prompt.
func (m *Manager) Recorded(p transcript.Prompt) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recorded[p.Name]
}

// FindPrompt resolves a prompt by base name or 1-based catalog position.
func (m *Manager) FindPrompt(key string) (transcript.Prompt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n, err := strconv.Atoi(key); err == nil {
		if n >= 1 && n <= len(m.prompts) {
			return m.prompts[n-1], nil
		}
		return transcript.Prompt{}, fmt.Errorf("%w: position %d of %d", ErrPromptNotFound, n, len(m.prompts))
	}
	for _, p := range m.prompts {
		if strings.EqualFold(p.BaseName, key) {
			return p, nil
		}
	}
	return transcript.Prompt{}, fmt.Errorf("%w: %q", ErrPromptNotFound, key)
}

// AddPrompt writes a new prompt file and appends it to the working set.
// Its catalog position is only stable after the next Reload.
func (m *Manager) AddPrompt(name, text string) (transcript.Prompt, error) {
	p, err := transcript.AddPrompt(m.cfg.RootDir, name, text)
	if err != nil {
		return transcript.Prompt{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, p)
	m.recorded[p.Name] = m.binder.IsRecorded(p, m.cfg.Voice)
	return p, nil
}

// StartTake begins capturing the given prompt.
func (m *Manager) StartTake(p transcript.Prompt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := m.binder.RecordingPath(p, m.cfg.Voice)
	if err := m.capture.Start(path, m.cfg.AudioDeviceID); err != nil {
		return err
	}
	m.current = &p
	return nil
}

// StartReference begins capturing the voice's reference sample.
func (m *Manager) StartReference() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.capture.Start(m.binder.ReferencePath(m.cfg.Voice), m.cfg.AudioDeviceID); err != nil {
		return err
	}
	m.current = nil
	return nil
}

// StopTake halts the capture, persists the transcript copy next to the
// recording and re-derives the prompt's recorded state. A no-op when not
// capturing.
func (m *Manager) StopTake() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.capture.Stop(); err != nil {
		return err
	}
	p := m.current
	m.current = nil
	if p == nil {
		return nil
	}

	copyPath := m.binder.TranscriptCopyPath(*p, m.cfg.Voice)
	if err := os.WriteFile(copyPath, []byte(p.Text), 0644); err != nil {
		m.log.Warn("failed to write transcript copy %s: %v", copyPath, err)
	}

	m.recorded[p.Name] = m.binder.IsRecorded(*p, m.cfg.Voice)
	return nil
}

// Capturing reports whether a capture is in progress.
func (m *Manager) Capturing() bool {
	return m.capture.Capturing()
}

// CaptureLevels returns the capture engine's level channel.
func (m *Manager) CaptureLevels() <-chan float64 {
	return m.capture.Levels()
}

// PlayTake plays the prompt's recording; onComplete fires once on
// natural end-of-stream.
func (m *Manager) PlayTake(p transcript.Prompt, onComplete func()) error {
	return m.playback.Play(m.binder.RecordingPath(p, m.cfg.Voice), onComplete)
}

// PlayReference plays the voice's reference sample.
func (m *Manager) PlayReference(onComplete func()) error {
	return m.playback.Play(m.binder.ReferencePath(m.cfg.Voice), onComplete)
}

// StopPlayback halts any current playback. Idempotent.
func (m *Manager) StopPlayback() {
	m.playback.Stop()
}

// PlaybackLevels returns the playback engine's level channel.
func (m *Manager) PlaybackLevels() <-chan float64 {
	return m.playback.Levels()
}

// Close stops both engines.
func (m *Manager) Close() error {
	m.playback.Stop()
	return m.StopTake()
}
