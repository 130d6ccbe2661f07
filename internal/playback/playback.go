// Package playback plays stored WAV files on the default output device,
// metering levels in parallel and signaling completion.
package playback

import (
	"errors"
	"fmt"
	"sync"

	"github.com/voxbook/voxbook/internal/audio"
	"github.com/voxbook/voxbook/internal/level"
	"github.com/voxbook/voxbook/internal/logger"
	"github.com/voxbook/voxbook/internal/wav"
)

var (
	// ErrFileUnreadable means the path does not decode as a playable file.
	ErrFileUnreadable = errors.New("playback: file unreadable")
	// ErrDeviceUnavailable means the output device could not be opened.
	ErrDeviceUnavailable = errors.New("playback: output device unavailable")
)

// session is the owned state of one playback. Constructed on Play,
// consumed on teardown; at most one exists at a time.
type session struct {
	path   string
	file   *wav.File
	stream audio.Stream

	// cursor is touched only by the real-time callback.
	cursor int

	done     chan struct{}
	doneOnce sync.Once
	stop     chan struct{}

	onComplete func()
}

// Engine is the playback engine: Idle <-> Playing. Completion is signaled
// asynchronously; an explicit Stop clears the pending completion so it
// cannot fire afterwards.
type Engine struct {
	drv audio.Driver
	log *logger.Logger

	meter level.Meter
	pub   *level.Publisher

	mu  sync.Mutex
	cur *session
}

// New creates a playback engine on the given driver.
func New(drv audio.Driver, log *logger.Logger) *Engine {
	e := &Engine{drv: drv, log: log}
	e.pub = level.NewPublisher(&e.meter, level.DefaultCadence)
	return e
}

// Levels returns the fixed-cadence level channel, active while playing.
func (e *Engine) Levels() <-chan float64 {
	return e.pub.Levels()
}

// Level returns the most recent metered level.
func (e *Engine) Level() float64 {
	return e.meter.Level()
}

// Playing reports whether playback is active.
func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cur != nil
}

// Play stops any current playback, then plays the file at path.
// onComplete is invoked exactly once when playback reaches end-of-stream;
// an explicit Stop does not invoke it.
func (e *Engine) Play(path string, onComplete func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cur != nil {
		e.stopLocked(e.cur)
	}

	file, err := wav.Decode(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}

	s := &session{
		path:       path,
		file:       file,
		done:       make(chan struct{}),
		stop:       make(chan struct{}),
		onComplete: onComplete,
	}

	stream, err := e.drv.OpenOutput(file.Format, func(out []int16) {
		e.onBuffer(s, out)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	s.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	e.cur = s
	e.pub.Start()
	go e.awaitCompletion(s)

	e.log.Info("playback started: %s (%v)", path, file.Duration())
	return nil
}

// onBuffer runs on the real-time callback thread: it feeds the output
// buffer from the decoded samples, meters the buffer via the player's
// average power, and flags end-of-stream once the file is drained.
func (e *Engine) onBuffer(s *session, out []int16) {
	n := copy(out, s.file.Samples[s.cursor:])
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
	s.cursor += n

	e.meter.Set(level.FromPower(level.PowerDB(out, s.file.Format.Channels)))

	if s.cursor >= len(s.file.Samples) {
		s.doneOnce.Do(func() { close(s.done) })
	}
}

// awaitCompletion resolves the session's terminal transition: natural
// end-of-stream tears down and fires the caller's completion; an explicit
// stop wins the race and suppresses it.
func (e *Engine) awaitCompletion(s *session) {
	select {
	case <-s.done:
	case <-s.stop:
		return
	}

	e.mu.Lock()
	if e.cur != s {
		// An explicit Stop (or a replacing Play) got here first.
		e.mu.Unlock()
		return
	}
	e.teardownLocked(s)
	cb := s.onComplete
	e.mu.Unlock()

	e.log.Info("playback finished: %s", s.path)
	if cb != nil {
		cb()
	}
}

// Stop halts playback, releases the player and resets the level. The
// pending completion callback is cleared. Calling Stop when idle is a
// no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cur == nil {
		return
	}
	e.stopLocked(e.cur)
}

func (e *Engine) stopLocked(s *session) {
	close(s.stop)
	e.teardownLocked(s)
	e.log.Info("playback stopped: %s", s.path)
}

func (e *Engine) teardownLocked(s *session) {
	s.stream.Stop()
	s.stream.Close()
	e.pub.Stop()
	e.meter.Reset()
	e.cur = nil
}
