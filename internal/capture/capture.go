// Package capture records audio from an input device into a canonical
// WAV file, metering levels as it goes.
package capture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/voxbook/voxbook/internal/audio"
	"github.com/voxbook/voxbook/internal/convert"
	"github.com/voxbook/voxbook/internal/level"
	"github.com/voxbook/voxbook/internal/logger"
	"github.com/voxbook/voxbook/internal/wav"
)

var (
	// ErrBusy means Start was called while a capture is active. The
	// caller must stop the current take first.
	ErrBusy = errors.New("capture: already capturing")
	// ErrDeviceUnavailable means the input device could not be opened.
	ErrDeviceUnavailable = errors.New("capture: device unavailable")
	// ErrFormatNegotiationFailed means no conversion path exists from the
	// device's native format to the canonical format.
	ErrFormatNegotiationFailed = errors.New("capture: format negotiation failed")
	// ErrFileCreateFailed means the destination file could not be created.
	ErrFileCreateFailed = errors.New("capture: file create failed")
)

// take is the owned state of one in-progress capture. It is constructed
// on Start and consumed on Stop; at most one exists at a time.
type take struct {
	path   string
	native audio.Format
	stream audio.Stream
	conv   *convert.Converter
	w      *wav.Writer

	// writeMu orders callback writes against Stop's close of the writer.
	writeMu sync.Mutex
	closed  bool

	dropped   atomic.Int64
	writeErrs atomic.Int64
}

// Engine is the capture engine: Idle <-> Capturing. All control methods
// are called from the control thread; the audio callback runs on the
// driver's real-time thread and touches only the meter and the take's
// write path.
type Engine struct {
	drv     audio.Driver
	log     *logger.Logger
	latency audio.LatencyMode

	meter level.Meter
	pub   *level.Publisher

	mu   sync.Mutex
	take *take
}

// New creates a capture engine on the given driver.
func New(drv audio.Driver, latency audio.LatencyMode, log *logger.Logger) *Engine {
	e := &Engine{drv: drv, log: log, latency: latency}
	e.pub = level.NewPublisher(&e.meter, level.DefaultCadence)
	return e
}

// Levels returns the fixed-cadence level channel, active while capturing.
func (e *Engine) Levels() <-chan float64 {
	return e.pub.Levels()
}

// Level returns the most recent metered level.
func (e *Engine) Level() float64 {
	return e.meter.Level()
}

// Capturing reports whether a capture is active.
func (e *Engine) Capturing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.take != nil
}

// Start begins capturing to targetPath from deviceID (negative for the
// platform default). Parent directories are created as needed. On any
// failure no engine state is registered and no resource is leaked.
func (e *Engine) Start(targetPath string, deviceID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.take != nil {
		return ErrBusy
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrFileCreateFailed, err)
	}

	t := &take{path: targetPath}

	// The stream is opened stopped; no callback fires until Start below,
	// so the take's pipeline fields can be filled in afterwards.
	stream, native, err := e.drv.OpenInput(deviceID, e.latency, func(in []int16) {
		e.onBuffer(t, in)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	conv, err := convert.New(native, audio.Canonical)
	if err != nil {
		stream.Close()
		return fmt.Errorf("%w: %v", ErrFormatNegotiationFailed, err)
	}

	w, err := wav.Create(targetPath, audio.Canonical)
	if err != nil {
		stream.Close()
		return fmt.Errorf("%w: %v", ErrFileCreateFailed, err)
	}

	t.stream = stream
	t.native = native
	t.conv = conv
	t.w = w

	if err := stream.Start(); err != nil {
		w.Close()
		os.Remove(targetPath)
		stream.Close()
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	e.take = t
	e.pub.Start()
	e.log.Info("capture started: %s (%dHz/%dch native)", targetPath, native.SampleRate, native.Channels)
	return nil
}

// onBuffer runs on the real-time callback thread. It must not block on
// anything but the short writer critical section.
func (e *Engine) onBuffer(t *take, in []int16) {
	e.meter.Set(level.FromBuffer(in, t.native.Channels))

	out, err := t.conv.Convert(in)
	if err != nil {
		// Per-buffer conversion failure is non-fatal: drop and continue.
		t.dropped.Add(1)
		return
	}

	t.writeMu.Lock()
	if !t.closed {
		if err := t.w.WriteSamples(out); err != nil {
			t.writeErrs.Add(1)
		}
	}
	t.writeMu.Unlock()
}

// Stop halts the capture, releases the device and finalizes the file.
// By the time Stop returns the engine is fully torn down. Calling Stop
// when idle is a no-op.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.take == nil {
		return nil
	}
	t := e.take
	e.take = nil

	e.pub.Stop()

	var firstErr error
	if err := t.stream.Stop(); err != nil {
		firstErr = err
	}
	if err := t.stream.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	t.writeMu.Lock()
	t.closed = true
	closeErr := t.w.Close()
	t.writeMu.Unlock()
	if closeErr != nil && firstErr == nil {
		firstErr = closeErr
	}

	e.meter.Reset()

	if n := t.dropped.Load(); n > 0 {
		e.log.Warn("capture dropped %d unconvertible buffers: %s", n, t.path)
	}
	if n := t.writeErrs.Load(); n > 0 {
		e.log.Warn("capture had %d failed writes: %s", n, t.path)
	}
	e.log.Info("capture stopped: %s", t.path)
	return firstErr
}
