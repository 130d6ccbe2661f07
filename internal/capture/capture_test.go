package capture

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/voxbook/voxbook/internal/audio"
	"github.com/voxbook/voxbook/internal/logger"
	"github.com/voxbook/voxbook/internal/wav"
)

type fakeStream struct {
	startErr error
	started  bool
	stopped  bool
	closed   bool
}

func (s *fakeStream) Start() error {
	if s.startErr != nil {
		return s.startErr
	}
	s.started = true
	return nil
}

func (s *fakeStream) Stop() error {
	s.stopped = true
	return nil
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

type fakeDriver struct {
	native   audio.Format
	openErr  error
	startErr error
	stream   *fakeStream
	onBuffer func([]int16)
}

func (d *fakeDriver) ListInputDevices() []audio.Device {
	return []audio.Device{{ID: 0, Name: "fake mic", UID: "fake:mic", IsDefault: true}}
}

func (d *fakeDriver) DefaultInputDevice() (audio.Device, bool) {
	return d.ListInputDevices()[0], true
}

func (d *fakeDriver) OpenInput(deviceID int, latency audio.LatencyMode, onBuffer func([]int16)) (audio.Stream, audio.Format, error) {
	if d.openErr != nil {
		return nil, audio.Format{}, d.openErr
	}
	d.onBuffer = onBuffer
	d.stream = &fakeStream{startErr: d.startErr}
	return d.stream, d.native, nil
}

func (d *fakeDriver) OpenOutput(format audio.Format, onBuffer func([]int16)) (audio.Stream, error) {
	return nil, errors.New("no output in fake driver")
}

func newFakeEngine(native audio.Format) (*Engine, *fakeDriver) {
	drv := &fakeDriver{native: native}
	return New(drv, audio.HighStability, logger.Nop()), drv
}

func TestStartStopWritesCanonicalFile(t *testing.T) {
	e, drv := newFakeEngine(audio.Canonical)
	path := filepath.Join(t.TempDir(), "sam", "001_hello.wav")

	if err := e.Start(path, -1); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !e.Capturing() {
		t.Error("Expected Capturing after Start")
	}

	buf := make([]int16, 441)
	for i := range buf {
		buf[i] = 1000
	}
	for i := 0; i < 3; i++ {
		drv.onBuffer(buf)
	}

	if err := e.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if e.Capturing() {
		t.Error("Expected Idle after Stop")
	}

	f, err := wav.Decode(path)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if f.Format != audio.Canonical {
		t.Errorf("Expected canonical format, got %+v", f.Format)
	}
	if f.Frames() != 3*441 {
		t.Errorf("Expected %d frames, got %d", 3*441, f.Frames())
	}
}

func TestStartCreatesParentDirectories(t *testing.T) {
	e, _ := newFakeEngine(audio.Canonical)
	path := filepath.Join(t.TempDir(), "a", "b", "c", "take.wav")

	if err := e.Start(path, -1); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	e.Stop()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected file at %s: %v", path, err)
	}
}

func TestStartWhileCapturing(t *testing.T) {
	e, _ := newFakeEngine(audio.Canonical)
	dir := t.TempDir()

	if err := e.Start(filepath.Join(dir, "one.wav"), -1); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()

	if err := e.Start(filepath.Join(dir, "two.wav"), -1); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy, got %v", err)
	}
}

func TestStopWhenIdle(t *testing.T) {
	e, _ := newFakeEngine(audio.Canonical)
	if err := e.Stop(); err != nil {
		t.Errorf("Stop when idle should be a no-op, got %v", err)
	}
	if err := e.Stop(); err != nil {
		t.Errorf("Repeated Stop should be a no-op, got %v", err)
	}
}

func TestStartDeviceUnavailable(t *testing.T) {
	drv := &fakeDriver{openErr: errors.New("no such device")}
	e := New(drv, audio.HighStability, logger.Nop())

	err := e.Start(filepath.Join(t.TempDir(), "x.wav"), 7)
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("Expected ErrDeviceUnavailable, got %v", err)
	}
	if e.Capturing() {
		t.Error("Engine must stay idle after a failed Start")
	}
}

func TestStartFormatNegotiationFailed(t *testing.T) {
	e, drv := newFakeEngine(audio.Format{SampleRate: 48000, Channels: 3, Bits: 16})

	err := e.Start(filepath.Join(t.TempDir(), "x.wav"), -1)
	if !errors.Is(err, ErrFormatNegotiationFailed) {
		t.Errorf("Expected ErrFormatNegotiationFailed, got %v", err)
	}
	if drv.stream == nil || !drv.stream.closed {
		t.Error("Stream must be closed on negotiation failure")
	}
	if e.Capturing() {
		t.Error("Engine must stay idle after a failed Start")
	}
}

func TestStartFileCreateFailed(t *testing.T) {
	e, _ := newFakeEngine(audio.Canonical)

	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	err := e.Start(filepath.Join(blocker, "x.wav"), -1)
	if !errors.Is(err, ErrFileCreateFailed) {
		t.Errorf("Expected ErrFileCreateFailed, got %v", err)
	}
}

func TestStreamStartFailureLeavesNoFile(t *testing.T) {
	drv := &fakeDriver{native: audio.Canonical, startErr: errors.New("device busy")}
	e := New(drv, audio.HighStability, logger.Nop())
	path := filepath.Join(t.TempDir(), "x.wav")

	err := e.Start(path, -1)
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("Expected ErrDeviceUnavailable, got %v", err)
	}
	if _, serr := os.Stat(path); !os.IsNotExist(serr) {
		t.Error("Partial file must be removed on failed Start")
	}
	if !drv.stream.closed {
		t.Error("Stream must be closed on failed Start")
	}
}

func TestLevelDuringCapture(t *testing.T) {
	e, drv := newFakeEngine(audio.Canonical)
	path := filepath.Join(t.TempDir(), "x.wav")

	if err := e.Start(path, -1); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	loud := make([]int16, 1024)
	for i := range loud {
		loud[i] = 30000
	}
	drv.onBuffer(loud)

	if got := e.Level(); got < 0.9 {
		t.Errorf("Expected near full-scale level, got %f", got)
	}

	e.Stop()
	if got := e.Level(); got != 0 {
		t.Errorf("Expected level reset to 0 after Stop, got %f", got)
	}
	if !drv.stream.stopped || !drv.stream.closed {
		t.Error("Stop must halt and close the stream")
	}
}

func TestRecaptureOverwrites(t *testing.T) {
	e, drv := newFakeEngine(audio.Canonical)
	path := filepath.Join(t.TempDir(), "retake.wav")

	if err := e.Start(path, -1); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	drv.onBuffer(make([]int16, 44100))
	e.Stop()

	if err := e.Start(path, -1); err != nil {
		t.Fatalf("Second Start failed: %v", err)
	}
	drv.onBuffer(make([]int16, 500))
	e.Stop()

	f, err := wav.Decode(path)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if f.Frames() != 500 {
		t.Errorf("Expected only the second take's 500 frames, got %d", f.Frames())
	}
}

func TestStereoNativeDownmixed(t *testing.T) {
	e, drv := newFakeEngine(audio.Format{SampleRate: 44100, Channels: 2, Bits: 16})
	path := filepath.Join(t.TempDir(), "stereo.wav")

	if err := e.Start(path, -1); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	drv.onBuffer(make([]int16, 2048)) // 1024 stereo frames
	e.Stop()

	f, err := wav.Decode(path)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if f.Format.Channels != 1 {
		t.Errorf("Expected mono output, got %d channels", f.Format.Channels)
	}
	if f.Frames() != 1024 {
		t.Errorf("Expected 1024 mono frames, got %d", f.Frames())
	}
}
