package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

const framesPerBuffer = 1024

var (
	initOnce sync.Once
	initErr  error
)

// initialize initializes the PortAudio library once per process. PortAudio
// is terminated only at process exit; repeated Initialize/Terminate cycles
// invalidate device indices held by callers.
func initialize() error {
	initOnce.Do(func() {
		initErr = portaudio.Initialize()
	})
	return initErr
}

// PortAudioDriver implements Driver using PortAudio.
type PortAudioDriver struct{}

// NewPortAudioDriver creates the PortAudio-backed driver.
func NewPortAudioDriver() (*PortAudioDriver, error) {
	if err := initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return &PortAudioDriver{}, nil
}

func deviceUID(info *portaudio.DeviceInfo) string {
	if info.HostApi != nil {
		return info.HostApi.Name + ":" + info.Name
	}
	return info.Name
}

// ListInputDevices returns all devices with at least one input channel, in
// platform enumeration order. Enumeration failure yields an empty list.
func (d *PortAudioDriver) ListInputDevices() []Device {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil
	}

	defaultInput, err := portaudio.DefaultInputDevice()
	if err != nil {
		// Continue without marking any device as default.
		defaultInput = nil
	}

	var result []Device
	for i, dev := range devices {
		if dev.MaxInputChannels <= 0 {
			continue
		}
		result = append(result, Device{
			ID:        i,
			Name:      dev.Name,
			UID:       deviceUID(dev),
			IsDefault: defaultInput != nil && dev.Name == defaultInput.Name,
		})
	}
	return result
}

// DefaultInputDevice resolves the platform default input within the catalog.
func (d *PortAudioDriver) DefaultInputDevice() (Device, bool) {
	for _, dev := range d.ListInputDevices() {
		if dev.IsDefault {
			return dev, true
		}
	}
	return Device{}, false
}

// resolveInput returns the DeviceInfo for deviceID, or the platform default
// when deviceID is negative.
func resolveInput(deviceID int) (*portaudio.DeviceInfo, error) {
	if deviceID < 0 {
		info, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("failed to get default input device: %w", err)
		}
		return info, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	if deviceID >= len(devices) {
		return nil, fmt.Errorf("invalid device ID: %d", deviceID)
	}
	info := devices[deviceID]
	if info.MaxInputChannels <= 0 {
		return nil, fmt.Errorf("device '%s' (ID: %d) has no input channels", info.Name, deviceID)
	}
	return info, nil
}

// OpenInput opens a capture stream in the device's native format. The
// stream is returned stopped; callers Start it once their pipeline is
// armed.
func (d *PortAudioDriver) OpenInput(deviceID int, latency LatencyMode, onBuffer func(in []int16)) (Stream, Format, error) {
	info, err := resolveInput(deviceID)
	if err != nil {
		return nil, Format{}, err
	}

	channels := info.MaxInputChannels
	if channels > 2 {
		channels = 2
	}

	var lat time.Duration
	switch latency {
	case LowLatency:
		lat = info.DefaultLowInputLatency
	default:
		lat = info.DefaultHighInputLatency
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   info,
			Channels: channels,
			Latency:  lat,
		},
		SampleRate:      info.DefaultSampleRate,
		FramesPerBuffer: framesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, func(in []int16) {
		onBuffer(in)
	})
	if err != nil {
		return nil, Format{}, fmt.Errorf("failed to open input stream: %w", err)
	}

	native := Format{
		SampleRate: int(info.DefaultSampleRate),
		Channels:   channels,
		Bits:       16,
	}
	return &paStream{stream: stream}, native, nil
}

// OpenOutput opens a playback stream on the default output device.
func (d *PortAudioDriver) OpenOutput(format Format, onBuffer func(out []int16)) (Stream, error) {
	info, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return nil, fmt.Errorf("failed to get default output device: %w", err)
	}

	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   info,
			Channels: format.Channels,
			Latency:  info.DefaultHighOutputLatency,
		},
		SampleRate:      float64(format.SampleRate),
		FramesPerBuffer: framesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, func(out []int16) {
		onBuffer(out)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open output stream: %w", err)
	}
	return &paStream{stream: stream}, nil
}

// paStream adapts *portaudio.Stream to the Stream interface with
// idempotent Stop/Close.
type paStream struct {
	mu      sync.Mutex
	stream  *portaudio.Stream
	started bool
	closed  bool
}

func (s *paStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("stream closed")
	}
	if s.started {
		return nil
	}
	if err := s.stream.Start(); err != nil {
		return fmt.Errorf("failed to start stream: %w", err)
	}
	s.started = true
	return nil
}

func (s *paStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.started {
		return nil
	}
	if err := s.stream.Stop(); err != nil {
		return fmt.Errorf("failed to stop stream: %w", err)
	}
	s.started = false
	return nil
}

func (s *paStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.started {
		s.stream.Stop()
		s.started = false
	}
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}
	return nil
}
