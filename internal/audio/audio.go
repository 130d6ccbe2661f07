// Package audio provides the device catalog and the PCM stream abstraction
// used by the capture and playback engines.
package audio

// Device represents an audio input device.
type Device struct {
	// ID is the platform enumeration index. It is not guaranteed stable
	// across hardware topology changes.
	ID int
	// Name is the display name reported by the platform.
	Name string
	// UID is a hardware-stable identifier (host API qualified name).
	UID string
	// IsDefault marks the platform's current default input.
	IsDefault bool
}

// Format describes an interleaved PCM stream.
type Format struct {
	SampleRate int
	Channels   int
	Bits       int
}

// Canonical is the fixed storage format: 44.1 kHz, mono, 16-bit signed.
// Every recording the system writes satisfies this format regardless of
// the capturing hardware's native format.
var Canonical = Format{SampleRate: 44100, Channels: 1, Bits: 16}

// BytesPerFrame returns the size of one frame (one sample per channel).
func (f Format) BytesPerFrame() int {
	return f.Channels * f.Bits / 8
}

// Valid reports whether the format is usable by the pipeline.
func (f Format) Valid() bool {
	return f.SampleRate > 0 && f.Channels > 0 && f.Bits == 16
}

// LatencyMode defines the latency priority for capture streams.
type LatencyMode int

const (
	// LowLatency prioritizes low latency (real-time).
	LowLatency LatencyMode = iota
	// HighStability prioritizes stability (larger buffer).
	HighStability
)

// Stream is a started-on-demand audio stream. Stop and Close are safe to
// call more than once.
type Stream interface {
	Start() error
	Stop() error
	Close() error
}

// Driver is the interface to the audio hardware layer. The abstraction
// allows the engines to be exercised without hardware and keeps PortAudio
// replaceable.
type Driver interface {
	// ListInputDevices returns all devices exposing at least one input
	// channel, in platform enumeration order. A query failure yields an
	// empty list, not an error; callers fall back to the default device.
	ListInputDevices() []Device

	// DefaultInputDevice resolves the platform default input and looks it
	// up in the catalog. ok is false when the default cannot be resolved.
	DefaultInputDevice() (dev Device, ok bool)

	// OpenInput opens a capture stream against deviceID (platform index,
	// negative for the default device) in the device's native format,
	// which is returned. onBuffer is invoked on the driver's real-time
	// thread with interleaved int16 samples and must not block.
	OpenInput(deviceID int, latency LatencyMode, onBuffer func(in []int16)) (Stream, Format, error)

	// OpenOutput opens a playback stream on the default output device in
	// the given format. onBuffer must fill out with interleaved samples.
	OpenOutput(format Format, onBuffer func(out []int16)) (Stream, error)
}
