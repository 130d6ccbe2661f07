package audio

import (
	"testing"
)

func TestCanonicalFormat(t *testing.T) {
	if Canonical.SampleRate != 44100 {
		t.Errorf("Expected canonical sample rate 44100, got %d", Canonical.SampleRate)
	}
	if Canonical.Channels != 1 {
		t.Errorf("Expected canonical mono, got %d channels", Canonical.Channels)
	}
	if Canonical.Bits != 16 {
		t.Errorf("Expected canonical 16-bit, got %d", Canonical.Bits)
	}
	if Canonical.BytesPerFrame() != 2 {
		t.Errorf("Expected 2 bytes per canonical frame, got %d", Canonical.BytesPerFrame())
	}
}

func TestFormatValid(t *testing.T) {
	cases := []struct {
		name   string
		format Format
		want   bool
	}{
		{"canonical", Canonical, true},
		{"stereo 48k", Format{48000, 2, 16}, true},
		{"zero rate", Format{0, 1, 16}, false},
		{"zero channels", Format{44100, 0, 16}, false},
		{"24-bit", Format{44100, 1, 24}, false},
	}

	for _, tc := range cases {
		if got := tc.format.Valid(); got != tc.want {
			t.Errorf("%s: Valid() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestListInputDevices(t *testing.T) {
	driver, err := NewPortAudioDriver()
	if err != nil {
		t.Skipf("PortAudio not available: %v", err)
	}

	devices := driver.ListInputDevices()
	if len(devices) == 0 {
		t.Skip("No audio input devices available")
	}

	t.Logf("Found %d input devices", len(devices))
	for _, dev := range devices {
		t.Logf("Device %d: %s (uid: %s, default: %v)", dev.ID, dev.Name, dev.UID, dev.IsDefault)
		if dev.UID == "" {
			t.Errorf("Device %d has empty UID", dev.ID)
		}
	}
}

func TestDefaultInputDevice(t *testing.T) {
	driver, err := NewPortAudioDriver()
	if err != nil {
		t.Skipf("PortAudio not available: %v", err)
	}

	dev, ok := driver.DefaultInputDevice()
	if !ok {
		t.Skip("No default input device available")
	}
	if !dev.IsDefault {
		t.Error("Default device not marked as default")
	}
}
