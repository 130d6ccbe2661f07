package convert

import (
	"errors"
	"testing"

	"github.com/voxbook/voxbook/internal/audio"
)

func TestNewUnsupportedFormats(t *testing.T) {
	cases := []struct {
		name string
		src  audio.Format
		dst  audio.Format
	}{
		{"24-bit source", audio.Format{SampleRate: 48000, Channels: 1, Bits: 24}, audio.Canonical},
		{"five channels", audio.Format{SampleRate: 48000, Channels: 5, Bits: 16}, audio.Canonical},
		{"zero rate", audio.Format{SampleRate: 0, Channels: 1, Bits: 16}, audio.Canonical},
		{"bad destination", audio.Format{SampleRate: 48000, Channels: 1, Bits: 16}, audio.Format{SampleRate: 44100, Channels: 3, Bits: 16}},
	}

	for _, tc := range cases {
		if _, err := New(tc.src, tc.dst); !errors.Is(err, ErrConversionUnavailable) {
			t.Errorf("%s: expected ErrConversionUnavailable, got %v", tc.name, err)
		}
	}
}

func TestConvertPassthrough(t *testing.T) {
	c, err := New(audio.Canonical, audio.Canonical)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	in := []int16{100, -200, 300, -400}
	out, err := c.Convert(in)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("Expected %d samples, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("Sample %d: expected %d, got %d", i, in[i], out[i])
		}
	}

	// Output must be a copy, not an alias.
	out[0] = 9999
	if in[0] != 100 {
		t.Error("Convert aliased the input buffer")
	}
}

func TestConvertStereoDownmix(t *testing.T) {
	src := audio.Format{SampleRate: 44100, Channels: 2, Bits: 16}
	c, err := New(src, audio.Canonical)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	in := []int16{100, 300, -100, -300, 32767, 32767}
	out, err := c.Convert(in)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	want := []int16{200, -200, 32767}
	if len(out) != len(want) {
		t.Fatalf("Expected %d frames, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("Frame %d: expected %d, got %d", i, want[i], out[i])
		}
	}
}

func TestConvertMonoUpmix(t *testing.T) {
	dst := audio.Format{SampleRate: 44100, Channels: 2, Bits: 16}
	c, err := New(audio.Canonical, dst)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out, err := c.Convert([]int16{5, -5})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	want := []int16{5, 5, -5, -5}
	if len(out) != len(want) {
		t.Fatalf("Expected %d samples, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("Sample %d: expected %d, got %d", i, want[i], out[i])
		}
	}
}

func TestTargetFrames(t *testing.T) {
	cases := []struct {
		n, src, dst, want int
	}{
		{1024, 48000, 44100, 941},
		{1024, 44100, 44100, 1024},
		{1000, 16000, 44100, 2756},
		{1, 96000, 44100, 0},
	}
	for _, tc := range cases {
		if got := TargetFrames(tc.n, tc.src, tc.dst); got != tc.want {
			t.Errorf("TargetFrames(%d, %d, %d) = %d, want %d", tc.n, tc.src, tc.dst, got, tc.want)
		}
	}
}

func TestConvertResampleFrameCount(t *testing.T) {
	src := audio.Format{SampleRate: 48000, Channels: 1, Bits: 16}
	c, err := New(src, audio.Canonical)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Stream one second of audio through in hardware-sized buffers. The
	// resampler carries latency across calls, so only the cumulative frame
	// count is checked, with a loose bound for filter delay.
	const bufFrames = 1024
	totalIn, totalOut := 0, 0
	buf := make([]int16, bufFrames)
	for totalIn < src.SampleRate {
		out, err := c.Convert(buf)
		if err != nil {
			t.Fatalf("Convert failed: %v", err)
		}
		totalIn += bufFrames
		totalOut += len(out)
	}

	want := TargetFrames(totalIn, src.SampleRate, audio.Canonical.SampleRate)
	if totalOut > want+bufFrames {
		t.Errorf("Produced %d frames for %d input frames, want at most %d", totalOut, totalIn, want+bufFrames)
	}
	if totalOut < want-4*bufFrames {
		t.Errorf("Produced %d frames for %d input frames, want near %d", totalOut, totalIn, want)
	}
}
