// Package convert turns buffers in a device's native capture format into
// the canonical storage format (sample rate and channel layout).
package convert

import (
	"errors"
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/voxbook/voxbook/internal/audio"
)

// ErrConversionUnavailable means no conversion path exists between the
// two formats. Callers drop the buffer (or refuse the stream) rather than
// crash the pipeline.
var ErrConversionUnavailable = errors.New("convert: no conversion path between formats")

// Converter converts interleaved int16 buffers from a fixed source format
// to a fixed destination format. One Converter serves one capture session;
// it carries resampler state across buffers and is not safe for concurrent
// use.
type Converter struct {
	src audio.Format
	dst audio.Format
	rs  resampling.Resampler // nil when no rate conversion is needed
}

// New creates a Converter from src to dst. Only 16-bit formats with one or
// two channels are supported; anything else yields ErrConversionUnavailable.
func New(src, dst audio.Format) (*Converter, error) {
	if !supported(src) || !supported(dst) {
		return nil, fmt.Errorf("%w: %dHz/%dch/%dbit -> %dHz/%dch/%dbit",
			ErrConversionUnavailable,
			src.SampleRate, src.Channels, src.Bits,
			dst.SampleRate, dst.Channels, dst.Bits)
	}

	c := &Converter{src: src, dst: dst}
	if src.SampleRate != dst.SampleRate {
		rs, err := resampling.New(&resampling.Config{
			InputRate:  float64(src.SampleRate),
			OutputRate: float64(dst.SampleRate),
			Channels:   dst.Channels,
			Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConversionUnavailable, err)
		}
		c.rs = rs
	}
	return c, nil
}

func supported(f audio.Format) bool {
	return f.SampleRate > 0 && f.Bits == 16 && (f.Channels == 1 || f.Channels == 2)
}

// TargetFrames is the frame-count contract: converting n source frames
// yields round(n * dstRate / srcRate) frames (within rounding of the
// resampler's internal pipeline).
func TargetFrames(n, srcRate, dstRate int) int {
	return int(math.Round(float64(n) * float64(dstRate) / float64(srcRate)))
}

// Convert converts one buffer. The returned slice is freshly allocated;
// the input is not retained.
func (c *Converter) Convert(in []int16) ([]int16, error) {
	buf := c.convertChannels(in)
	if c.rs == nil {
		return buf, nil
	}

	input := make([]float64, len(buf))
	for i, s := range buf {
		input[i] = float64(s) / 32768.0
	}

	output, err := c.rs.Process(input)
	if err != nil {
		return nil, fmt.Errorf("convert: resample failed: %w", err)
	}

	out := make([]int16, len(output))
	for i, s := range output {
		switch {
		case s > 1.0:
			out[i] = math.MaxInt16
		case s < -1.0:
			out[i] = math.MinInt16
		default:
			out[i] = int16(s * 32767.0)
		}
	}
	return out, nil
}

// convertChannels reconciles channel layouts: stereo is downmixed by
// averaging, mono is upmixed by duplication.
func (c *Converter) convertChannels(in []int16) []int16 {
	switch {
	case c.src.Channels == c.dst.Channels:
		out := make([]int16, len(in))
		copy(out, in)
		return out
	case c.src.Channels == 2 && c.dst.Channels == 1:
		frames := len(in) / 2
		out := make([]int16, frames)
		for i := 0; i < frames; i++ {
			out[i] = int16((int32(in[i*2]) + int32(in[i*2+1])) / 2)
		}
		return out
	default: // mono -> stereo
		out := make([]int16, len(in)*2)
		for i, s := range in {
			out[i*2] = s
			out[i*2+1] = s
		}
		return out
	}
}
