package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/voxbook/voxbook/internal/audio"
)

// ErrUnreadable means the file does not decode as PCM16 WAV.
var ErrUnreadable = errors.New("wav: file unreadable")

// File is a fully decoded WAV file.
type File struct {
	Format  audio.Format
	Samples []int16
}

// Frames returns the number of frames in the file.
func (f *File) Frames() int {
	if f.Format.Channels == 0 {
		return 0
	}
	return len(f.Samples) / f.Format.Channels
}

// Duration returns the playback duration.
func (f *File) Duration() time.Duration {
	if f.Format.SampleRate == 0 {
		return 0
	}
	return time.Duration(f.Frames()) * time.Second / time.Duration(f.Format.SampleRate)
}

// Decode reads and decodes a PCM16 WAV file. Any structural or format
// problem wraps ErrUnreadable.
func Decode(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}

	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: %s: not a RIFF/WAVE file", ErrUnreadable, path)
	}

	var format audio.Format
	var pcm []byte
	haveFmt := false

	// Walk the chunk list; chunks are word-aligned.
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if size < 0 || body+size > len(data) {
			return nil, fmt.Errorf("%w: %s: truncated %q chunk", ErrUnreadable, path, id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: %s: short fmt chunk", ErrUnreadable, path)
			}
			tag := binary.LittleEndian.Uint16(data[body : body+2])
			if tag != pcmFormatTag {
				return nil, fmt.Errorf("%w: %s: format tag %d is not PCM", ErrUnreadable, path, tag)
			}
			format.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			format.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			format.Bits = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			pcm = data[body : body+size]
		}

		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if !haveFmt || pcm == nil {
		return nil, fmt.Errorf("%w: %s: missing fmt or data chunk", ErrUnreadable, path)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %s: unsupported format %dHz/%dch/%dbit",
			ErrUnreadable, path, format.SampleRate, format.Channels, format.Bits)
	}

	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}
	return &File{Format: format, Samples: samples}, nil
}
