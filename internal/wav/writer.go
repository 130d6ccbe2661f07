// Package wav reads and writes PCM WAV files in the canonical storage
// format (16-bit signed little-endian).
package wav

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/voxbook/voxbook/internal/audio"
)

const (
	headerSize   = 44
	pcmFormatTag = 1
)

// Writer streams PCM16 samples into a WAV file. The header is written
// with placeholder sizes on Create and patched on Close, so a file is
// well-formed only after Close returns. Create truncates an existing
// file: re-recording overwrites, never appends.
type Writer struct {
	f         *os.File
	format    audio.Format
	dataBytes int
	closed    bool
}

// Create opens path for writing in the given format.
func Create(path string, format audio.Format) (*Writer, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("wav: unsupported format %dHz/%dch/%dbit", format.SampleRate, format.Channels, format.Bits)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("wav: failed to create %s: %w", path, err)
	}

	w := &Writer{f: f, format: format}
	if err := w.writeHeader(); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	return w, nil
}

func (w *Writer) writeHeader() error {
	var hdr [headerSize]byte
	byteRate := w.format.SampleRate * w.format.BytesPerFrame()

	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(36+w.dataBytes))
	copy(hdr[8:12], "WAVE")

	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], pcmFormatTag)
	binary.LittleEndian.PutUint16(hdr[22:24], uint16(w.format.Channels))
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(w.format.SampleRate))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(w.format.BytesPerFrame()))
	binary.LittleEndian.PutUint16(hdr[34:36], uint16(w.format.Bits))

	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(w.dataBytes))

	if _, err := w.f.WriteAt(hdr[:], 0); err != nil {
		return fmt.Errorf("wav: failed to write header: %w", err)
	}
	return nil
}

// WriteSamples appends interleaved samples to the data chunk.
func (w *Writer) WriteSamples(samples []int16) error {
	if w.closed {
		return fmt.Errorf("wav: writer closed")
	}
	if len(samples) == 0 {
		return nil
	}

	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}

	if _, err := w.f.WriteAt(buf, int64(headerSize+w.dataBytes)); err != nil {
		return fmt.Errorf("wav: write failed: %w", err)
	}
	w.dataBytes += len(buf)
	return nil
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int {
	return w.dataBytes / w.format.BytesPerFrame()
}

// Close patches the header sizes and releases the file handle. Idempotent.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.writeHeader(); err != nil {
		w.f.Close()
		return err
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("wav: close failed: %w", err)
	}
	return nil
}
