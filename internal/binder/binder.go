// Package binder maps (prompt, voice) pairs to canonical recording and
// transcript-copy paths, and derives recorded/unrecorded status from
// directory contents. Every operation is a pure function of the
// filesystem at call time: nothing is cached, so a change on disk between
// calls is always observed on the next call.
package binder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/voxbook/voxbook/internal/transcript"
)

// Dir is the recordings directory name under the root.
const Dir = "recordings"

// Binder derives recording paths and state under a root directory.
type Binder struct {
	Root string
}

// New creates a binder for the given root.
func New(root string) Binder {
	return Binder{Root: root}
}

// VoiceDir returns the recording directory for a voice.
func (b Binder) VoiceDir(voice string) string {
	return filepath.Join(b.Root, Dir, voice)
}

// canonicalBase is the indexed filename stem: a 1-based, zero-padded
// 3-digit position followed by the prompt's base name. A prompt whose
// catalog position cannot be resolved (index < 0) falls back to
// position 0 rather than failing.
func canonicalBase(p transcript.Prompt) string {
	index := p.Index
	if index < 0 {
		index = 0
	}
	return fmt.Sprintf("%03d_%s", index+1, p.BaseName)
}

// RecordingPath returns the canonical capture path for (prompt, voice):
// recordings/<voice>/NNN_<base>.wav. The path is a pure function of the
// prompt's position in the sorted catalog and its base name, stable
// across restarts while the prompt-file set is unchanged.
func (b Binder) RecordingPath(p transcript.Prompt, voice string) string {
	return filepath.Join(b.VoiceDir(voice), canonicalBase(p)+".wav")
}

// TranscriptCopyPath returns the path the exact prompt text is copied to
// alongside its recording after a successful capture.
func (b Binder) TranscriptCopyPath(p transcript.Prompt, voice string) string {
	return filepath.Join(b.VoiceDir(voice), canonicalBase(p)+".txt")
}

// ReferencePath returns the voice's reference-sample path, independent of
// the prompt list.
func (b Binder) ReferencePath(voice string) string {
	return filepath.Join(b.VoiceDir(voice), "ref.wav")
}

// IsRecorded reports whether a valid recording exists for (prompt,
// voice). Matching is three-tier, first match wins:
//
//  1. the exact canonical indexed filename exists;
//  2. a file named exactly <base>.wav exists (case-insensitive);
//  3. any .wav file whose name contains the base name exists
//     (case-insensitive).
//
// The fallback tiers accommodate recordings made before a renumbering or
// under an older naming convention, trading precision for availability.
func (b Binder) IsRecorded(p transcript.Prompt, voice string) bool {
	if _, err := os.Stat(b.RecordingPath(p, voice)); err == nil {
		return true
	}

	entries, err := os.ReadDir(b.VoiceDir(voice))
	if err != nil {
		return false
	}

	base := strings.ToLower(p.BaseName)
	exact := base + ".wav"
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(entry.Name()) == exact {
			return true
		}
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if strings.HasSuffix(name, ".wav") && strings.Contains(name, base) {
			return true
		}
	}
	return false
}
