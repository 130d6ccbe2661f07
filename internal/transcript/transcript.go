// Package transcript manages the catalog of prompt texts the operator
// reads aloud. Prompts live as UTF-8 text files under
// <root>/transcripts/, one prompt per file, ordered lexicographically by
// filename. That ordering is the sole source of each prompt's positional
// index, which the recording binder uses for naming.
package transcript

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Dir is the prompts directory name under the root.
const Dir = "transcripts"

// ErrValidation means a prompt could not be created from the given input.
var ErrValidation = errors.New("transcript: validation failed")

// Prompt is one script line the operator is asked to read. Immutable
// once loaded.
type Prompt struct {
	// ID is a stable identity token for this load of the prompt.
	ID string
	// Name is the source filename.
	Name string
	// BaseName is the filename without its extension.
	BaseName string
	// Text is the prompt content, trimmed of surrounding whitespace.
	Text string
	// Index is the prompt's position in the sorted catalog, or -1 for a
	// just-added prompt whose position is only stable after reload.
	Index int
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SanitizeName replaces every character outside [A-Za-z0-9_-] with '_'.
func SanitizeName(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// LoadPrompts reads the prompt catalog under root. The prompts directory
// is created if missing. Files are sorted lexicographically; the sort
// position becomes each prompt's index.
func LoadPrompts(root string) ([]Prompt, error) {
	dir := filepath.Join(root, Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create prompts directory: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	prompts := make([]Prompt, 0, len(names))
	for i, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt %s: %w", name, err)
		}
		prompts = append(prompts, Prompt{
			ID:       uuid.NewString(),
			Name:     name,
			BaseName: strings.TrimSuffix(name, filepath.Ext(name)),
			Text:     strings.TrimSpace(string(data)),
			Index:    i,
		})
	}
	return prompts, nil
}

// AddPrompt writes a new prompt file under root and returns the prompt.
// The name is sanitized to [A-Za-z0-9_-]. The returned prompt carries
// index -1: its position in the catalog ordering is only stable after the
// next full reload, since naming depends on sorted position, not append
// order. The in-memory catalog is not mutated; the caller appends the
// returned prompt to its working set.
func AddPrompt(root, name, text string) (Prompt, error) {
	name = strings.TrimSpace(name)
	text = strings.TrimSpace(text)
	if name == "" {
		return Prompt{}, fmt.Errorf("%w: empty name", ErrValidation)
	}
	if text == "" {
		return Prompt{}, fmt.Errorf("%w: empty text", ErrValidation)
	}

	dir := filepath.Join(root, Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Prompt{}, fmt.Errorf("failed to create prompts directory: %w", err)
	}

	base := SanitizeName(name)
	fileName := base + ".txt"
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte(text), 0644); err != nil {
		return Prompt{}, fmt.Errorf("failed to write prompt file: %w", err)
	}

	return Prompt{
		ID:       uuid.NewString(),
		Name:     fileName,
		BaseName: base,
		Text:     text,
		Index:    -1,
	}, nil
}
