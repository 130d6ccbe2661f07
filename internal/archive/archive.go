// Package archive exports a voice's recordings directory as a zip file
// by shelling out to the platform archiver.
package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/voxbook/voxbook/internal/logger"
)

// ErrArchiverUnavailable means no supported archiver is on PATH.
var ErrArchiverUnavailable = errors.New("archive: no supported archiver found")

// Exporter zips directories with an external utility.
type Exporter struct {
	log *logger.Logger
}

// New creates an exporter.
func New(log *logger.Logger) *Exporter {
	return &Exporter{log: log}
}

// command picks the archiver invocation for this platform. ditto
// preserves resource forks on macOS; zip -r covers everything else.
func command(ctx context.Context, srcDir, destZip string) (*exec.Cmd, error) {
	if runtime.GOOS == "darwin" {
		if path, err := exec.LookPath("ditto"); err == nil {
			return exec.CommandContext(ctx, path, "-c", "-k", "--sequesterRsrc", srcDir, destZip), nil
		}
	}
	path, err := exec.LookPath("zip")
	if err != nil {
		return nil, ErrArchiverUnavailable
	}
	cmd := exec.CommandContext(ctx, path, "-r", destZip, ".")
	cmd.Dir = srcDir
	return cmd, nil
}

// Export archives srcDir into destZip, replacing any existing archive.
// destZip's parent directory is created as needed.
func (e *Exporter) Export(ctx context.Context, srcDir, destZip string) error {
	info, err := os.Stat(srcDir)
	if err != nil {
		return fmt.Errorf("archive: source unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("archive: source is not a directory: %s", srcDir)
	}

	if err := os.MkdirAll(filepath.Dir(destZip), 0755); err != nil {
		return fmt.Errorf("archive: failed to create destination directory: %w", err)
	}
	// The external archivers append to an existing zip instead of
	// replacing it.
	if err := os.Remove(destZip); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("archive: failed to replace existing archive: %w", err)
	}

	cmd, err := command(ctx, srcDir, destZip)
	if err != nil {
		return err
	}

	e.log.Info("exporting %s to %s", srcDir, destZip)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("archive: %s failed: %w (%s)", cmd.Path, err, out)
	}
	return nil
}
