package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/voxbook/voxbook/internal/audio"
	"github.com/voxbook/voxbook/internal/config"
	"github.com/voxbook/voxbook/internal/session"
)

// noDriver backs catalog-only commands so listing and adding prompts
// works on machines without a usable audio stack.
type noDriver struct{}

func (noDriver) ListInputDevices() []audio.Device         { return nil }
func (noDriver) DefaultInputDevice() (audio.Device, bool) { return audio.Device{}, false }

func (noDriver) OpenInput(int, audio.LatencyMode, func([]int16)) (audio.Stream, audio.Format, error) {
	return nil, audio.Format{}, errors.New("audio unavailable")
}

func (noDriver) OpenOutput(audio.Format, func([]int16)) (audio.Stream, error) {
	return nil, errors.New("audio unavailable")
}

// openCatalog is openSession without the audio hardware.
func openCatalog(cmd *cobra.Command) (*session.Manager, *config.Config, func(), error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	mgr, err := session.New(noDriver{}, session.Config{
		RootDir:       cfg.RootDir,
		Voice:         cfg.Voice,
		AudioDeviceID: cfg.AudioDeviceID,
		Latency:       latencyMode(cfg),
	}, log)
	if err != nil {
		log.Close()
		return nil, nil, nil, err
	}

	cleanup := func() {
		mgr.Close()
		log.Close()
	}
	return mgr, cfg, cleanup, nil
}
