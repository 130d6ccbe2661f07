package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxbook/voxbook/internal/audio"
	"github.com/voxbook/voxbook/internal/config"
	"github.com/voxbook/voxbook/internal/logger"
	"github.com/voxbook/voxbook/internal/session"
)

var (
	// Global flags
	flagConfig  string
	flagRoot    string
	flagVoice   string
	flagDevice  int
	flagLatency string
)

var rootCmd = &cobra.Command{
	Use:   "voxbook",
	Short: "Record a voice dataset from a prompt script",
	Long: `voxbook - record a voice dataset from a prompt script.

Prompts live as plain .txt files under <root>/transcripts/. Each take is
saved as 44.1 kHz mono 16-bit WAV under <root>/recordings/<voice>/,
named by the prompt's position in the sorted catalog, with the exact
prompt text copied alongside.

Configuration is stored in the OS config directory:
  macOS:   ~/Library/Application Support/voxbook/config.json
  Linux:   ~/.config/voxbook/config.json

Examples:
  voxbook --root ~/sessions devices
  voxbook --root ~/sessions --voice sam prompts
  voxbook --root ~/sessions --voice sam record greeting
  voxbook --root ~/sessions --voice sam play 3
  voxbook --root ~/sessions --voice sam export sam.zip`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "config file (default: OS config dir)")
	pf.StringVar(&flagRoot, "root", "", "session root holding transcripts/ and recordings/")
	pf.StringVar(&flagVoice, "voice", "", "voice (recording set) name")
	pf.IntVar(&flagDevice, "device", -1, "input device ID (-1 for system default)")
	pf.StringVar(&flagLatency, "latency", "", `capture latency mode: "stability" or "low"`)
}

// loadSettings loads the config file and layers the global flags on top.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	path := flagConfig
	if path == "" {
		path = config.GetConfigPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if flagRoot != "" {
		cfg.RootDir = flagRoot
	}
	if flagVoice != "" {
		cfg.Voice = flagVoice
	}
	if cmd.Flags().Changed("device") {
		cfg.AudioDeviceID = flagDevice
	}
	if flagLatency != "" {
		cfg.Latency = flagLatency
	}

	if cfg.RootDir == "" {
		return nil, fmt.Errorf("no session root configured; pass --root or set root_dir in %s", path)
	}
	root, err := config.ExpandPath(cfg.RootDir)
	if err != nil {
		return nil, err
	}
	cfg.RootDir = root

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func latencyMode(cfg *config.Config) audio.LatencyMode {
	if cfg.Latency == "low" {
		return audio.LowLatency
	}
	return audio.HighStability
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	lc := logger.DefaultConfig()
	lc.Level = logger.ParseLevel(cfg.LogLevel)
	return logger.New(lc)
}

// openSession wires config, logger, driver and session manager. The
// returned cleanup closes all of them.
func openSession(cmd *cobra.Command) (*session.Manager, *config.Config, func(), error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	drv, err := audio.NewPortAudioDriver()
	if err != nil {
		log.Close()
		return nil, nil, nil, err
	}

	mgr, err := session.New(drv, session.Config{
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
