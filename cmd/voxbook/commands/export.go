package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/voxbook/voxbook/internal/archive"
	"github.com/voxbook/voxbook/internal/binder"
)

var exportCmd = &cobra.Command{
	Use:   "export [dest.zip]",
	Short: "Export a voice's recordings as a zip archive",
	Long: `Export a voice's recordings directory, takes and transcript
copies included, as a zip archive. The destination defaults to
<voice>.zip in the current directory.

Examples:
  voxbook --voice sam export
  voxbook --voice sam export /backups/sam-2026-08-24.zip`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Close()

		dest := cfg.Voice + ".zip"
		if len(args) == 1 {
			dest = args[0]
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		src := binder.New(cfg.RootDir).VoiceDir(cfg.Voice)
		if err := archive.New(log).Export(ctx, src, dest); err != nil {
			return err
		}

		fmt.Printf("Exported %s to %s\n", src, dest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
