package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <prompt>",
	Short: "Play back a prompt's recording",
	Long: `Play back a prompt's recording, addressed by base name or by its
1-based position from 'voxbook prompts'.

Playback runs to the end of the file, showing a live output level
meter. Ctrl-C stops early.

Examples:
  voxbook --voice sam play greeting
  voxbook --voice sam play 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, cleanup, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		p, err := mgr.FindPrompt(args[0])
		if err != nil {
			return err
		}

		completed := make(chan struct{})
		if err := mgr.PlayTake(p, func() { close(completed) }); err != nil {
			return err
		}

		fmt.Printf("Playing %s (Ctrl-C to stop)\n", p.BaseName)
		done := make(chan struct{})
		go meterLoop("▶", mgr.PlaybackLevels(), done)
		defer close(done)

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(interrupt)

		select {
		case <-completed:
			fmt.Println("Done.")
		case <-interrupt:
			mgr.StopPlayback()
			fmt.Println("Stopped.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}
