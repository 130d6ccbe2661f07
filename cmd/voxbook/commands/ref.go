package commands

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var refCmd = &cobra.Command{
	Use:   "ref",
	Short: "Record or play the voice reference sample",
	Long: `Record or play the voice's reference sample.

The reference is a free-form recording stored as
<root>/recordings/<voice>/ref.wav, independent of the prompt catalog.
It is typically a short passage in the speaker's natural register, kept
next to the takes so the set ships with a timbre reference.`,
}

var refRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record the reference sample",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, cfg, cleanup, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := mgr.StartReference(); err != nil {
			return err
		}

		fmt.Printf("%s press Enter to stop\n", recDotStyle.Render("● REC"))
		done := make(chan struct{})
		go meterLoop(recDotStyle.Render("●"), mgr.CaptureLevels(), done)

		bufio.NewReader(os.Stdin).ReadString('\n')
		close(done)

		if err := mgr.StopTake(); err != nil {
			return err
		}

		fmt.Printf("Saved %s\n", mgr.Binder().ReferencePath(cfg.Voice))
		return nil
	},
}

var refPlayCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the reference sample",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, cleanup, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		completed := make(chan struct{})
		if err := mgr.PlayReference(func() { close(completed) }); err != nil {
			return err
		}

		fmt.Println("Playing reference (Ctrl-C to stop)")
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
	refCmd.AddCommand(refRecordCmd)
	refCmd.AddCommand(refPlayCmd)
	rootCmd.AddCommand(refCmd)
}
