package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record <prompt>",
	Short: "Record a take for a prompt",
	Long: `Record a take for a prompt, addressed by base name or by its
1-based position from 'voxbook prompts'.

Capture runs until Enter is pressed, showing a live input level meter.
The take is stored as 44.1 kHz mono 16-bit WAV regardless of the
device's native format, with the exact prompt text copied alongside.
Re-recording a prompt replaces the previous take.

Examples:
  voxbook --voice sam record greeting
  voxbook --voice sam record 3
  voxbook --voice sam --device 2 --latency low record 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, cfg, cleanup, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		p, err := mgr.FindPrompt(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%3d  %s\n\n", p.Index+1, p.BaseName)
		fmt.Println(promptStyle.Render(p.Text))
		fmt.Println()
		if mgr.Recorded(p) {
			fmt.Println("A take already exists; recording replaces it.")
		}

		if err := mgr.StartTake(p); err != nil {
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

		fmt.Printf("Saved %s\n", mgr.Binder().RecordingPath(p, cfg.Voice))
		return nil
	},
}

// meterLoop redraws a level bar in place until done closes.
func meterLoop(prefix string, levels <-chan float64, done <-chan struct{}) {
	for {
		select {
		case lv := <-levels:
			fmt.Printf("\r%s %s", prefix, renderLevelBar(lv))
		case <-done:
			fmt.Print("\r" + strings.Repeat(" ", 40) + "\r")
			return
		}
	}
}

func init() {
	rootCmd.AddCommand(recordCmd)
}
