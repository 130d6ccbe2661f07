package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voxbook/voxbook/internal/config"
	"github.com/voxbook/voxbook/internal/session"
	"github.com/voxbook/voxbook/internal/watch"
)

var flagWatch bool

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List prompts with recorded status",
	Long: `List the prompt catalog in sorted order.

Each line shows the prompt's 1-based position, its recorded marker and
the first words of its text. The position is what the record and play
commands accept in place of the prompt name.

With --watch, the listing stays on screen and refreshes whenever the
voice's recordings directory changes, including changes made outside
voxbook. Ctrl-C exits.

Examples:
  voxbook --root ~/sessions --voice sam prompts
  voxbook --root ~/sessions --voice sam prompts --watch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, cfg, cleanup, err := openCatalog(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		printPrompts(mgr, cfg)
		if !flagWatch {
			return nil
		}

		w := watch.New(mgr.Binder().VoiceDir(cfg.Voice), func() {
			mgr.Refresh()
			fmt.Print("\033[H\033[2J")
			printPrompts(mgr, cfg)
		}, mgr.Logger())
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(interrupt)
		<-interrupt
		return nil
	},
}

func printPrompts(mgr *session.Manager, cfg *config.Config) {
	prompts := mgr.Prompts()
	if len(prompts) == 0 {
		fmt.Printf("No prompts found; add .txt files under %s/transcripts/ or run 'voxbook add'.\n", cfg.RootDir)
		return
	}

	recorded := 0
	for _, p := range prompts {
		marker := pendingStyle.Render("·")
		if mgr.Recorded(p) {
			marker = recordedStyle.Render("✓")
			recorded++
		}
		fmt.Printf("%3d %s %-24s %s\n", p.Index+1, marker, p.BaseName, excerpt(p.Text, 48))
	}
	fmt.Printf("\n%d/%d recorded (voice %q)\n", recorded, len(prompts), cfg.Voice)
}

func excerpt(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= max {
		return text
	}
	return text[:max-1] + "…"
}

func init() {
	promptsCmd.Flags().BoolVar(&flagWatch, "watch", false, "keep running and refresh on recording changes")
	rootCmd.AddCommand(promptsCmd)
}
