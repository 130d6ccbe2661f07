package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <name> [text]",
	Short: "Add a prompt to the catalog",
	Long: `Add a prompt to the catalog.

The name is sanitized to filesystem-safe characters and stored as
<root>/transcripts/<name>.txt. The text is taken from the arguments, or
from stdin when omitted. The new prompt joins the end of the current
working set; its sorted position applies from the next command on.

Examples:
  voxbook add greeting "Hello, and welcome."
  cat para.txt | voxbook add paragraph_7`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args[1:], " ")
		if text == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read prompt text from stdin: %w", err)
			}
			text = string(data)
		}

		mgr, _, cleanup, err := openCatalog(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		p, err := mgr.AddPrompt(args[0], text)
		if err != nil {
			return err
		}

		fmt.Printf("Added prompt %q (%s)\n", p.BaseName, p.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
