package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/voxbook/voxbook/internal/audio"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio input devices",
	Long: `List audio input devices.

The ID column is the value to pass as --device or to store as
audio_device_id in the config file. IDs are platform enumeration indexes
and can shift when hardware is plugged or unplugged; the default device
is marked.

Examples:
  voxbook devices
  voxbook --device 2 record greeting`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		drv, err := audio.NewPortAudioDriver()
		if err != nil {
			return err
		}

		devices := drv.ListInputDevices()
		if len(devices) == 0 {
			fmt.Println("No input devices found; capture will use the system default.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tUID\t")
		for _, dev := range devices {
			marker := ""
			if dev.IsDefault {
				marker = "(default)"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", dev.ID, dev.Name, dev.UID, marker)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
