// Package main provides the voxbook CLI.
//
// Usage:
//
//	voxbook [flags] <command> [args]
//
// Commands:
//
//	devices - List audio input devices
//	prompts - List prompts with recorded status
//	add     - Add a prompt to the catalog
//	record  - Record a take for a prompt
//	play    - Play back a prompt's recording
//	ref     - Record or play the voice reference sample
//	export  - Export a voice's recordings as a zip archive
package main

import (
	"fmt"
	"os"

	"github.com/voxbook/voxbook/cmd/voxbook/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
