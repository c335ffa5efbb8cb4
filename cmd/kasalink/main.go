// Kasalink is a command line client for TP-Link Kasa smart plugs and
// bulbs.
//
// It discovers devices on the local network, queries their state, and
// drives them: power switching, brightness, energy readings, reboots,
// and alias changes. Devices can be saved under nicknames so later
// commands can refer to them by name instead of IP address.
//
// Usage:
//
//	kasalink [command] [flags]
//
// Running without arguments launches the interactive device browser.
// See 'kasalink --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kasalink/kasalink/internal/logging"
	"github.com/kasalink/kasalink/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kasalink",
	Short: "TP-Link Kasa smart device client",
	Long: `A command line client for TP-Link Kasa smart plugs and bulbs.

Discovers devices on the local network and controls them: power
switching, brightness, energy readings, reboots, and alias changes.
Devices can be remembered under nicknames for later commands.

If no command is specified, the interactive device browser launches.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeFromEnv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch the browser when no subcommand given
		return runBrowse(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kasalink %s\n", version.Full())
	},
}
