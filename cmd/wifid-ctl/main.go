// Wifid-ctl is the companion tool for the wifid daemon.
//
// It manages the stored network credentials, scans for setup portals
// announced by unconfigured devices, and drives one-off connection
// attempts. Credential data is shared with the daemon through the
// credentials file under the user configuration directory.
//
// Usage:
//
//	wifid-ctl [command] [flags]
//
// See 'wifid-ctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/wifid/internal/logging"
	"github.com/muurk/wifid/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wifid-ctl",
	Short: "Wireless identity manager companion tool",
	Long: `Companion tool for the wifid daemon.

Manages stored network credentials, scans for setup portals on the
local network, and drives one-off connection attempts.`,
	Version: version.Version,
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
		fmt.Printf("wifid-ctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
