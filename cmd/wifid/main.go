// Wifid is a wireless identity daemon for headless devices.
//
// It keeps a bounded cache of network credentials, drives connection
// attempts with bounded retries inside a wall-clock budget, and falls
// back to a setup access point with a configuration portal when no
// stored network can be joined. A WebSocket management endpoint
// exposes the credential cache to companion tooling.
//
// Usage:
//
//	wifid run [flags]
//
// See 'wifid run --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/wifid/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wifid",
	Short: "Wireless identity daemon",
	Long: `A daemon that keeps headless devices connected.

Wifid tries stored networks with bounded retries and a wall-clock
budget. When no network can be joined it brings up a setup access
point with a configuration portal and announces it over mDNS so
companion tools can find it.

Note: for credential management from the command line, use the
separate 'wifid-ctl' utility.`,
	Version: version.Version,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wifid %s (commit: %s)\n", version.Version, version.Commit)
	},
}
