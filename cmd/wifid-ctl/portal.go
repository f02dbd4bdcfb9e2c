package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/wifid/internal/netconfig"
	"github.com/muurk/wifid/internal/portal"
)

// Portal command flags
var (
	portalConfigPath string
	portalStartCmd   string
	portalStopCmd    string
	noAnnounce       bool
)

var portalCmd = &cobra.Command{
	Use:   "portal",
	Short: "Bring up the setup portal manually",
	Long: `Start the setup access point and configuration portal in the
foreground, without waiting for a failed connection sequence.

Access point mechanics are delegated to helper commands; the portal
settings from the configuration file are passed to the start helper
through WIFID_PORTAL_* environment variables. The portal stays up
until interrupted.`,
	Example: `  # Start the portal with the default configuration
  wifid-ctl portal --start-cmd /usr/libexec/wifid/ap-up --stop-cmd /usr/libexec/wifid/ap-down

  # Use an explicit configuration file, without the mDNS announcement
  wifid-ctl portal --config ./wifid.yaml --start-cmd ./ap-up --stop-cmd ./ap-down --no-announce`,
	RunE: runPortal,
}

func init() {
	rootCmd.AddCommand(portalCmd)

	portalCmd.Flags().StringVar(&portalConfigPath, "config", "", "Configuration file path (default: user config directory)")
	portalCmd.Flags().StringVar(&portalStartCmd, "start-cmd", "", "Helper command that brings the access point up")
	portalCmd.Flags().StringVar(&portalStopCmd, "stop-cmd", "", "Helper command that tears the access point down")
	portalCmd.Flags().BoolVar(&noAnnounce, "no-announce", false, "Skip the mDNS announcement")
}

func runPortal(cmd *cobra.Command, args []string) error {
	var cfg *netconfig.Config
	var err error
	if portalConfigPath != "" {
		cfg, err = netconfig.LoadFile(portalConfigPath)
	} else {
		cfg, err = netconfig.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	starter := portal.NewStarter(portal.NewExecCapability(portalStartCmd, portalStopCmd))
	starter.Announce = !noAnnounce

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := starter.Start(ctx, cfg.Portal); err != nil {
		return err
	}

	fmt.Printf("Setup portal %q up at http://%s:%d (Ctrl-C to stop)\n",
		cfg.Portal.APSSID, cfg.Portal.APIP, cfg.Portal.Port)

	<-ctx.Done()
	fmt.Fprintln(os.Stderr, "\nStopping portal...")
	return starter.Stop()
}
