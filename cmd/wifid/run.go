package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/wifid/internal/connect"
	"github.com/muurk/wifid/internal/credstore"
	"github.com/muurk/wifid/internal/logging"
	"github.com/muurk/wifid/internal/mgmt"
	"github.com/muurk/wifid/internal/netconfig"
	"github.com/muurk/wifid/internal/portal"
	"github.com/muurk/wifid/internal/wifierr"
)

// Run command flags
var (
	configPath     string
	logLevel       string
	mgmtAddr       string
	iface          string
	budgetSecs     int
	portalStartCmd string
	portalStopCmd  string
	noPortal       bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the daemon",
	Long: `Start wifid: try the configured network, then fall back to the
setup portal if it cannot be joined.

Connection attempts are bounded by the configured retry count and, when
--budget is given, by a wall-clock budget covering the whole sequence.
Retryable failures (association failure, timeout) trigger the portal
fallback; configuration errors do not, since the portal could not fix
them either.`,
	Example: `  # Run with the default configuration file
  wifid run

  # Run with an explicit configuration and a 60 second budget
  wifid run --config /etc/wifid/config.yaml --budget 60

  # Run without the portal fallback
  wifid run --no-portal`,
	RunE: runDaemon,
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Configuration file path (default: user config directory)")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&mgmtAddr, "mgmt-addr", "127.0.0.1:9553", "Management endpoint address (empty = disabled)")
	runCmd.Flags().StringVar(&iface, "interface", "", "Wireless interface (empty = let the platform choose)")
	runCmd.Flags().IntVar(&budgetSecs, "budget", 0, "Wall-clock budget for the connection sequence in seconds (0 = unbounded)")
	runCmd.Flags().StringVar(&portalStartCmd, "portal-start-cmd", "", "Helper command that brings the setup access point up")
	runCmd.Flags().StringVar(&portalStopCmd, "portal-stop-cmd", "", "Helper command that tears the setup access point down")
	runCmd.Flags().BoolVar(&noPortal, "no-portal", false, "Disable the setup portal fallback")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orch := connect.NewOrchestrator(connect.NewNMCLIConnector(iface), store)
	if budgetSecs > 0 {
		orch.Budget = time.Duration(budgetSecs) * time.Second
	}

	if mgmtAddr != "" {
		srv := mgmt.NewServer(store, func() string { return orch.State().String() })
		go func() {
			if err := srv.ListenAndServe(ctx, mgmtAddr); err != nil {
				logging.Error("Management endpoint failed", zap.Error(err))
			}
		}()
	}

	result := orch.Run(ctx, cfg.Network)
	if result.Err == nil {
		logging.Info("Connected",
			zap.String("ssid", cfg.Network.SSID),
			zap.Int("attempts", result.Attempts),
			zap.Duration("elapsed", result.Elapsed))
		<-ctx.Done()
		return nil
	}

	logging.Warn("Connection sequence failed",
		zap.String("ssid", cfg.Network.SSID),
		zap.Int("attempts", result.Attempts),
		zap.Error(result.Err))

	// Only retryable failures fall back to the portal; a configuration
	// error would reproduce identically after portal setup.
	if noPortal || !cfg.Features.Has(netconfig.FeaturePortal) || !wifierr.IsRetryable(result.Err) {
		return result.Err
	}

	starter := portal.NewStarter(portal.NewExecCapability(portalStartCmd, portalStopCmd))
	if err := starter.Start(ctx, cfg.Portal); err != nil {
		return fmt.Errorf("portal fallback failed: %w", err)
	}
	defer func() {
		if err := starter.Stop(); err != nil {
			logging.Warn("Portal teardown failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	return nil
}

func loadConfig() (*netconfig.Config, error) {
	if configPath != "" {
		cfg, err := netconfig.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		return cfg, nil
	}
	cfg, err := netconfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func openStore() (*credstore.Store, error) {
	path, err := netconfig.CredentialsPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate credentials file: %w", err)
	}

	store := credstore.NewStore(credstore.DefaultCapacity, credstore.NewFileStore(path))
	if err := store.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize credential store: %w", err)
	}
	return store, nil
}
