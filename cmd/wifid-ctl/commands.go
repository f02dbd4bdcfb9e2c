package main

import (
	"context"
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/wifid/internal/credstore"
	"github.com/muurk/wifid/internal/discovery"
	"github.com/muurk/wifid/internal/netconfig"
	"github.com/muurk/wifid/internal/picker"
	"github.com/muurk/wifid/internal/validate"
)

// Command flags
var (
	scanTimeout int
	useStatic   bool
	staticIP    string
	gateway     string
	subnet      string
	dns1        string
	dns2        string
	pickNetwork bool
	budgetSecs  int
)

func init() {
	rootCmd.AddCommand(credCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(connectCmd)

	credCmd.AddCommand(credListCmd)
	credCmd.AddCommand(credAddCmd)
	credCmd.AddCommand(credRemoveCmd)
	credCmd.AddCommand(credClearCmd)
	credCmd.AddCommand(credExportCmd)
}

// openStore builds the file-backed credential store the daemon also
// uses.
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

// credCmd groups the credential management subcommands
var credCmd = &cobra.Command{
	Use:   "cred",
	Short: "Manage stored network credentials",
	Long: `Manage the bounded credential cache shared with the wifid daemon.

The cache holds a limited number of networks; when full, adding a new
network evicts the one that connected successfully least recently.`,
}

var credListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored networks, most recently used first",
	Example: `  wifid-ctl cred list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		ssids, err := store.ListSSIDs()
		if err != nil {
			return err
		}
		if len(ssids) == 0 {
			fmt.Println("No stored networks.")
			return nil
		}

		count, err := store.Count()
		if err != nil {
			return err
		}
		fmt.Printf("Stored networks (%d/%d):\n\n", count, store.Capacity())
		for i, ssid := range ssids {
			cred, lerr := store.Lookup(ssid)
			if lerr != nil {
				continue
			}
			fmt.Printf("%d. %s\n", i+1, ssid)
			if cred.Timestamp.IsZero() {
				fmt.Println("   Last success: never")
			} else {
				fmt.Printf("   Last success: %s\n", cred.Timestamp.Format("2006-01-02 15:04:05"))
			}
			fmt.Printf("   Connections:  %d\n", cred.ConnectionCount)
			if cred.UseStatic {
				fmt.Printf("   Static IP:    %s\n", cred.StaticIP)
			}
			cred.Wipe()
			fmt.Println()
		}
		return nil
	},
}

var credAddCmd = &cobra.Command{
	Use:   "add <ssid>",
	Short: "Add or update a network credential",
	Long: `Add a network to the credential cache, prompting for the passphrase.

The passphrase is read without echo. Press Enter on an empty prompt to
store an open network.`,
	Example: `  # Add a network (prompts for passphrase)
  wifid-ctl cred add "Home Network"

  # Add with static addressing
  wifid-ctl cred add "Home Network" --static --ip 192.168.1.50 \
      --gateway 192.168.1.1 --subnet 255.255.255.0`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ssid := args[0]
		if err := validate.SSID(ssid); err != nil {
			return err
		}

		fmt.Printf("Passphrase for %q (empty for open network): ", ssid)
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read passphrase: %w", err)
		}
		password := strings.TrimSpace(string(secret))

		cred := credstore.NewCredential(ssid, password)
		if useStatic {
			cred.UseStatic = true
			cred.StaticIP = staticIP
			cred.Gateway = gateway
			cred.Subnet = subnet
			cred.DNS1 = dns1
			cred.DNS2 = dns2
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.AddOrUpdate(cred); err != nil {
			return err
		}

		count, err := store.Count()
		if err != nil {
			return err
		}
		fmt.Printf("Stored credential for %q (%d/%d networks)\n",
			ssid, count, store.Capacity())
		return nil
	},
}

func init() {
	credAddCmd.Flags().BoolVar(&useStatic, "static", false, "Use static addressing for this network")
	credAddCmd.Flags().StringVar(&staticIP, "ip", "", "Static IP address")
	credAddCmd.Flags().StringVar(&gateway, "gateway", "", "Gateway address")
	credAddCmd.Flags().StringVar(&subnet, "subnet", "255.255.255.0", "Subnet mask")
	credAddCmd.Flags().StringVar(&dns1, "dns1", "", "Primary DNS server")
	credAddCmd.Flags().StringVar(&dns2, "dns2", "", "Secondary DNS server")
}

var credRemoveCmd = &cobra.Command{
	Use:     "remove <ssid>",
	Short:   "Remove a stored network",
	Example: `  wifid-ctl cred remove "Home Network"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Remove(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed credential for %q\n", args[0])
		return nil
	},
}

var credClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored networks",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		count, err := store.Count()
		if err != nil {
			return err
		}
		if count == 0 {
			fmt.Println("No stored networks.")
			return nil
		}

		fmt.Printf("This removes all %d stored network(s). Type \"yes\" to confirm: ", count)
		var answer string
		if _, err := fmt.Scanln(&answer); err != nil || answer != "yes" {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := store.ClearAll(); err != nil {
			return err
		}
		fmt.Println("All credentials removed.")
		return nil
	},
}

var credExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a sanitized snapshot of stored networks",
	Long: `Print a JSON snapshot of stored networks to stdout.

The snapshot never contains passphrases; it carries the SSID,
addressing mode, last success timestamp and connection count per
network.`,
	Example: `  wifid-ctl cred export > networks.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		snap, err := store.ExportSnapshot()
		if err != nil {
			return err
		}
		fmt.Println(string(snap))
		return nil
	},
}

// scanCmd discovers setup portals on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for wifid setup portals on the network",
	Long: `Scan for setup portals using mDNS/DNS-SD discovery.

Unconfigured devices announce a setup portal while waiting for
credentials; this command lists every portal currently visible.`,
	Example: `  # Scan for 10 seconds (default)
  wifid-ctl scan

  # Quick 3-second scan
  wifid-ctl scan --timeout 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Scanning for setup portals (timeout: %ds)...\n\n", scanTimeout)

		portals, err := discovery.Scan(context.Background(),
			time.Duration(scanTimeout)*time.Second)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		if len(portals) == 0 {
			fmt.Println("No setup portals found.")
			fmt.Println("\nTroubleshooting:")
			fmt.Println("  - Ensure the device is powered on and unconfigured")
			fmt.Println("  - Verify your computer is connected to the device's access point")
			fmt.Println("  - Try increasing --timeout for slower networks")
			return nil
		}

		fmt.Printf("Found %d portal(s):\n\n", len(portals))
		for i, p := range portals {
			fmt.Printf("%d. %s\n", i+1, p.Name)
			fmt.Printf("   URL:  %s\n", p.BaseURL())
			if p.AuthRequired() {
				fmt.Println("   Auth: required")
			}
			if v := p.GetMetadata("version"); v != "" {
				fmt.Printf("   Version: %s\n", v)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")
}

// connectCmd runs one connection sequence in the foreground
var connectCmd = &cobra.Command{
	Use:   "connect [ssid]",
	Short: "Connect to a network using a stored credential",
	Long: `Run one connection sequence in the foreground.

With an SSID argument the stored credential for that network is used.
With --pick an interactive chooser lists stored networks, most
recently used first.`,
	Example: `  # Connect to a specific stored network
  wifid-ctl connect "Home Network"

  # Choose interactively
  wifid-ctl connect --pick

  # Bound the whole sequence to 30 seconds
  wifid-ctl connect "Home Network" --budget 30`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConnect,
}

func init() {
	connectCmd.Flags().BoolVar(&pickNetwork, "pick", false, "Choose the network interactively")
	connectCmd.Flags().IntVar(&budgetSecs, "budget", 0, "Wall-clock budget for the whole sequence in seconds (0 = unbounded)")
}

func runConnect(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	var ssid string
	switch {
	case pickNetwork:
		ssid, err = picker.Pick(store)
		if err != nil {
			return err
		}
	case len(args) == 1:
		ssid = args[0]
	default:
		return fmt.Errorf("specify an SSID or use --pick")
	}

	cred, err := store.Lookup(ssid)
	if err != nil {
		return err
	}
	defer cred.Wipe()

	result := runSequence(store, cred)
	if result.Err != nil {
		return result.Err
	}

	fmt.Printf("✓ Connected to %q (%d attempt(s), %s)\n",
		ssid, result.Attempts, result.Elapsed.Round(time.Millisecond))
	return nil
}
