package connect

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/wifid/internal/logging"
	"github.com/muurk/wifid/internal/wifierr"
)

// signalFloor is reported when no signal reading is available.
const signalFloor int32 = -120

// NMCLIConnector drives NetworkManager through the nmcli binary. It is
// the production Connector on Linux hosts.
type NMCLIConnector struct {
	// Path is the nmcli binary. Empty means "nmcli" on PATH.
	Path string

	// Interface pins attempts to a specific wireless interface.
	// Empty lets NetworkManager choose.
	Interface string

	lastSignal int32
	connected  bool
	attempting bool
}

// NewNMCLIConnector creates a connector using nmcli from PATH.
func NewNMCLIConnector(iface string) *NMCLIConnector {
	return &NMCLIConnector{Interface: iface, lastSignal: signalFloor}
}

func (n *NMCLIConnector) binary() string {
	if n.Path != "" {
		return n.Path
	}
	return "nmcli"
}

// Attempt associates with ssid once. nmcli itself blocks until the
// connection activates or fails; the context timeout is a backstop on
// top of nmcli's own --wait.
func (n *NMCLIConnector) Attempt(ctx context.Context, ssid, password string, timeout time.Duration) error {
	n.attempting = true
	n.connected = false
	defer func() { n.attempting = false }()

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{
		"--wait", strconv.Itoa(int(timeout.Seconds())),
		"device", "wifi", "connect", ssid,
	}
	if password != "" {
		args = append(args, "password", password)
	}
	if n.Interface != "" {
		args = append(args, "ifname", n.Interface)
	}

	cmd := exec.CommandContext(attemptCtx, n.binary(), args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded {
			return wifierr.Newf(wifierr.KindTimeout,
				"association with SSID %s did not complete within %v", ssid, timeout)
		}
		return wifierr.Wrap(wifierr.KindConnectFailed,
			"nmcli connect failed: "+strings.TrimSpace(string(output)), err)
	}

	n.connected = true
	n.lastSignal = n.readSignal(ctx, ssid)
	return nil
}

// SetHostname applies the host identity via nmcli general hostname.
func (n *NMCLIConnector) SetHostname(hostname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, n.binary(), "general", "hostname", hostname)
	if output, err := cmd.CombinedOutput(); err != nil {
		return wifierr.Wrap(wifierr.KindInvalidState,
			"failed to set hostname: "+strings.TrimSpace(string(output)), err)
	}
	return nil
}

// SetStaticIP configures manual addressing on the interface's
// connection profile. NetworkManager applies it on the next
// activation, so this must run before Attempt.
func (n *NMCLIConnector) SetStaticIP(ip, gateway, subnet, dns1, dns2 string) error {
	if n.Interface == "" {
		return wifierr.New(wifierr.KindInvalidState,
			"static addressing requires a pinned interface")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	prefix := maskToPrefix(subnet)
	dns := dns1
	if dns2 != "" {
		if dns != "" {
			dns += ","
		}
		dns += dns2
	}

	args := []string{
		"device", "modify", n.Interface,
		"ipv4.method", "manual",
		"ipv4.addresses", ip + "/" + strconv.Itoa(prefix),
		"ipv4.gateway", gateway,
	}
	if dns != "" {
		args = append(args, "ipv4.dns", dns)
	}

	cmd := exec.CommandContext(ctx, n.binary(), args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return wifierr.Wrap(wifierr.KindInvalidState,
			"failed to apply static addressing: "+strings.TrimSpace(string(output)), err)
	}
	return nil
}

// Status reports the connector's view of the link.
func (n *NMCLIConnector) Status() Status {
	if n.connected {
		return StatusConnected
	}
	if n.attempting {
		return StatusConnecting
	}
	return StatusDisconnected
}

// Signal reports the signal strength observed at the last successful
// association, or the floor when none is known.
func (n *NMCLIConnector) Signal() int32 {
	return n.lastSignal
}

// readSignal queries nmcli for the active network's signal percentage
// and maps it to an approximate dBm value. Failures fall back to the
// floor; signal strength is advisory.
func (n *NMCLIConnector) readSignal(ctx context.Context, ssid string) int32 {
	queryCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	cmd := exec.CommandContext(queryCtx, n.binary(),
		"-t", "-f", "active,ssid,signal", "device", "wifi")
	output, err := cmd.Output()
	if err != nil {
		logging.Debug("Failed to read signal strength", zap.Error(err))
		return signalFloor
	}

	for _, line := range strings.Split(string(output), "\n") {
		fields := strings.SplitN(line, ":", 3)
		if len(fields) != 3 || fields[0] != "yes" || fields[1] != ssid {
			continue
		}
		percent, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			break
		}
		return percentToDBM(percent)
	}
	return signalFloor
}

// percentToDBM maps nmcli's 0..100 signal percentage onto the
// -100..-50 dBm range NetworkManager derives it from.
func percentToDBM(percent int) int32 {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return int32(-100 + percent/2)
}

// maskToPrefix converts a dotted-quad netmask to a CIDR prefix length.
// Malformed masks fall back to /24.
func maskToPrefix(subnet string) int {
	parts := strings.Split(subnet, ".")
	if len(parts) != 4 {
		return 24
	}
	prefix := 0
	for _, p := range parts {
		octet, err := strconv.Atoi(p)
		if err != nil || octet < 0 || octet > 255 {
			return 24
		}
		for bit := 7; bit >= 0; bit-- {
			if octet&(1<<bit) == 0 {
				return prefix
			}
			prefix++
		}
	}
	return prefix
}
