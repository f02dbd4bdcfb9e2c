package portal

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/wifid/internal/wifierr"
)

// startupGrace bounds how long the helper may take to report the
// portal reachable.
const startupGrace = 30 * time.Second

// ExecCapability shells out to a helper program that owns the platform
// specifics of access point mode (hostapd, dnsmasq, interface
// juggling). Settings travel as WIFID_PORTAL_* environment variables so
// the helper needs no argument parsing and secrets stay off the
// command line.
type ExecCapability struct {
	// StartCommand brings the portal up; it must exit 0 once the
	// portal is reachable.
	StartCommand string
	// StopCommand tears it down.
	StopCommand string
}

// NewExecCapability creates a capability around the given helper
// commands.
func NewExecCapability(startCmd, stopCmd string) *ExecCapability {
	return &ExecCapability{StartCommand: startCmd, StopCommand: stopCmd}
}

// StartAP runs the start helper with the settings in its environment.
func (e *ExecCapability) StartAP(ctx context.Context, settings Settings) error {
	if e.StartCommand == "" {
		return wifierr.New(wifierr.KindInvalidState, "no portal start command configured")
	}

	runCtx, cancel := context.WithTimeout(ctx, startupGrace)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.StartCommand)
	cmd.Env = append(os.Environ(), settingsEnv(settings)...)

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("portal helper failed: %s: %w",
			strings.TrimSpace(string(output)), err)
	}
	return nil
}

// StopAP runs the stop helper.
func (e *ExecCapability) StopAP() error {
	if e.StopCommand == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.StopCommand)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("portal stop helper failed: %s: %w",
			strings.TrimSpace(string(output)), err)
	}
	return nil
}

func settingsEnv(s Settings) []string {
	env := []string{
		"WIFID_PORTAL_SSID=" + s.SSID,
		"WIFID_PORTAL_PASSWORD=" + s.Password,
		"WIFID_PORTAL_IP=" + s.IP,
		"WIFID_PORTAL_GATEWAY=" + s.Gateway,
		"WIFID_PORTAL_SUBNET=" + s.Subnet,
		"WIFID_PORTAL_CHANNEL=" + strconv.Itoa(s.Channel),
		"WIFID_PORTAL_HIDDEN=" + strconv.FormatBool(s.Hidden),
		"WIFID_PORTAL_PORT=" + strconv.Itoa(s.Port),
	}
	if s.Timeout > 0 {
		env = append(env, "WIFID_PORTAL_TIMEOUT_MS="+strconv.FormatInt(s.Timeout.Milliseconds(), 10))
	}
	if s.AuthEnabled() {
		env = append(env,
			"WIFID_PORTAL_AUTH_REALM="+s.AuthRealm,
			"WIFID_PORTAL_AUTH_USERNAME="+s.AuthUsername,
			"WIFID_PORTAL_AUTH_PASSWORD="+s.AuthPassword,
		)
	}
	return env
}
