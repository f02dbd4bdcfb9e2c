package portal

import (
	"context"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/wifid/internal/logging"
	"github.com/muurk/wifid/internal/netconfig"
	"github.com/muurk/wifid/internal/validate"
	"github.com/muurk/wifid/internal/wifierr"
)

// ServiceType is the mDNS service announced while the portal is up, so
// companion tooling can find the access point's configuration endpoint.
const ServiceType = "_wifid-setup._tcp"

// Settings is the flat parameter set a portal capability consumes.
// It is derived from PortalConfig by EffectiveSettings and carries
// auth material only when authentication is enabled.
type Settings struct {
	SSID     string
	Password string

	IP      string
	Gateway string
	Subnet  string

	Channel int
	Hidden  bool

	AuthRealm    string
	AuthUsername string
	AuthPassword string

	Timeout time.Duration
	Port    int
}

// AuthEnabled reports whether the derived settings carry credentials.
func (s Settings) AuthEnabled() bool {
	return s.AuthUsername != ""
}

// EffectiveSettings projects a portal configuration into the settings a
// capability receives. The projection is pure and one-way. Auth fields
// are copied only when EnableAuth is set; a capability can therefore
// treat any non-empty AuthUsername as "auth on" without consulting the
// original configuration.
func EffectiveSettings(cfg netconfig.PortalConfig) Settings {
	s := Settings{
		SSID:     cfg.APSSID,
		Password: cfg.APPassword,
		IP:       cfg.APIP,
		Gateway:  cfg.APGateway,
		Subnet:   cfg.APSubnet,
		Channel:  cfg.Channel,
		Hidden:   cfg.Hidden,
		Timeout:  time.Duration(cfg.TimeoutMs) * time.Millisecond,
		Port:     cfg.Port,
	}
	if cfg.EnableAuth {
		s.AuthRealm = cfg.AuthRealm
		s.AuthUsername = cfg.AuthUsername
		s.AuthPassword = cfg.AuthPassword
	}
	return s
}

// Capability is the platform mechanism that brings up an access point
// and serves the configuration portal on it.
type Capability interface {
	// StartAP brings up the access point and portal described by
	// settings. It returns once the portal is reachable.
	StartAP(ctx context.Context, settings Settings) error

	// StopAP tears the access point down.
	StopAP() error
}

// Starter validates portal parameters and drives a Capability. On
// success it optionally announces the portal over mDNS.
type Starter struct {
	cap Capability

	// Announce controls the mDNS advertisement while the portal is up.
	Announce bool

	server *zeroconf.Server
}

// NewStarter creates a starter over cap.
func NewStarter(cap Capability) *Starter {
	return &Starter{cap: cap, Announce: true}
}

// Start validates cfg and brings the portal up. Validation failures
// return KindInvalidParameter without invoking the capability; a
// capability failure returns KindPortalStartFailed. The mDNS
// announcement is best-effort and never fails a started portal.
func (st *Starter) Start(ctx context.Context, cfg netconfig.PortalConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	settings := EffectiveSettings(cfg)
	if err := st.cap.StartAP(ctx, settings); err != nil {
		return wifierr.Wrap(wifierr.KindPortalStartFailed,
			"failed to start setup portal on SSID "+settings.SSID, err)
	}

	logging.LogPortalEvent("started", settings.SSID,
		zap.String("ip", settings.IP),
		zap.Int("channel", settings.Channel),
		zap.Int("port", settings.Port),
		zap.Bool("auth", settings.AuthEnabled()))

	if st.Announce {
		st.announce(settings)
	}
	return nil
}

// Stop tears the portal down and withdraws the mDNS announcement.
func (st *Starter) Stop() error {
	if st.server != nil {
		st.server.Shutdown()
		st.server = nil
	}
	if err := st.cap.StopAP(); err != nil {
		return wifierr.Wrap(wifierr.KindPortalStartFailed,
			"failed to stop setup portal", err)
	}
	logging.LogPortalEvent("stopped", "")
	return nil
}

func (st *Starter) announce(settings Settings) {
	txt := []string{"version=1"}
	if settings.AuthEnabled() {
		txt = append(txt, "auth=basic")
	}

	server, err := zeroconf.Register(settings.SSID, ServiceType, "local.", settings.Port, txt, nil)
	if err != nil {
		logging.Warn("Failed to announce setup portal over mDNS",
			zap.String("ssid", settings.SSID),
			zap.Error(err))
		return
	}
	st.server = server
	logging.LogPortalEvent("announced", settings.SSID,
		zap.String("service", ServiceType))
}

// ValidateAPParams checks portal access point parameters without a full
// PortalConfig, for callers assembling settings interactively.
func ValidateAPParams(ssid, password string, channel, port int) error {
	if err := validate.SSID(ssid); err != nil {
		return err
	}
	if err := validate.Password(password); err != nil {
		return err
	}
	if err := validate.Channel(channel); err != nil {
		return err
	}
	return validate.Port(port)
}
