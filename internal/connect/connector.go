package connect

import (
	"context"
	"time"
)

// Status describes the connector's view of the link.
type Status int

const (
	// StatusDisconnected means no association with any network.
	StatusDisconnected Status = iota
	// StatusConnecting means an association attempt is in flight.
	StatusConnecting
	// StatusConnected means the link is up with an address assigned.
	StatusConnected
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Connector abstracts the platform's wireless control surface. The
// orchestrator drives it; implementations wrap nmcli, wpa_supplicant,
// or a test double.
type Connector interface {
	// Attempt tries to associate with ssid once, waiting at most
	// timeout for the link to come up. A nil return means connected.
	Attempt(ctx context.Context, ssid, password string, timeout time.Duration) error

	// SetHostname applies the host identity before connecting.
	SetHostname(hostname string) error

	// SetStaticIP applies static addressing before connecting.
	// Empty dns values mean none.
	SetStaticIP(ip, gateway, subnet, dns1, dns2 string) error

	// Status reports the current link state.
	Status() Status

	// Signal reports the last observed signal strength in dBm, or a
	// floor value when unknown.
	Signal() int32
}
