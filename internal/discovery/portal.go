package discovery

import (
	"fmt"
	"time"
)

// Portal represents a discovered wifid setup portal on the network.
type Portal struct {
	// Name is the mDNS instance name, normally the portal's AP SSID.
	Name string

	// Hostname is the mDNS hostname of the advertising host.
	Hostname string

	// IP is the portal address (IPv4 preferred).
	IP string

	// Port is the portal's HTTP port.
	Port int

	// Metadata holds the TXT record data. Known keys: "version",
	// "auth".
	Metadata map[string]string

	// DiscoveredAt is when the portal was seen.
	DiscoveredAt time.Time
}

// String returns a human-readable description of the portal.
func (p *Portal) String() string {
	return fmt.Sprintf("Setup portal %q at %s:%d", p.Name, p.IP, p.Port)
}

// BaseURL returns the portal's HTTP base URL.
func (p *Portal) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", p.IP, p.Port)
}

// AuthRequired reports whether the portal advertises authentication.
func (p *Portal) AuthRequired() bool {
	return p.GetMetadata("auth") != ""
}

// GetMetadata retrieves a TXT value by key, or empty string.
func (p *Portal) GetMetadata(key string) string {
	if p.Metadata == nil {
		return ""
	}
	return p.Metadata[key]
}
