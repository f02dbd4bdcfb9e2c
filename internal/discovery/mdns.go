package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/muurk/wifid/internal/portal"
)

const (
	// ServiceDomain is the mDNS domain portals announce in.
	ServiceDomain = "local."

	// DefaultScanTimeout bounds a browse when the caller gives none.
	DefaultScanTimeout = 10 * time.Second

	// DefaultPort is assumed when an entry carries no port.
	DefaultPort = 80
)

// Scanner browses the local network for wifid setup portals.
type Scanner struct {
	// Timeout is the maximum time to wait for responses.
	Timeout time.Duration
}

// NewScanner creates a scanner with the default timeout.
func NewScanner() *Scanner {
	return &Scanner{Timeout: DefaultScanTimeout}
}

// Scan discovers all setup portals currently announcing.
func (s *Scanner) Scan(ctx context.Context) ([]*Portal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	portals := make([]*Portal, 0)
	done := make(chan struct{})

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		defer close(done)
		for entry := range entries {
			if p := parseServiceEntry(entry); p != nil {
				portals = append(portals, p)
			}
		}
	}()

	if err := resolver.Browse(ctx, portal.ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for setup portals: %w", err)
	}

	<-ctx.Done()
	<-done

	return portals, nil
}

// WaitFor blocks until a portal with the given instance name announces,
// or the scanner's timeout expires.
func (s *Scanner) WaitFor(ctx context.Context, name string) (*Portal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Portal, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			if p := parseServiceEntry(entry); p != nil && p.Name == name {
				found <- p
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, portal.ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for setup portals: %w", err)
	}

	select {
	case p := <-found:
		return p, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("setup portal %q not found within %v", name, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf entry to a Portal, or nil when
// the entry carries no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Portal {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := make(map[string]string, len(entry.Text))
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Portal{
		Name:         entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Scan is a convenience wrapper with an explicit timeout.
func Scan(ctx context.Context, timeout time.Duration) ([]*Portal, error) {
	s := NewScanner()
	s.Timeout = timeout
	return s.Scan(ctx)
}
