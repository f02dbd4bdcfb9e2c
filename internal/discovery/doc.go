// Package discovery finds wifid setup portals on the local network.
//
// Portals announce a _wifid-setup._tcp service over mDNS while they
// are up. The Scanner browses for those announcements and returns
// Portal records with the address, port and TXT metadata needed to
// reach the configuration endpoint. Companion tooling uses Scan to
// enumerate portals and WaitFor to block until a specific portal
// appears after a device reset.
package discovery
