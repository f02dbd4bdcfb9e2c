// Package portal brings up the fallback setup access point when no
// stored network can be joined.
//
// The Starter validates the portal configuration, projects it into the
// flat Settings a Capability consumes, and drives the capability. Auth
// material crosses the projection boundary only when authentication is
// enabled, so capabilities never see credentials that should not be in
// effect. While the portal is up the starter announces a
// _wifid-setup._tcp service over mDNS so companion tools can find the
// configuration endpoint; the announcement is best-effort.
//
// ExecCapability is the production capability, delegating access point
// mechanics to helper programs with settings passed through the
// environment.
package portal
