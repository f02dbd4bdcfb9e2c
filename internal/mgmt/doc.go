// Package mgmt serves the daemon's management interface: a WebSocket
// endpoint speaking line-oriented JSON commands against the credential
// store (list, lookup, remove, clear, export, count) plus a status op
// reporting the connection state.
//
// Responses never contain password material; lookup returns a
// secret-free credential view and export reuses the store's sanitized
// snapshot. The endpoint is meant for loopback use by wifid-ctl and
// carries no authentication of its own.
package mgmt
