// Package netconfig defines wifid's validated configuration objects.
//
// Each section (network, portal, memory, security, debug) is a flat
// value object owning its own Validate contract; Config composes them
// together with the enabled feature set. Cross-field rules - for
// example, "file-based logging requires the filesystem feature" - are
// checked only at aggregate validation time, never by individual
// sections.
//
// # Features
//
// Optional functionality is modeled as an explicit enumerated set
// (FeatureSet) rather than a bitmask or type hierarchy. Configuration
// files list features by name and unknown names are rejected at parse
// time.
//
// # Projection
//
// The connection orchestrator does not read Config directly. The
// ConnectionParams projection flattens the network section into the
// parameter set a connection sequence needs; the projection is one-way
// and pure, with no back-reference from parameters to configuration.
//
// # Storage
//
// The aggregate configuration persists as YAML under the OS config
// directory (XDG conventions on Linux), written atomically with 0600
// permissions.
package netconfig
