// Package validate provides pure syntax and range checks for wireless
// network parameters.
//
// All functions are side-effect-free predicates over already-decoded
// values. A failing check returns a *wifierr.Error with
// KindInvalidParameter and a message naming the offending value and the
// violated rule, so callers can surface the reason rather than a bare
// code.
package validate
