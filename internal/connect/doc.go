// Package connect drives the wireless association sequence: validate
// parameters, apply host identity and addressing, then attempt to
// associate with bounded retries inside an optional wall-clock budget.
//
// The Orchestrator owns policy (retry counts, delays, budget) and
// delegates mechanism to a Connector. Budget accounting is
// conservative: a new attempt starts only if a complete per-attempt
// timeout still fits in the budget, so the sequence never begins work
// it cannot finish. Exhausting the budget yields KindTimeout;
// exhausting retries yields KindConnectFailed wrapping the last
// attempt's error. Both are retryable kinds, and the daemon falls back
// to the setup portal on either.
//
// Successful sequences bump the credential store's recency for the
// SSID, creating the entry on first contact. Store failures after a
// successful association are logged, never surfaced; the link is up
// regardless.
//
// NMCLIConnector is the production Connector, wrapping the nmcli
// binary. Tests substitute a scripted fake with a deterministic clock.
package connect
