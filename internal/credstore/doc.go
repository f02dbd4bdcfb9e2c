// Package credstore provides a bounded, thread-safe cache of network
// credentials with least-recently-used eviction and best-effort
// persistence.
//
// # Model
//
// The store holds at most one Credential per SSID, up to a configured
// capacity. Inserting past capacity evicts the entry with the smallest
// Timestamp - the least recently *successful* credential, not the
// oldest inserted. Ties break toward the earliest inserted entry.
//
// # Lifecycle
//
// Initialize must succeed once before any other operation; it loads the
// persisted set and tolerates load failures by starting empty. All
// other operations called earlier fail with KindInvalidState.
//
// # Persistence trade-off
//
// Mutating operations persist the full set after mutating. A
// persistence failure is returned to the caller as KindStoreFailed but
// the in-memory mutation is NOT rolled back: the store favors
// availability of the in-memory view over strict durability
// consistency. Callers that require durability must check for
// KindStoreFailed and retry the mutation later.
//
// # Secrets
//
// Passphrases live in wipeable Secret buffers. The store zeroes secrets
// on removal, eviction and clearAll, and ExportSnapshot never includes
// password material. Lookup returns deep copies so concurrent mutation
// cannot tear a caller's view.
//
// # Concurrency
//
// One mutex serializes every public operation for its full duration,
// including the Save call to the persistence collaborator. The store
// tolerates concurrent callers from multiple logical contexts (the
// connection loop and the management interface). Operations must not be
// re-entered from persistence callbacks.
package credstore
