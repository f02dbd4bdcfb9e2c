// Package wifierr defines the error taxonomy shared by all wifid
// packages.
//
// Every public operation in wifid reports failures as a *wifierr.Error
// carrying a Kind plus a descriptive message. The Kind is for program
// logic (retry decisions, CLI exit codes); the message is for humans and
// always names the offending field or value and the violated rule.
//
// # Taxonomy
//
//   - KindInvalidParameter: user-fixable input problems, never retried
//   - KindInvalidState: sequencing mistakes (store used before Initialize)
//   - KindNotFound: credential lookup misses
//   - KindConnectFailed, KindTimeout: transient connectivity failures,
//     the only kinds subject to automatic retry
//   - KindStoreFailed: best-effort persistence failures; in-memory state
//     stays authoritative
//   - KindPortalStartFailed, KindFilesystem, KindInsufficient: capability
//     and resource failures
//
// # Usage
//
//	if err := store.Remove(ssid); err != nil {
//	    if wifierr.IsNotFound(err) {
//	        fmt.Println("no such network")
//	        return nil
//	    }
//	    return err
//	}
//
// Errors wrap underlying causes with Unwrap support, so errors.Is and
// errors.As work across the chain.
package wifierr
