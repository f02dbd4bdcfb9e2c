// Package logging provides structured logging for wifid.
//
// This package wraps zap with convenience functions for the logging
// patterns used throughout the daemon and CLI. Logging is silent unless
// the WIFID_LOG_LEVEL environment variable (or an explicit Initialize
// call) enables it, so CLI output stays clean by default.
//
// # Log Levels
//
//   - Debug: persistence details, management commands
//   - Info: connection attempts, portal events, evictions
//   - Warn: non-fatal issues (hostname set failure, persistence failure)
//   - Error: fatal issues (startup failures)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Connected",
//	    zap.String("ssid", "home"),
//	    zap.Int("attempts", 2),
//	)
//
// Domain-specific helpers cover the recurring events:
//
//	logging.LogConnectionAttempt(ssid, attempt, maxRetries)
//	logging.LogEviction(ssid, lastSuccessUnix)
//	logging.LogPersistence("save", count, err)
//	logging.LogPortalEvent("started", apSSID)
//
// Credential secrets are never passed to any logging function.
//
// # Configuration
//
// Initialize logging at daemon startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
