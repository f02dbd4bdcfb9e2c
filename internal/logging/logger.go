package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "WIFID_LOG_LEVEL"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks WIFID_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		// Unknown level - use info as default when explicitly set to something
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// InitializeFromEnv initializes the logger from the WIFID_LOG_LEVEL
// environment variable. This is the recommended way to initialize logging
// for CLI commands that want silent mode by default.
func InitializeFromEnv() error {
	return Initialize("")
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogConnectionAttempt logs one association attempt of a connection
// sequence
func LogConnectionAttempt(ssid string, attempt, maxRetries int) {
	Info("Connection attempt",
		zap.String("ssid", ssid),
		zap.Int("attempt", attempt),
		zap.Int("max_retries", maxRetries),
	)
}

// LogConnectionResult logs the outcome of a connection sequence
func LogConnectionResult(ssid string, attempts int, err error) {
	if err != nil {
		Warn("Connection sequence failed",
			zap.String("ssid", ssid),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		return
	}
	Info("Connected",
		zap.String("ssid", ssid),
		zap.Int("attempts", attempts),
	)
}

// LogEviction logs removal of the least-recently-successful credential
func LogEviction(ssid string, storedAt int64) {
	Info("Evicted oldest credential",
		zap.String("ssid", ssid),
		zap.Int64("last_success_unix", storedAt),
	)
}

// LogPersistence logs a credential persistence event. Persistence is
// best-effort; failures are surfaced here and to the caller, but the
// in-memory store stays authoritative.
func LogPersistence(op string, count int, err error) {
	if err != nil {
		Warn("Credential persistence failed",
			zap.String("op", op),
			zap.Int("count", count),
			zap.Error(err),
		)
		return
	}
	Debug("Credentials persisted",
		zap.String("op", op),
		zap.Int("count", count),
	)
}

// LogPortalEvent logs an access-point/portal lifecycle event
func LogPortalEvent(event string, apSSID string, fields ...zap.Field) {
	all := append([]zap.Field{
		zap.String("event", event),
		zap.String("ap_ssid", apSSID),
	}, fields...)
	Info("Portal event", all...)
}

// LogManagement logs a management interface command
func LogManagement(remoteAddr, op string, err error) {
	if err != nil {
		Warn("Management command failed",
			zap.String("remote_addr", remoteAddr),
			zap.String("op", op),
			zap.Error(err),
		)
		return
	}
	Debug("Management command",
		zap.String("remote_addr", remoteAddr),
		zap.String("op", op),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
