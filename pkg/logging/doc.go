// Package logging provides structured logging utilities for the installer.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// and conventions for consistent logging across commands. It supports
// environment-based log level configuration, module/version context injection,
// and automatic source location tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("nvzbx", version)
//
//	    slog.Info("merging directives", "target", path)
//	    slog.Error("restart failed", "error", err)
//	}
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("nvzbx", "v1.0.0", "warn")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug nvzbx install
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written to stderr in JSON format so that command output on
// stdout (reports, tables) stays machine-parseable:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "directive appended",
//	    "module": "nvzbx",
//	    "version": "v1.0.0",
//	    "key": "UserParameter=gpu.unknown_error"
//	}
package logging
