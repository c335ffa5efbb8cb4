// Package logging provides the shared zap logger for kasalink.
//
// Logging is silent by default so CLI output stays clean; set the
// KASALINK_LOG_LEVEL environment variable to "debug", "info", "warn", or
// "error" to enable console logging. Debug level includes hex dumps of
// raw frames, which is the main tool for diagnosing protocol issues
// against real devices.
package logging
