// Package ui renders command execution events as concise console lines for
// operators watching a repair run, while structured telemetry continues to
// flow through the zap logger.
package ui
