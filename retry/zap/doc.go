// Package zap adapts zap-based logging to the retry/log abstraction.
//
// Wrap an existing *zap.Logger to feed executor logs into an application's
// logging pipeline; entries keep their structured fields and pick up
// OpenTelemetry trace correlation from the context.
package zap
