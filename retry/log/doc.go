// Package log defines the logging interface and typed fields used across
// lib-retry.
//
// The executor only talks to this interface; adapters (such as the zap
// package) plug concrete backends in, and log.NewNop keeps the library
// silent when no logger is configured.
package log
