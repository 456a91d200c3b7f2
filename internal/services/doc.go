// Package services defines shared utilities consumed by the runner and the
// vendor integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, job keys, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures as
//     configuration, vendor, or filesystem problems.
//
// Use these helpers when wiring new provider or runner logic so operational
// behaviour (error handling, observability) stays uniform.
package services
