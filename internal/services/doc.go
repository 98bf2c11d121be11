// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp talk identifiers, room names, and run
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent ledger statuses (failed vs review).
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
