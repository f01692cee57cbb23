// Package services defines shared utilities consumed by the lookup client,
// the enrichment pipeline, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, row indexes, and query
//     text for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     as transient (retry, then degrade to "no match") or fatal
//     (configuration).
//   - Retry primitives (SleepWithContext, IsRetriable) shared by every
//     outbound integration.
//
// Use these helpers when wiring new integrations so operational behaviour
// (error handling, observability, retries) stays uniform across the tool.
package services
