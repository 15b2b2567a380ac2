// Package services defines shared utilities consumed by the pool components
// and their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request, folder, and video identifiers for
//     logging.
//   - Structured error markers plus the Wrap helper that let callers classify
//     failures (validation, conflict, not found, external write) with
//     errors.Is instead of string matching.
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform across the core.
package services
