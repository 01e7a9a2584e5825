// Package services defines shared utilities consumed by the catalog client,
// the session gate, and the form controller.
//
// Key responsibilities:
//   - Context helpers that stamp work identifiers, form modes, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that let callers classify
//     failures (validation, not found, transport, auth) with errors.Is.
//
// Use these helpers when wiring new client code so error handling and
// observability stay uniform across the module.
package services
