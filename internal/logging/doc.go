// Package logging assembles structured slog loggers and formatting helpers used
// across filmdesk.
//
// It owns the console/JSON handlers, centralizes level and output plumbing, and
// exposes context-aware helpers so the form controller and catalog client tag
// log lines with work identifiers, form modes, and correlation IDs. Every
// record carries the gate session id and message language when known, and
// daily log files are pruned by the date in their name. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
