// Package notifications pushes catalog events to ntfy.
//
// NewService returns a no-op implementation when no topic is configured, so
// callers publish unconditionally. Each event kind can be muted in the
// [notifications] section of config.toml.
package notifications
