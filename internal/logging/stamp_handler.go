package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldSessionID is the structured logging key for the sign-in session identifier.
	FieldSessionID = "session_id"
	// FieldLanguage is the structured logging key for the active message language.
	FieldLanguage = "lang"
)

// stampHandler adds a fixed set of attributes to every record it handles.
type stampHandler struct {
	base  slog.Handler
	stamp []slog.Attr
}

func newStampHandler(base slog.Handler, stamp ...slog.Attr) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	if len(stamp) == 0 {
		return base
	}
	return &stampHandler{base: base, stamp: stamp}
}

func (h *stampHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *stampHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(h.stamp...)
	return h.base.Handle(ctx, record)
}

func (h *stampHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &stampHandler{base: h.base.WithAttrs(attrs), stamp: h.stamp}
}

func (h *stampHandler) WithGroup(name string) slog.Handler {
	return &stampHandler{base: h.base.WithGroup(name), stamp: h.stamp}
}

// sessionStamp builds the attributes stamped on every record of a CLI run.
func sessionStamp(sessionID, language string) []slog.Attr {
	var attrs []slog.Attr
	if sessionID != "" {
		attrs = append(attrs, slog.String(FieldSessionID, sessionID))
	}
	if language != "" {
		attrs = append(attrs, slog.String(FieldLanguage, language))
	}
	return attrs
}
