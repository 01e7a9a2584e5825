package services

import "context"

type contextKey string

const (
	workIDKey    contextKey = "work_id"
	formModeKey  contextKey = "form_mode"
	requestIDKey contextKey = "request_id"
)

// WithWorkID annotates context with the catalog work identifier.
func WithWorkID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, workIDKey, id)
}

// WorkIDFromContext extracts the catalog work identifier if present.
func WorkIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(workIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithFormMode annotates context with the form mode (create/edit).
func WithFormMode(ctx context.Context, mode string) context.Context {
	if mode == "" {
		return ctx
	}
	return context.WithValue(ctx, formModeKey, mode)
}

// FormModeFromContext returns the form mode if present.
func FormModeFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(formModeKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
