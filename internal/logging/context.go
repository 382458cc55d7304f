package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldPass names the batch pass (import, detect, reconcile, ...).
	FieldPass = "pass"
	// FieldRunID identifies one CLI invocation across all of its log lines.
	FieldRunID = "run_id"
	// FieldVideoID is the standardized key for YouTube video identifiers.
	FieldVideoID = "video_id"
	// FieldTripID is the standardized key for persisted trip identifiers.
	FieldTripID = "trip_id"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint carries the suggested next step for an operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)

type passKey struct{}

// WithPass records the active batch pass name on ctx.
func WithPass(ctx context.Context, pass string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, passKey{}, pass)
}

// PassFromContext returns the pass name stored by WithPass.
func PassFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	pass, ok := ctx.Value(passKey{}).(string)
	return pass, ok && pass != ""
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if pass, ok := PassFromContext(ctx); ok {
		return logger.With(String(FieldPass, pass))
	}
	return logger
}
