package logging

import (
	"context"
	"log/slog"

	"scribe/internal/services"
)

// WithContext returns a logger annotated with correlation attributes found
// in ctx (content id, stage, request id).
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if ctx == nil {
		return logger
	}
	if id, ok := services.ContentIDFromContext(ctx); ok {
		logger = logger.With(String(FieldContentID, id))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		logger = logger.With(String(FieldStage, stage))
	}
	if requestID, ok := services.RequestIDFromContext(ctx); ok {
		logger = logger.With(String(FieldRequestID, requestID))
	}
	return logger
}

// WithStage annotates ctx with the stage name for downstream loggers.
func WithStage(ctx context.Context, stage string) context.Context {
	return services.WithStage(ctx, stage)
}
