package logging

import (
	"context"
	"log/slog"

	"reelpool/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRequestID carries the correlation identifier of a caller request.
	FieldRequestID = "request_id"
	FieldFolderID  = "folder_id"
	FieldVideoID   = "video_id"
	FieldSlotID    = "slot_id"
	// FieldOutcome is the per-item result of a bulk operation.
	FieldOutcome = "outcome"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRequestID, rid))
	}
	if folder, ok := services.FolderIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldFolderID, folder))
	}
	if video, ok := services.VideoIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldVideoID, video))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
