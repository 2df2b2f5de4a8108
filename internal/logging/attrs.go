package logging

import (
	"log/slog"
	"time"
)

// Field names shared across components so log lines stay greppable.
const (
	FieldEventType = "event_type"
	FieldContentID = "content_id"
	FieldStage     = "stage"
	FieldProvider  = "provider"
	FieldRequestID = "request_id"
)

// String builds a string attribute.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Int builds an int attribute.
func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

// Duration builds a duration attribute.
func Duration(key string, value time.Duration) slog.Attr {
	return slog.Duration(key, value)
}

// Error builds the conventional error attribute, tolerating nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}
