// Package logging provides the structured slog.Handler the server logs
// through: JSON lines in the shape Google Cloud's log ingestion expects,
// so severity and message land in fields Cloud Logging understands
// instead of a plain text line.
package logging

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"
)

// CloudHandler writes one JSON object per record: severity, message,
// timestamp, plus every attribute attached via slog.Attr or WithAttrs.
type CloudHandler struct {
	writer     io.Writer
	level      slog.Level
	extraAttrs map[string]any
}

// NewCloudHandler returns a handler that writes to w, dropping records
// below level.
func NewCloudHandler(w io.Writer, level slog.Level) *CloudHandler {
	return &CloudHandler{writer: w, level: level}
}

func (h *CloudHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *CloudHandler) Handle(_ context.Context, r slog.Record) error {
	entry := map[string]any{
		"severity": severityFor(r.Level),
		"message":  r.Message,
		"time":     time.Now().Format(time.RFC3339Nano),
	}
	for k, v := range h.extraAttrs {
		entry[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		entry[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.writer).Encode(entry)
}

func (h *CloudHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.extraAttrs = make(map[string]any, len(h.extraAttrs)+len(attrs))
	for k, v := range h.extraAttrs {
		next.extraAttrs[k] = v
	}
	for _, a := range attrs {
		next.extraAttrs[a.Key] = a.Value.Any()
	}
	return &next
}

// WithGroup is a no-op: group scoping would require namespacing
// extraAttrs, which nothing in this server currently needs.
func (h *CloudHandler) WithGroup(string) slog.Handler {
	return h
}

func severityFor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARNING"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
