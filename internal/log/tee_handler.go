package log

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// TeeHandler duplicates log records to multiple underlying handlers.
// The spider uses it to write every line to both the console and the
// log file simultaneously.
//
// Design decision: We tee at the handler level rather than wrapping the
// writers with io.MultiWriter because the destinations may want different
// formats or levels later, and a broken log file must not silence the
// console.
type TeeHandler struct {
	handlers []slog.Handler
}

// NewTeeHandler creates a TeeHandler fanning out to the given handlers.
func NewTeeHandler(handlers ...slog.Handler) *TeeHandler {
	return &TeeHandler{handlers: handlers}
}

// Enabled reports whether any underlying handler handles the level.
func (h *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes the record to every underlying handler that accepts its
// level. All handlers are attempted even if one fails; the errors are
// joined so no destination's failure hides another's.
func (h *TeeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs returns a new TeeHandler with the attributes added to every
// underlying handler.
func (h *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &TeeHandler{handlers: handlers}
}

// WithGroup returns a new TeeHandler with the group applied to every
// underlying handler.
func (h *TeeHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &TeeHandler{handlers: handlers}
}

// NewSpiderLogger creates the spider's logger: text records carrying a
// timestamp, severity, and message, written to both console and logFile,
// with sensitive attributes masked.
//
// Parameters:
//   - console: the console destination (typically os.Stderr)
//   - logFile: the log file destination; nil disables file logging
//   - verbose: if true, sets the level to Debug; otherwise Info
//
// The level defaults to Info rather than Warn because every attempted
// request is logged at Info and belongs in the crawl log.
func NewSpiderLogger(console, logFile io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	handlers := []slog.Handler{slog.NewTextHandler(console, opts)}
	if logFile != nil {
		handlers = append(handlers, slog.NewTextHandler(logFile, opts))
	}

	return slog.New(NewSecureHandler(NewTeeHandler(handlers...)))
}
