package logging

import (
	"io"
	"log/slog"
)

// Setup installs a JSON slog logger as the process default and returns it.
// Records written through the standard log package end up here as well.
func Setup(w io.Writer, level slog.Level, service string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With(slog.String("service", service))
	slog.SetDefault(logger)
	return logger
}
