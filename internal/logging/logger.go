package logging

import (
	"log/slog"
	"os"
)

// New returns a slog logger configured for Cloud Logging compatibility.
func New(service string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true})
	return slog.New(handler).With(slog.String("service", service))
}
