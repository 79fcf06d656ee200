package logging

import (
	"log/slog"
	"os"
)

// Setup installs the global slog logger: JSON to stdout plus any extra
// sinks (the Postgres error sink once the database is up). Development
// builds also log at debug level.
func Setup(appEnv string, extra ...slog.Handler) {
	level := slog.LevelInfo
	if appEnv == "development" {
		level = slog.LevelDebug
	}
	handlers := append([]slog.Handler{
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
	}, extra...)
	slog.SetDefault(slog.New(NewMultiHandler(handlers...)))
}
