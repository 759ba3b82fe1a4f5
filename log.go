package lattice

import "log/slog"

// logger is the package-level logger used for the engine's log-only side
// effects: path lookup misses, asset failures during spawn, and similar
// recoverable conditions. Defaults to slog's default logger.
var logger = slog.Default()

// SetLogger replaces the package logger. Passing nil restores the default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	logger = l
}
