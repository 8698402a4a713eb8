// Package slog provides log/slog decorators for the catalog interfaces.
// Successful calls are logged at debug level and failures at warn level.
package slog

import "log/slog"

func levelFor(err error) slog.Level {
	if err != nil {
		return slog.LevelWarn
	}
	return slog.LevelDebug
}
