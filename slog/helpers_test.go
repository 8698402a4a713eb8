package slog_test

import (
	"bytes"
	"log/slog"
)

// debugLogger returns a text logger that records every level into buf.
func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
