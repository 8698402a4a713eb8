package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/catalog"
)

var (
	_ catalog.RowSink  = (*LoggingSink)(nil)
	_ catalog.PageSink = (*LoggingSink)(nil)
)

// LoggingSink wraps a RowSink and logs every appended line.
type LoggingSink struct {
	next   catalog.RowSink
	logger *slog.Logger
}

// NewLoggingSink creates a new LoggingSink.
func NewLoggingSink(next catalog.RowSink, logger *slog.Logger) *LoggingSink {
	return &LoggingSink{next: next, logger: logger}
}

// AppendRow logs the exported product variant and delegates.
func (s *LoggingSink) AppendRow(ctx context.Context, row *catalog.Row) (err error) {
	defer func() {
		s.logger.Log(ctx, levelFor(err), "export",
			"reference", row.Reference,
			"sub_reference", row.SubReference,
			"title", row.Title,
			"finish", row.Finish,
			"err", err,
		)
	}()
	return s.next.AppendRow(ctx, row)
}

// AppendError logs the error row and delegates.
func (s *LoggingSink) AppendError(ctx context.Context, message string) (err error) {
	defer func() {
		s.logger.Log(ctx, levelFor(err), "export error row",
			"message", message,
			"err", err,
		)
	}()
	return s.next.AppendError(ctx, message)
}

// BeginPage forwards page boundaries when the wrapped sink cares about them.
func (s *LoggingSink) BeginPage(ctx context.Context, page int) error {
	ps, ok := s.next.(catalog.PageSink)
	if !ok {
		return nil
	}
	err := ps.BeginPage(ctx, page)
	s.logger.Log(ctx, levelFor(err), "begin page", "page", page, "err", err)
	return err
}

// Close delegates to the wrapped sink.
func (s *LoggingSink) Close() error {
	return s.next.Close()
}
