package mock

import (
	"context"

	"github.com/fwojciec/catalog"
)

var (
	_ catalog.RowSink  = (*RowSink)(nil)
	_ catalog.RowSink  = (*PageSink)(nil)
	_ catalog.PageSink = (*PageSink)(nil)
)

// RowSink is a mock implementation of catalog.RowSink.
type RowSink struct {
	AppendRowFn   func(ctx context.Context, row *catalog.Row) error
	AppendErrorFn func(ctx context.Context, message string) error
	CloseFn       func() error
}

func (s *RowSink) AppendRow(ctx context.Context, row *catalog.Row) error {
	return s.AppendRowFn(ctx, row)
}

func (s *RowSink) AppendError(ctx context.Context, message string) error {
	return s.AppendErrorFn(ctx, message)
}

func (s *RowSink) Close() error {
	return s.CloseFn()
}

// PageSink is a mock RowSink that also implements catalog.PageSink.
type PageSink struct {
	RowSink
	BeginPageFn func(ctx context.Context, page int) error
}

func (s *PageSink) BeginPage(ctx context.Context, page int) error {
	return s.BeginPageFn(ctx, page)
}
