package catalog

import (
	"context"
	"errors"
	"strings"
)

// RowSink receives output rows in append-only order.
// A row is durably stored once AppendRow returns nil.
type RowSink interface {
	// AppendRow writes one product-variant row.
	AppendRow(ctx context.Context, row *Row) error

	// AppendError records a failure in place of a product row.
	AppendError(ctx context.Context, message string) error

	// Close releases the sink. Already appended rows stay persisted.
	Close() error
}

// PageSink is implemented by sinks that care about catalog page boundaries,
// e.g. to start a new output file per page.
type PageSink interface {
	BeginPage(ctx context.Context, page int) error
}

// AppendRowError lists the sinks of a MultiSink that failed to store a row.
// Every other sink stored it.
type AppendRowError struct {
	Sinks []RowSink
	Errs  []error
}

func (e *AppendRowError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e *AppendRowError) Unwrap() []error {
	return e.Errs
}

// MultiSink returns a RowSink that appends to every sink in order.
//
// A row is offered to every sink even when an earlier one fails; the failures
// are returned as an *AppendRowError. Error rows and page boundaries stop at
// the first failing sink.
func MultiSink(sinks ...RowSink) RowSink {
	return multiSink(sinks)
}

type multiSink []RowSink

func (m multiSink) AppendRow(ctx context.Context, row *Row) error {
	var failed *AppendRowError
	for _, s := range m {
		if err := s.AppendRow(ctx, row); err != nil {
			if failed == nil {
				failed = &AppendRowError{}
			}
			failed.Sinks = append(failed.Sinks, s)
			failed.Errs = append(failed.Errs, err)
		}
	}
	if failed != nil {
		return failed
	}
	return nil
}

func (m multiSink) AppendError(ctx context.Context, message string) error {
	for _, s := range m {
		if err := s.AppendError(ctx, message); err != nil {
			return err
		}
	}
	return nil
}

func (m multiSink) BeginPage(ctx context.Context, page int) error {
	for _, s := range m {
		if ps, ok := s.(PageSink); ok {
			if err := ps.BeginPage(ctx, page); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes every sink and joins their errors.
func (m multiSink) Close() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
