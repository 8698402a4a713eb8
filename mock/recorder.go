package mock

import (
	"context"
	"sync"

	"github.com/fwojciec/catalog"
)

var (
	_ catalog.RowSink  = (*RecordingSink)(nil)
	_ catalog.PageSink = (*RecordingSink)(nil)
)

// RecordingSink is an in-memory catalog.RowSink that keeps every appended
// line in order. Error rows are stored as single-cell lines.
type RecordingSink struct {
	mu     sync.Mutex
	Lines  [][]string
	Pages  []int
	Closed bool
}

func (s *RecordingSink) AppendRow(_ context.Context, row *catalog.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lines = append(s.Lines, row.Values())
	return nil
}

func (s *RecordingSink) AppendError(_ context.Context, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lines = append(s.Lines, []string{message})
	return nil
}

func (s *RecordingSink) BeginPage(_ context.Context, page int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Pages = append(s.Pages, page)
	return nil
}

func (s *RecordingSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}
