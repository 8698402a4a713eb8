package crawl

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Session is the state of one crawl run. It is owned by the Crawler that
// runs it; extractors never see it.
type Session struct {
	ID        string
	StartedAt time.Time

	// Page is the catalog page being crawled, or the last one once the run ends.
	Page int

	// Products counts product pages attempted, including failures.
	Products int

	// Rows counts product-variant rows written.
	Rows int

	// Failed counts products that produced an error row instead of rows.
	Failed int

	// Skipped counts variants dropped because their lookup failed.
	Skipped int

	// ErrorRows counts error rows written for failed products and failed row writes.
	ErrorRows int

	// Duplicates counts product links skipped because they were already visited.
	Duplicates int
}

// NewSession starts a session at now with a fresh run ID.
func NewSession(now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: now,
	}
}

// LogValue implements slog.LogValuer for end-of-run summaries.
func (s *Session) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", s.ID),
		slog.Int("page", s.Page),
		slog.Int("products", s.Products),
		slog.Int("rows", s.Rows),
		slog.Int("failed", s.Failed),
		slog.Int("skipped", s.Skipped),
		slog.Int("error_rows", s.ErrorRows),
		slog.Int("duplicates", s.Duplicates),
	)
}
