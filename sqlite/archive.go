package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/fwojciec/catalog"
	"github.com/google/uuid"
)

// Row kinds stored in the rows table.
const (
	KindRow   = "row"
	KindError = "error"
)

// Compile-time interface verification.
var _ catalog.RowSink = (*Archive)(nil)

// Run is an archived crawl run.
type Run struct {
	ID         string
	Site       string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Archive is a catalog.RowSink that records every output line of a run.
type Archive struct {
	db    *DB
	runID string

	mu       sync.Mutex
	position int
}

// OpenArchive registers a run and returns an Archive appending to it.
// The run ID is normally the crawl session ID.
func OpenArchive(ctx context.Context, db *DB, runID, site string, startedAt time.Time) (*Archive, error) {
	if runID == "" {
		return nil, catalog.Errorf(catalog.EINVALID, "run ID required")
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO runs (id, site, started_at)
		VALUES (?, ?, ?)
	`, runID, site, startedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return &Archive{db: db, runID: runID}, nil
}

// RunID returns the archived run's ID.
func (a *Archive) RunID() string {
	return a.runID
}

// AppendRow stores a product-variant row.
func (a *Archive) AppendRow(ctx context.Context, row *catalog.Row) error {
	cells := row.Values()
	return a.insert(ctx, KindRow, cells, "", Fingerprint(cells))
}

// AppendError stores an error row.
func (a *Archive) AppendError(ctx context.Context, message string) error {
	return a.insert(ctx, KindError, nil, message, "")
}

// Close marks the run finished. The database stays open.
func (a *Archive) Close() error {
	_, err := a.db.ExecContext(context.Background(), `
		UPDATE runs SET finished_at = ? WHERE id = ?
	`, time.Now().UTC().Format(time.RFC3339), a.runID)
	return err
}

func (a *Archive) insert(ctx context.Context, kind string, cells []string, message, fingerprint string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	padded := make([]string, len(catalog.Columns))
	copy(padded, cells)

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO output_rows (id, run_id, position, kind, reference, sub_reference, title, price, finish, category, images, description, message, fingerprint, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), a.runID, a.position, kind,
		padded[0], padded[1], padded[2], padded[3], padded[4], padded[5], padded[6], padded[7],
		message, fingerprint, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	a.position++
	return nil
}

// FindRun retrieves a run by ID.
func (db *DB) FindRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	var startedAt, finishedAt string

	err := db.QueryRowContext(ctx, `
		SELECT id, site, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.Site, &startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.Errorf(catalog.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if finishedAt != "" {
		if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}
	}
	return &run, nil
}

// CountRows returns the number of archived lines of a run by kind.
func (db *DB) CountRows(ctx context.Context, runID string) (rowsN, errorsN int, err error) {
	err = db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0)
		FROM output_rows
		WHERE run_id = ?
	`, KindRow, KindError, runID).Scan(&rowsN, &errorsN)
	return rowsN, errorsN, err
}
