// Package excelize writes output rows to .xlsx spreadsheets.
package excelize

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/fwojciec/catalog"
	"github.com/fwojciec/catalog/fs"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet every row is written to.
const DefaultSheet = "Sheet1"

var (
	_ catalog.RowSink  = (*Workbook)(nil)
	_ catalog.PageSink = (*Workbook)(nil)
)

// Workbook is a catalog.RowSink writing header-less rows to an .xlsx file.
//
// The file is rewritten after every append, so every row is on disk before
// the next product is attempted. The file is created on the first append.
type Workbook struct {
	mu        sync.Mutex
	dir       string
	startedAt time.Time
	split     bool
	sheet     string

	page int
	path string
	file *excelize.File
	row  int
}

// Option configures a Workbook.
type Option func(*Workbook)

// WithSplitPages starts a new file for every catalog page.
func WithSplitPages(split bool) Option {
	return func(w *Workbook) {
		w.split = split
	}
}

// WithSheet sets the worksheet name.
func WithSheet(name string) Option {
	return func(w *Workbook) {
		w.sheet = name
	}
}

// NewWorkbook creates a Workbook writing to dir. File names carry startedAt.
func NewWorkbook(dir string, startedAt time.Time, opts ...Option) *Workbook {
	w := &Workbook{
		dir:       dir,
		startedAt: startedAt,
		sheet:     DefaultSheet,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the file currently written to, or "" before the first append.
func (w *Workbook) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// BeginPage switches to a new file when splitting by page.
func (w *Workbook) BeginPage(_ context.Context, page int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.split || (w.file != nil && page == w.page) {
		w.page = page
		return nil
	}
	err := w.closeFile()
	w.page = page
	return err
}

// AppendRow writes the row's cells on the next line and saves the file.
func (w *Workbook) AppendRow(_ context.Context, row *catalog.Row) error {
	return w.appendLine(row.Values())
}

// AppendError writes message alone on the next line and saves the file.
func (w *Workbook) AppendError(_ context.Context, message string) error {
	return w.appendLine([]string{message})
}

// Close releases the open workbook. Saved rows stay on disk.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeFile()
}

func (w *Workbook) appendLine(values []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.open(); err != nil {
		return err
	}

	cell, err := excelize.CoordinatesToCellName(1, w.row+1)
	if err != nil {
		return catalog.Errorf(catalog.EINTERNAL, "cell name: %v", err)
	}
	if err := w.file.SetSheetRow(w.sheet, cell, &values); err != nil {
		return catalog.Errorf(catalog.EINTERNAL, "write %s!%s: %v", w.sheet, cell, err)
	}
	w.row++

	return fs.WriteFileAtomic(w.path, func(out io.Writer) error {
		return w.file.Write(out)
	})
}

func (w *Workbook) open() error {
	if w.file != nil {
		return nil
	}

	f := excelize.NewFile()
	if w.sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, w.sheet); err != nil {
			_ = f.Close()
			return catalog.Errorf(catalog.EINVALID, "invalid sheet name %q: %v", w.sheet, err)
		}
	}
	w.file = f
	w.path = fs.OutputPath(w.dir, w.startedAt, w.page, w.split)
	w.row = 0
	return nil
}

func (w *Workbook) closeFile() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	if err != nil {
		return catalog.Errorf(catalog.EINTERNAL, "close workbook: %v", err)
	}
	return nil
}
