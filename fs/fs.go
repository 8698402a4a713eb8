// Package fs names output files and writes them atomically.
package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/catalog"
)

// TimestampLayout formats the run start time in output file names.
const TimestampLayout = "2006-01-02_15-04-05"

// OutputPath returns the spreadsheet path for a run started at startedAt:
// dir/products_<ts>.xlsx, or dir/products_<ts>_<page>.xlsx when split by page.
func OutputPath(dir string, startedAt time.Time, page int, split bool) string {
	name := "products_" + startedAt.Format(TimestampLayout)
	if split {
		name += fmt.Sprintf("_%d", page)
	}
	return filepath.Join(dir, name+".xlsx")
}

// WriteFileAtomic writes the output of write to path through a temporary file
// in the same directory, then renames it over path. Readers never observe a
// partially written file.
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return catalog.Errorf(catalog.EINTERNAL, "create output directory: %v", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return catalog.Errorf(catalog.EINTERNAL, "create temp file: %v", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return catalog.Errorf(catalog.EINTERNAL, "sync %s: %v", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return catalog.Errorf(catalog.EINTERNAL, "close %s: %v", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return catalog.Errorf(catalog.EINTERNAL, "chmod %s: %v", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return catalog.Errorf(catalog.EINTERNAL, "rename %s: %v", path, err)
	}
	return nil
}
