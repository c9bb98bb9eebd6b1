package forge

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
)

// Output file names.
const (
	CompleteFile = "dataset_complete.csv"
	PartialFile  = "dataset_partial.csv"
)

// Table is one synthesized dataset: a header of proposition names and binary
// rows in the same column order.
type Table struct {
	Columns []string
	Rows    [][]bool
}

// AppendText renders the table: every cell followed by ';', one line per row.
func (t *Table) AppendText(b []byte) []byte {
	for _, c := range t.Columns {
		b = append(b, c...)
		b = append(b, ';')
	}
	b = append(b, '\n')
	for _, row := range t.Rows {
		for _, v := range row {
			if v {
				b = append(b, '1', ';')
			} else {
				b = append(b, '0', ';')
			}
		}
		b = append(b, '\n')
	}
	return b
}

func (t *Table) String() string {
	return string(t.AppendText(nil))
}

// WriteTo writes the rendered table to w.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(t.AppendText(nil))
	return int64(n), err
}

// Dataset holds the complete table and, when propositions were hidden, the
// partial one.
type Dataset struct {
	Complete *Table
	Partial  *Table
}

// Synthesize samples nRows rows over vocab from dist. With a non-empty hidden
// set a second table over the observed propositions is sampled as well, with
// its own independent draws.
func Synthesize(vocab []string, dist Distribution, nRows int, hidden []string, rng *rand.Rand) (*Dataset, error) {
	if nRows < 0 {
		return nil, fmt.Errorf("%w: row count must not be negative, got %d", ErrInvalidParams, nRows)
	}
	if len(dist) == 0 {
		return nil, ErrNoTemplates
	}

	ds := &Dataset{Complete: sampleTable(vocab, dist, nRows, rng)}
	if len(hidden) > 0 {
		ds.Partial = sampleTable(Observed(vocab, hidden), dist, nRows, rng)
	}
	return ds, nil
}

func sampleTable(columns []string, dist Distribution, nRows int, rng *rand.Rand) *Table {
	t := &Table{Columns: columns, Rows: make([][]bool, nRows)}
	for i := range t.Rows {
		tpl := dist.Sample(rng.Float64())
		row := make([]bool, len(columns))
		for j, c := range columns {
			row[j] = tpl.Has(c)
		}
		t.Rows[i] = row
	}
	return t
}

// WriteFiles writes dataset_complete.csv and, if present, dataset_partial.csv
// into dir, replacing existing files. Each file is written to a temporary
// sibling and renamed into place, so a failure never leaves a truncated CSV.
// Without a partial table any dataset_partial.csv in dir is removed, since it
// belongs to an earlier complete table. It returns the paths written.
func (d *Dataset) WriteFiles(dir string) ([]string, error) {
	var written []string

	path := filepath.Join(dir, CompleteFile)
	if err := writeTableAtomic(path, d.Complete); err != nil {
		return written, err
	}
	written = append(written, path)

	if d.Partial != nil {
		path = filepath.Join(dir, PartialFile)
		if err := writeTableAtomic(path, d.Partial); err != nil {
			return written, err
		}
		written = append(written, path)
		return written, nil
	}

	path = filepath.Join(dir, PartialFile)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return written, fmt.Errorf("failed to remove stale %s: %w", path, err)
	}
	return written, nil
}

func writeTableAtomic(path string, t *Table) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = t.WriteTo(tmp); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
