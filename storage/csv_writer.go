package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"hygiene-analyzer/models"
)

var authorityHeader = []string{"Authority", "Average Rating", "Total Businesses", "Five-Star %"}

// CSVWriter writes the authority insights table to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu   sync.Mutex
	path string
}

// NewCSVWriter returns a writer targeting path. The file is created (or
// truncated) on each write; intermediate directories are created too.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// WriteRun writes the run's authority table.
func (c *CSVWriter) WriteRun(run *models.Run) error {
	_, err := c.ExportAuthorities(run.Report)
	return err
}

// ExportAuthorities writes the table and returns the file path.
func (c *CSVWriter) ExportAuthorities(r *models.Report) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return "", fmt.Errorf("csv: create output dir: %w", err)
	}
	f, err := os.Create(c.path)
	if err != nil {
		return "", fmt.Errorf("csv: create file %q: %w", c.path, err)
	}
	if err := WriteAuthorityCSV(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("csv: close %q: %w", c.path, err)
	}
	return c.path, nil
}

// WriteAuthorityCSV renders the authority insights as CSV. An undefined
// average is written as an empty cell.
func WriteAuthorityCSV(out io.Writer, r *models.Report) error {
	w := csv.NewWriter(out)
	if err := w.Write(authorityHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	if r != nil {
		for _, in := range r.AuthorityInsights {
			avg := ""
			if in.AverageRating.Valid() {
				avg = in.AverageRating.String()
			}
			row := []string{
				in.Authority,
				avg,
				strconv.Itoa(in.TotalBusinesses),
				strconv.FormatFloat(in.FiveStarPercentage, 'f', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("csv: write row: %w", err)
			}
		}
	}
	w.Flush()
	return w.Error()
}
