package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"hygiene-analyzer/models"
)

// NewWriter builds the file writer for format inside dir.
func NewWriter(dir string, format Format) (ReportWriter, error) {
	path := filepath.Join(dir, format.FileName())
	switch format {
	case FormatCSV:
		return NewCSVWriter(path), nil
	case FormatXLSX:
		return NewXLSXWriter(path), nil
	case FormatMarkdown:
		return NewMarkdownWriter(path), nil
	case FormatJSON, FormatYAML:
		return NewDocumentWriter(path, format)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ExportAll writes the run in every requested format concurrently and
// returns the written paths in request order.
func ExportAll(ctx context.Context, dir string, run *models.Run, formats []Format) ([]string, error) {
	writers := make([]ReportWriter, len(formats))
	paths := make([]string, len(formats))
	for i, f := range formats {
		w, err := NewWriter(dir, f)
		if err != nil {
			return nil, err
		}
		writers[i] = w
		paths[i] = filepath.Join(dir, f.FileName())
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, w := range writers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := w.WriteRun(run); err != nil {
				return fmt.Errorf("export %s: %w", formats[i], err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
