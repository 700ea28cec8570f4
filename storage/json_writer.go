package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"hygiene-analyzer/models"
)

// DocumentWriter serialises the whole run as JSON or YAML.
type DocumentWriter struct {
	path   string
	format Format
}

// NewDocumentWriter accepts FormatJSON or FormatYAML.
func NewDocumentWriter(path string, format Format) (*DocumentWriter, error) {
	if format != FormatJSON && format != FormatYAML {
		return nil, fmt.Errorf("%w: %q is not a document format", ErrUnknownFormat, format)
	}
	return &DocumentWriter{path: path, format: format}, nil
}

func (d *DocumentWriter) WriteRun(run *models.Run) error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return fmt.Errorf("%s: create output dir: %w", d.format, err)
	}
	f, err := os.Create(d.path)
	if err != nil {
		return fmt.Errorf("%s: create file %q: %w", d.format, d.path, err)
	}
	if err := Encode(f, d.format, run); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Encode writes v to out in the given document format.
func Encode(out io.Writer, format Format, v interface{}) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("json: encode: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("yaml: encode: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
