package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hygiene-analyzer/models"
)

// ErrUnknownFormat is returned for export formats no writer handles.
var ErrUnknownFormat = errors.New("unknown export format")

// Format names one export file type.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatXLSX     Format = "xlsx"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// AllFormats lists every supported export format.
var AllFormats = []Format{FormatCSV, FormatXLSX, FormatMarkdown, FormatJSON, FormatYAML}

// ReportWriter is the interface any file export backend must satisfy.
type ReportWriter interface {
	WriteRun(run *models.Run) error
}

// RunStore is the interface for persisting finished run summaries.
type RunStore interface {
	SaveRun(ctx context.Context, run *models.Run) error
	Close() error
}

// ParseFormats turns a comma list such as "csv,md" into formats.
// "all" selects every format; duplicates are dropped.
func ParseFormats(list string) ([]Format, error) {
	var formats []Format
	seen := make(map[Format]bool)
	for _, part := range strings.Split(list, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		switch name {
		case "":
			continue
		case "all":
			return append([]Format(nil), AllFormats...), nil
		case "markdown":
			name = string(FormatMarkdown)
		case "yml":
			name = string(FormatYAML)
		case "excel":
			name = string(FormatXLSX)
		}
		f := Format(name)
		if !f.valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, part)
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

func (f Format) valid() bool {
	for _, known := range AllFormats {
		if f == known {
			return true
		}
	}
	return false
}

// FileName is the default output file for the format.
func (f Format) FileName() string {
	switch f {
	case FormatCSV:
		return "authority_insights.csv"
	case FormatXLSX:
		return "hygiene_report.xlsx"
	case FormatMarkdown:
		return "hygiene_report.md"
	case FormatJSON:
		return "hygiene_report.json"
	case FormatYAML:
		return "hygiene_report.yaml"
	}
	return ""
}
