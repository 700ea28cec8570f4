package fhrs

import (
	"context"
	"fmt"
	"os"
	"time"

	"hygiene-analyzer/models"
	"hygiene-analyzer/utils"
)

// FileSource reads a dataset previously saved to disk.
type FileSource struct {
	path     string
	logger   *utils.Logger
	observer FetchObserver
}

func NewFileSource(path string, observer FetchObserver, logger *utils.Logger) *FileSource {
	if observer == nil {
		observer = nopObserver{}
	}
	return &FileSource{path: path, logger: logger, observer: observer}
}

func (s *FileSource) Describe() []string { return []string{s.path} }

func (s *FileSource) Fetch(ctx context.Context) ([]models.Establishment, error) {
	start := time.Now()
	records, err := s.read(ctx)
	s.observer.ObserveFetch(s.path, time.Since(start), len(records), err)
	if err != nil {
		s.logger.Error("[fhrs] Failed to read %s: %v", s.path, err)
		return []models.Establishment{}, err
	}
	s.logger.Info("[fhrs] %s: %d establishments", s.path, len(records))
	return records, nil
}

func (s *FileSource) read(ctx context.Context) ([]models.Establishment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("fhrs: open %q: %w", s.path, err)
	}
	defer f.Close()
	return Decode(f)
}
