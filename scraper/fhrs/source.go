// Package fhrs retrieves establishment collections from the Food Hygiene
// Rating Scheme open-data files, over plain HTTP, through a headless
// browser, or from a local file.
package fhrs

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"hygiene-analyzer/models"
)

// ErrHTTPStatus is returned when the dataset server answers with a non-200 status.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// Source yields the full establishment collection. Implementations return
// whatever they managed to load together with any error; callers treat a
// failed source as an empty collection.
type Source interface {
	Fetch(ctx context.Context) ([]models.Establishment, error)
	Describe() []string
}

// FetchObserver is told about every dataset download attempt outcome.
type FetchObserver interface {
	ObserveFetch(source string, elapsed time.Duration, records int, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveFetch(string, time.Duration, int, error) {}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode parses an FHRS open-data JSON document. A leading UTF-8 byte
// order mark is tolerated. A document without the expected envelope
// decodes to an empty collection.
func Decode(r io.Reader) ([]models.Establishment, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	var ds models.Dataset
	if err := json.NewDecoder(br).Decode(&ds); err != nil {
		return nil, fmt.Errorf("fhrs: decode dataset: %w", err)
	}
	return ds.Establishments(), nil
}
