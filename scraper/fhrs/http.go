package fhrs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hygiene-analyzer/models"
	"hygiene-analyzer/utils"
)

const userAgent = "hygiene-analyzer/1.0 (+https://ratings.food.gov.uk/open-data)"

// HTTPOptions configure an HTTPSource.
type HTTPOptions struct {
	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int
	RetryDelay     time.Duration
	Timeout        time.Duration
	Client         *http.Client
	Observer       FetchObserver
}

// HTTPSource downloads one or more dataset files and concatenates them in
// URL order.
type HTTPSource struct {
	urls           []string
	client         *http.Client
	logger         *utils.Logger
	maxConcurrency int
	rateLimitMs    int
	retry          *utils.RetryConfig
	observer       FetchObserver
}

// NewHTTPSource creates a ready-to-use HTTPSource.
func NewHTTPSource(urls []string, opts HTTPOptions, logger *utils.Logger) *HTTPSource {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	delay := opts.RetryDelay
	if delay == 0 {
		delay = 2 * time.Second
	}
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	return &HTTPSource{
		urls:           urls,
		client:         client,
		logger:         logger,
		maxConcurrency: opts.MaxConcurrency,
		rateLimitMs:    opts.RateLimitMs,
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   delay,
			Logger:      logger,
		},
		observer: observer,
	}
}

// Describe lists the dataset URLs.
func (s *HTTPSource) Describe() []string { return s.urls }

// Fetch downloads every URL. A URL that fails after retries is logged and
// contributes nothing; the returned error joins all such failures while the
// collection still holds everything that did load. Concurrent calls are
// independent: each gets its own worker pool.
func (s *HTTPSource) Fetch(ctx context.Context) ([]models.Establishment, error) {
	s.logger.Info("[fhrs] Fetching %d dataset file(s)", len(s.urls))

	pool := utils.NewWorkerPool(s.maxConcurrency, s.rateLimitMs)
	results := make([][]models.Establishment, len(s.urls))
	errs := make([]error, len(s.urls))
	requested := utils.NewURLSet()

	for i, url := range s.urls {
		if !requested.Add(url) {
			s.logger.Debug("[fhrs] Skipping duplicate URL: %s", url)
			continue
		}
		pool.Submit(ctx, func(ctx context.Context) {
			start := time.Now()
			err := s.retry.Do(ctx, "fetch "+url, func(ctx context.Context) error {
				records, err := s.fetchOne(ctx, url)
				if err != nil {
					return err
				}
				results[i] = records
				return nil
			})
			s.observer.ObserveFetch(url, time.Since(start), len(results[i]), err)
			if err != nil {
				s.logger.Error("[fhrs] Failed to fetch %s: %v", url, err)
				errs[i] = err
				return
			}
			s.logger.Info("[fhrs] %s: %d establishments", url, len(results[i]))
		})
	}
	pool.Wait()

	merged := make([]models.Establishment, 0)
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, errors.Join(errs...)
}

func (s *HTTPSource) fetchOne(ctx context.Context, url string) ([]models.Establishment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fhrs: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fhrs: get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d from %s", ErrHTTPStatus, resp.StatusCode, url)
	}
	return Decode(resp.Body)
}
