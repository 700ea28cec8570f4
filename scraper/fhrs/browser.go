package fhrs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"hygiene-analyzer/models"
	"hygiene-analyzer/utils"
)

// BrowserOptions configure a BrowserSource.
type BrowserOptions struct {
	ChromeBin  string
	MaxRetries int
	Timeout    time.Duration
	Observer   FetchObserver
}

// BrowserSource loads dataset files through headless Chrome. It is meant
// for networks where the open-data host rejects non-browser clients.
type BrowserSource struct {
	urls     []string
	opts     BrowserOptions
	logger   *utils.Logger
	retry    *utils.RetryConfig
	observer FetchObserver
}

// NewBrowserSource creates a ready-to-use BrowserSource.
func NewBrowserSource(urls []string, opts BrowserOptions, logger *utils.Logger) *BrowserSource {
	if opts.Timeout == 0 {
		opts.Timeout = 90 * time.Second
	}
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	return &BrowserSource{
		urls:   urls,
		opts:   opts,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		observer: observer,
	}
}

// Describe lists the dataset URLs.
func (s *BrowserSource) Describe() []string { return s.urls }

// Fetch visits each URL in turn and decodes the JSON the browser renders.
func (s *BrowserSource) Fetch(ctx context.Context) ([]models.Establishment, error) {
	chromeBin := s.opts.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	s.logger.Info("[fhrs] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	merged := make([]models.Establishment, 0)
	var errs []error
	for _, url := range s.urls {
		start := time.Now()
		records, err := s.fetchPage(browserCtx, url)
		s.observer.ObserveFetch(url, time.Since(start), len(records), err)
		if err != nil {
			s.logger.Error("[fhrs] Browser fetch of %s failed: %v", url, err)
			errs = append(errs, err)
			continue
		}
		s.logger.Info("[fhrs] %s: %d establishments", url, len(records))
		merged = append(merged, records...)
	}
	return merged, errors.Join(errs...)
}

func (s *BrowserSource) fetchPage(browserCtx context.Context, url string) ([]models.Establishment, error) {
	var records []models.Establishment

	err := s.retry.Do(browserCtx, "browser "+url, func(parent context.Context) error {
		ctx, cancel := chromedp.NewContext(parent)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, s.opts.Timeout)
		defer cancelTimeout()

		var body string
		err := chromedp.Run(ctx,
			chromedp.Navigate(url),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Evaluate(`document.body ? document.body.innerText : ''`, &body),
		)
		if err != nil {
			return fmt.Errorf("chromedp load: %w", err)
		}
		if strings.TrimSpace(body) == "" {
			return errors.New("empty page body")
		}

		decoded, err := Decode(strings.NewReader(body))
		if err != nil {
			return err
		}
		records = decoded
		return nil
	})

	return records, err
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
