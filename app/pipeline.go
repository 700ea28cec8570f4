// Package app wires a dataset source to the analysis engine.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hygiene-analyzer/config"
	"hygiene-analyzer/models"
	"hygiene-analyzer/scraper/fhrs"
	"hygiene-analyzer/services"
	"hygiene-analyzer/storage"
	"hygiene-analyzer/utils"
)

// RunObserver is notified of every finished run.
type RunObserver interface {
	ObserveRun(run *models.Run, elapsed time.Duration)
}

// Pipeline runs fetch -> clean -> analyze and hands back a Run.
type Pipeline struct {
	Source  fhrs.Source
	Options services.InsightOptions
	// PriorSeed seeds the simulated prior snapshot and overrides
	// Options.PriorSeed. Nil derives a seed from the clock.
	PriorSeed *uint64
	Logger    *utils.Logger
	Observer  RunObserver
	// Store is optional; when set every run summary is persisted.
	Store storage.RunStore
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewSource builds the dataset source selected by cfg.FetchMode.
func NewSource(cfg *config.Config, observer fhrs.FetchObserver, logger *utils.Logger) (fhrs.Source, error) {
	switch cfg.FetchMode {
	case "http":
		return fhrs.NewHTTPSource(cfg.DatasetURLs, fhrs.HTTPOptions{
			MaxConcurrency: cfg.MaxConcurrency,
			RateLimitMs:    cfg.RateLimitMs,
			MaxRetries:     cfg.MaxRetries,
			Timeout:        cfg.FetchTimeout,
			Observer:       observer,
		}, logger), nil
	case "browser":
		return fhrs.NewBrowserSource(cfg.DatasetURLs, fhrs.BrowserOptions{
			ChromeBin:  cfg.ChromeBin,
			MaxRetries: cfg.MaxRetries,
			Timeout:    cfg.FetchTimeout,
			Observer:   observer,
		}, logger), nil
	case "file":
		return fhrs.NewFileSource(cfg.InputFile, observer, logger), nil
	}
	return nil, fmt.Errorf("%w: unknown fetch mode %q", config.ErrInvalid, cfg.FetchMode)
}

// InsightOptionsFrom copies the ranking limits out of cfg. The seed goes
// through Pipeline.PriorSeed.
func InsightOptionsFrom(cfg *config.Config) services.InsightOptions {
	return services.InsightOptions{
		TopBusinessTypes: cfg.TopBusinessTypes,
		TopRatedLimit:    cfg.TopRatedLimit,
	}
}

// Run executes one analysis. Fetch failures never abort the run: whatever
// was loaded (possibly nothing) is analysed. The returned error is non-nil
// only when persisting the run failed; the run itself is still returned.
func (p *Pipeline) Run(ctx context.Context) (*models.Run, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	start := now()

	records, err := p.Source.Fetch(ctx)
	if err != nil {
		p.Logger.Warn("[pipeline] Fetch finished with errors, analysing %d records: %v", len(records), err)
	}
	if records == nil {
		records = []models.Establishment{}
	}

	clean := services.NewCleaner(p.Logger).Clean(records)

	opts := p.Options
	if p.PriorSeed != nil {
		opts.PriorSeed = *p.PriorSeed
	} else {
		opts.PriorSeed = uint64(start.UnixNano())
		p.Logger.Info("[pipeline] Prior snapshot seed: %d (set PRIOR_SEED to reproduce)", opts.PriorSeed)
	}

	run := &models.Run{
		ID:          uuid.NewString(),
		GeneratedAt: start,
		Sources:     p.Source.Describe(),
		Report:      services.NewInsightService(p.Logger, opts).Generate(clean),
	}
	if p.Observer != nil {
		p.Observer.ObserveRun(run, now().Sub(start))
	}

	if p.Store != nil {
		if err := p.Store.SaveRun(ctx, run); err != nil {
			return run, fmt.Errorf("pipeline: save run %s: %w", run.ID, err)
		}
		p.Logger.Info("[pipeline] Run %s stored", run.ID)
	}
	return run, nil
}
