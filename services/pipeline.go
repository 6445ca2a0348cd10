package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"zillow-wholesale/config"
	"zillow-wholesale/metrics"
	"zillow-wholesale/models"
	"zillow-wholesale/storage"
	"zillow-wholesale/utils"
)

// Fetcher retrieves raw listings for a search. Implementations truncate to
// params.MaxResults themselves.
type Fetcher interface {
	Fetch(ctx context.Context, params config.SearchParams) ([]models.RawListing, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, params config.SearchParams) ([]models.RawListing, error)

func (f FetcherFunc) Fetch(ctx context.Context, params config.SearchParams) ([]models.RawListing, error) {
	return f(ctx, params)
}

// SessionResult is the outcome of one search session.
type SessionResult struct {
	SessionID string
	Config    config.SearchConfig
	Params    config.SearchParams
	Listings  []*models.Listing
	Duration  time.Duration
}

// Pipeline normalises, scores and exports listings.
type Pipeline struct {
	logger     *utils.Logger
	metrics    *metrics.Registry
	normalizer *Normalizer
	scorer     *OpportunityScorer
	workers    int
}

// NewPipeline creates a Pipeline that scores on up to workers goroutines.
// reg may be nil.
func NewPipeline(logger *utils.Logger, reg *metrics.Registry, workers int) *Pipeline {
	return &Pipeline{
		logger:     logger,
		metrics:    reg,
		normalizer: NewNormalizer(logger, reg),
		scorer:     NewOpportunityScorer(),
		workers:    workers,
	}
}

// Analyze normalises and scores raw in input order. No record is dropped.
func (p *Pipeline) Analyze(raw []models.RawListing) []*models.Listing {
	out := make([]*models.Listing, len(raw))
	if len(raw) == 0 {
		return out
	}

	process := func(i int) {
		l := p.normalizer.Normalize(raw[i])
		l.Position = i
		p.scorer.Apply(l)
		out[i] = l
	}

	if p.workers <= 1 {
		for i := range raw {
			process(i)
		}
	} else {
		pool := utils.NewWorkerPool(p.workers, 0)
		p.logger.Debug("[pipeline] Scoring %d listings on %d workers", len(raw), pool.Size())
		for i := range raw {
			pool.Submit(func() { process(i) })
		}
		pool.Wait()
	}

	if p.metrics != nil {
		for _, l := range out {
			p.metrics.ListingsScored.WithLabelValues(l.RecommendedAction.Label()).Inc()
		}
	}
	p.logger.Info("[pipeline] Analysed %d listings", len(out))
	return out
}

// ResolveParams applies the optional average rent to cfg and flattens it.
// Only config.ErrInvalidConfiguration is returned.
func (p *Pipeline) ResolveParams(cfg config.SearchConfig, avgRent *float64) (config.SearchConfig, config.SearchParams, error) {
	if avgRent != nil {
		resolved, err := ResolvePriceRange(cfg, *avgRent)
		if err != nil {
			p.observePriceRange(err)
			return cfg, config.SearchParams{}, err
		}
		p.observePriceRange(nil)
		cfg = resolved
		p.logger.Info("[pipeline] Price range for $%.2f avg rent at %.1f%% ROI: $%d - $%d",
			*avgRent, cfg.TargetROI, cfg.PriceRange.Min, cfg.PriceRange.Max)
	}
	return cfg, cfg.ResolveSearchParameters(), nil
}

// RunSession resolves cfg, fetches once, analyses the results and hands the
// ordered batch to every sink. An empty fetch is a valid, empty session.
func (p *Pipeline) RunSession(ctx context.Context, cfg config.SearchConfig, avgRent *float64,
	fetcher Fetcher, sinks ...storage.ListingWriter) (*SessionResult, error) {

	start := time.Now()
	cfg, params, err := p.ResolveParams(cfg, avgRent)
	if err != nil {
		return nil, err
	}

	result := &SessionResult{
		SessionID: uuid.New().String(),
		Config:    cfg,
		Params:    params,
	}
	p.logger.Info("[pipeline] Session %s: %s search in %s, max %d results",
		result.SessionID, params.LocationType, describeLocation(params), params.MaxResults)

	raw, err := fetcher.Fetch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	if len(raw) == 0 {
		p.logger.Warn("[pipeline] Session %s: no listings found", result.SessionID)
	}

	result.Listings = p.Analyze(raw)
	for _, l := range result.Listings {
		l.SessionID = result.SessionID
	}

	var exportErr error
	if len(result.Listings) > 0 {
		var errs []error
		for _, sink := range sinks {
			if err := sink.Write(result.Listings); err != nil {
				errs = append(errs, err)
			}
		}
		if err := errors.Join(errs...); err != nil {
			exportErr = fmt.Errorf("export listings: %w", err)
		}
	}

	result.Duration = time.Since(start)
	if p.metrics != nil {
		p.metrics.SessionDuration.Observe(result.Duration.Seconds())
		p.metrics.LastSessionSize.Set(float64(len(result.Listings)))
	}
	return result, exportErr
}

func (p *Pipeline) observePriceRange(err error) {
	if p.metrics == nil {
		return
	}
	if err != nil {
		p.metrics.PriceRangeResults.WithLabelValues("invalid").Inc()
		return
	}
	p.metrics.PriceRangeResults.WithLabelValues("ok").Inc()
}

func describeLocation(p config.SearchParams) string {
	if p.LocationType == config.LocationCounty {
		return p.County + ", " + p.State
	}
	return p.ZipCode
}
