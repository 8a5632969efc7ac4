package crawler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bradykim7/pricecrawl/internal/crawler/sources"
	"github.com/bradykim7/pricecrawl/internal/models"
	"github.com/bradykim7/pricecrawl/internal/monitoring"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const productBufferSize = 100

// Crawler runs the paginated extraction pipeline for a set of seeds
type Crawler struct {
	fetcher  PageFetcher
	sink     Sink
	metrics  *monitoring.Metrics
	log      *zap.Logger
	inflight *semaphore.Weighted
}

// crawlState is owned by a single seed loop
type crawlState struct {
	location string
	page     int
}

// New creates a crawler that keeps at most maxInFlight fetches running at once
func New(fetcher PageFetcher, sink Sink, metrics *monitoring.Metrics, maxInFlight int, log *zap.Logger) *Crawler {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &Crawler{
		fetcher:  fetcher,
		sink:     sink,
		metrics:  metrics,
		log:      log.Named("crawler"),
		inflight: semaphore.NewWeighted(int64(maxInFlight)),
	}
}

// Run crawls every seed until it terminates and reports the outcome per seed.
// Seeds run concurrently and a failing seed never stops the others. Cancelling
// ctx stops each seed before its next page.
func (c *Crawler) Run(ctx context.Context, seeds []sources.Seed) models.RunReport {
	report := models.RunReport{
		StartedAt: time.Now(),
		Seeds:     make([]models.SeedReport, len(seeds)),
	}

	c.log.Info("Starting crawler run", zap.Int("seeds", len(seeds)))

	productChan := make(chan models.Product, productBufferSize)
	done := make(chan struct{})

	// Products already emitted are stored even if the run is cancelled
	go func() {
		defer close(done)
		c.consume(context.WithoutCancel(ctx), productChan)
	}()

	var wg sync.WaitGroup
	wg.Add(len(seeds))

	for i, seed := range seeds {
		go func(i int, seed sources.Seed) {
			defer wg.Done()
			report.Seeds[i] = c.crawlSeed(ctx, seed, productChan)
		}(i, seed)
	}

	wg.Wait()
	close(productChan)
	<-done

	report.Duration = time.Since(report.StartedAt)
	c.logReport(report)
	return report
}

func (c *Crawler) consume(ctx context.Context, products <-chan models.Product) {
	for product := range products {
		if err := c.sink.Save(ctx, product); err != nil {
			c.metrics.IncSinkErrors()
			c.log.Error("Failed to save product",
				zap.Error(err),
				zap.String("site", product.Site),
				zap.String("name", product.Name))
		}
	}
}

// crawlSeed runs the fetch, extract, normalize, emit, paginate loop for one seed
func (c *Crawler) crawlSeed(ctx context.Context, seed sources.Seed, out chan<- models.Product) models.SeedReport {
	startTime := time.Now()
	site := seed.Site()
	log := c.log.With(zap.String("site", site), zap.String("seed", seed.URL))

	extractor := NewExtractor(seed.Ruleset.Selectors)
	normalizer := NewPriceNormalizer(seed.Ruleset, log)
	paginator := NewPaginator(seed.Ruleset.Pagination)

	report := models.SeedReport{Site: site, Seed: seed.URL}
	finish := func(outcome models.Outcome, err error) models.SeedReport {
		report.Outcome = outcome
		if err != nil {
			report.Err = err.Error()
		}
		report.Duration = time.Since(startTime)
		c.metrics.IncSeedsFinished(site, string(outcome))
		return report
	}

	first, err := paginator.First(seed.URL)
	if err != nil {
		log.Error("Invalid seed location", zap.Error(err))
		return finish(models.OutcomeMalformedLocation, err)
	}
	state := crawlState{location: first, page: 1}

	for {
		if err := ctx.Err(); err != nil {
			log.Info("Crawl cancelled", zap.Int("page", state.page))
			return finish(models.OutcomeCancelled, err)
		}

		page, err := c.fetch(ctx, state.location)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Info("Crawl cancelled", zap.Int("page", state.page))
				return finish(models.OutcomeCancelled, err)
			}
			c.metrics.IncFetchErrors(site)
			log.Error("Failed to fetch page", zap.Error(err), zap.String("url", state.location))
			return finish(models.OutcomeFetchFailed, err)
		}
		c.metrics.IncPagesFetched(site)
		report.Pages++

		pageURL := page.URL
		if pageURL == "" {
			pageURL = state.location
		}

		raws := extractor.Extract(page.Doc)
		crawledAt := time.Now()
		for _, raw := range raws {
			price, ok := normalizer.NormalizeWithStatus(raw.Price)
			if !ok {
				c.metrics.IncPriceFallbacks(site)
			}
			out <- models.Product{
				Name:      strings.TrimSpace(raw.Name),
				Price:     price,
				Site:      site,
				Seed:      seed.URL,
				PageURL:   pageURL,
				Page:      state.page,
				RawPrice:  strings.TrimSpace(raw.Price),
				CrawledAt: crawledAt,
			}
		}
		report.Records += len(raws)
		c.metrics.AddProductsEmitted(site, len(raws))

		if len(raws) == 0 {
			log.Info("No products found on this page", zap.String("url", pageURL))
		} else {
			log.Info("Collected products from page", zap.Int("products", len(raws)), zap.String("url", pageURL))
		}

		decision, err := paginator.Next(state.location, len(raws))
		if err != nil {
			log.Error("Cannot derive next page", zap.Error(err), zap.String("url", state.location))
			return finish(models.OutcomeMalformedLocation, err)
		}
		if decision.Terminated() {
			return finish(decision.Reason, nil)
		}

		log.Debug("Advancing to next page",
			zap.Int("current_page", state.page),
			zap.Int("next_page", state.page+1))
		state = crawlState{location: decision.Next, page: state.page + 1}
	}
}

// fetch waits for an in-flight slot and then fetches url. Once started, a fetch
// is not interrupted by cancellation of ctx.
func (c *Crawler) fetch(ctx context.Context, url string) (*Page, error) {
	if err := c.inflight.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.inflight.Release(1)

	return c.fetcher.Fetch(context.WithoutCancel(ctx), url)
}

func (c *Crawler) logReport(report models.RunReport) {
	for _, s := range report.Seeds {
		fields := []zap.Field{
			zap.String("site", s.Site),
			zap.String("seed", s.Seed),
			zap.Int("pages", s.Pages),
			zap.Int("records", s.Records),
			zap.String("outcome", string(s.Outcome)),
		}
		if s.Outcome.Normal() {
			c.log.Info("Seed finished", fields...)
		} else {
			c.log.Warn("Seed terminated abnormally", append(fields, zap.String("error", s.Err))...)
		}
	}

	c.log.Info("Crawler run completed",
		zap.Int("seeds", len(report.Seeds)),
		zap.Int("failed_seeds", len(report.Failed())),
		zap.Int("records", report.TotalRecords()),
		zap.Duration("duration", report.Duration))
}

// StartScheduledRuns runs the seeds immediately and then on every interval until ctx is cancelled.
// handle receives the report of every run.
func (c *Crawler) StartScheduledRuns(ctx context.Context, seeds []sources.Seed, interval time.Duration, handle func(models.RunReport)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.log.Info("Starting scheduled crawler runs", zap.Duration("interval", interval))

	handle(c.Run(ctx, seeds))

	for {
		select {
		case <-ticker.C:
			handle(c.Run(ctx, seeds))
		case <-ctx.Done():
			c.log.Info("Stopping scheduled crawler runs")
			return
		}
	}
}
