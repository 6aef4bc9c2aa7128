package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"CryptoPulse/internal/domain/models"
	drepo "CryptoPulse/internal/domain/repository"
	domsvc "CryptoPulse/internal/domain/service"
	"CryptoPulse/internal/services/synthesis"
	pkgcache "CryptoPulse/pkg/cache"
	xlogger "CryptoPulse/pkg/logger"
)

const cacheKeyPulse = "pulse:latest"

// PulseAggregator runs one full aggregation cycle: adapter fan-out,
// per-item sentiment, entity normalization, news curation, and cross-source
// synthesis. It never returns an error for degraded sources; the contract is
// a best-effort structured result every time.
type PulseAggregator struct {
	adapters   []drepo.SourceAdapter
	classifier domsvc.Classifier
	smoother   domsvc.Smoother
	curator    domsvc.Curator
	normalizer domsvc.Normalizer
	synth      domsvc.Synthesizer

	cache        pkgcache.Service
	cacheTTL     time.Duration
	fetchTimeout time.Duration

	metrics drepo.Metrics
	logger  *xlogger.Logger
	sink    *DigestSink

	// Serializes cycles so history smoothing stays chronological and
	// reproducible; smoothing is path-dependent on call order.
	mu sync.Mutex
}

func NewPulseAggregator(
	adapters []drepo.SourceAdapter,
	classifier domsvc.Classifier,
	smoother domsvc.Smoother,
	curator domsvc.Curator,
	normalizer domsvc.Normalizer,
	synth domsvc.Synthesizer,
	cache pkgcache.Service,
	cacheTTL time.Duration,
	fetchTimeout time.Duration,
	metrics drepo.Metrics,
	logger *xlogger.Logger,
) *PulseAggregator {
	return &PulseAggregator{
		adapters:     adapters,
		classifier:   classifier,
		smoother:     smoother,
		curator:      curator,
		normalizer:   normalizer,
		synth:        synth,
		cache:        cache,
		cacheTTL:     cacheTTL,
		fetchTimeout: fetchTimeout,
		metrics:      metrics,
		logger:       logger,
	}
}

// Aggregate returns the current pulse, from cache when fresh enough. Force
// bypasses the cache. Degraded sources never surface as errors.
func (a *PulseAggregator) Aggregate(ctx context.Context, force bool) *models.PulseResult {
	if !force && a.cache != nil {
		var raw string
		if err := a.cache.Get(ctx, cacheKeyPulse, &raw); err == nil {
			var cached models.PulseResult
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				a.metrics.RecordCacheLookup(true)
				return &cached
			}
		}
		a.metrics.RecordCacheLookup(false)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	results := a.fetchAll(ctx)
	res := a.Compute(results)
	a.metrics.RecordCycleDuration(time.Since(start).Seconds())
	a.metrics.RecordInsightsEmitted(len(res.Insights))

	if a.cache != nil {
		if b, err := json.Marshal(res); err == nil {
			if err := a.cache.Set(ctx, cacheKeyPulse, string(b), a.cacheTTL); err != nil {
				a.logger.Warn("pulse cache set failed", xlogger.Error(err))
			}
		}
	}
	if a.sink != nil {
		a.sink.Emit(ctx, res)
	}
	return res
}

// SetSink attaches the optional digest/snapshot fan-out for fresh cycles.
func (a *PulseAggregator) SetSink(sink *DigestSink) { a.sink = sink }

// Invalidate drops the cached pulse so the next call recomputes.
func (a *PulseAggregator) Invalidate(ctx context.Context) {
	if a.cache != nil {
		_ = a.cache.Delete(ctx, cacheKeyPulse)
	}
}

// fetchAll fans out to all adapters in parallel under one global deadline.
// Adapters that fail or miss the deadline contribute an empty list; nothing
// here blocks the cycle indefinitely or cancels sibling fetches.
func (a *PulseAggregator) fetchAll(ctx context.Context) models.SourceResults {
	fctx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
	defer cancel()

	type fetched struct {
		kind  models.SourceKind
		items []*models.RawItem
	}
	ch := make(chan fetched, len(a.adapters))
	for _, ad := range a.adapters {
		go func(ad drepo.SourceAdapter) {
			items, err := ad.Fetch(fctx)
			if err != nil {
				a.metrics.RecordAdapterFailure(string(ad.Kind()))
				a.logger.Warn("source fetch failed",
					xlogger.String("source", string(ad.Kind())), xlogger.Error(err))
				ch <- fetched{kind: ad.Kind()}
				return
			}
			ch <- fetched{kind: ad.Kind(), items: items}
		}(ad)
	}

	out := make(models.SourceResults, len(a.adapters))
	for range a.adapters {
		select {
		case f := <-ch:
			out[f.kind] = f.items
			a.metrics.RecordItemsFetched(string(f.kind), len(f.items))
		case <-fctx.Done():
			return out // stragglers contribute empty
		}
	}
	return out
}

// Compute runs the scoring pipeline over already-fetched source results.
// Exported separately from Aggregate so the pipeline is testable without
// adapters or cache.
func (a *PulseAggregator) Compute(results models.SourceResults) *models.PulseResult {
	all := flattenChronological(results)

	// Per-item sentiment: declared labels stand, everything else is
	// classified and smoothed in chronological order.
	for _, it := range all {
		if it.Sentiment != "" {
			continue
		}
		cls := a.classifier.Classify(it.Title + " " + it.Body)
		it.Sentiment = a.smoother.Smooth(it.Title, cls.Label, it.SourceName)
	}

	entities := a.normalizer.Normalize(all)

	var narratives, tokens []*models.NormalizedEntity
	for _, e := range entities {
		if e.SourceCount() < synthesis.MinSources {
			continue
		}
		switch e.Kind {
		case models.KindNarrative:
			narratives = append(narratives, e)
		case models.KindToken:
			tokens = append(tokens, e)
		}
	}

	var videoOpps []models.Opportunity
	for _, it := range results[models.SourceVideo] {
		videoOpps = append(videoOpps, it.Opportunities...)
	}

	return &models.PulseResult{
		Narratives:      narratives,
		Tokens:          tokens,
		Insights:        a.synth.Synthesize(entities, videoOpps),
		CuratedNews:     a.curator.Curate(results[models.SourceNews]),
		MarketSentiment: FoldMarketSentiment(results),
		GeneratedAt:     time.Now(),
	}
}

// flattenChronological merges all source items oldest-first. Source kind
// order breaks timestamp ties so repeated runs classify identically.
func flattenChronological(results models.SourceResults) []*models.RawItem {
	var all []*models.RawItem
	for _, kind := range models.SourceKinds {
		for _, it := range results[kind] {
			if it != nil {
				all = append(all, it)
			}
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.Before(all[j].Timestamp)
	})
	return all
}
