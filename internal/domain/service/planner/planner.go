// Package planner runs one discovery pass: fetch, select, price, evaluate,
// remember and notify.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"deal_scout/internal/domain"
	"deal_scout/internal/domain/entity"
	"deal_scout/internal/domain/service/opportunity"
	"deal_scout/pkg/contextx"
	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Source interface {
	FetchEntries(ctx context.Context, feeds []entity.Feed) ([]entity.Candidate, error)
}

type Extractor interface {
	Scan(ctx context.Context, candidates []entity.Candidate, knownURLs map[string]struct{}) ([]entity.Deal, error)
}

type Pricer interface {
	Price(ctx context.Context, description string) (entity.Valuation, error)
}

type MemoryStore interface {
	Load(ctx context.Context) ([]entity.Opportunity, error)
	Save(ctx context.Context, opportunities []entity.Opportunity) error
}

type Notifier interface {
	Notify(ctx context.Context, opportunity entity.Opportunity)
}

// Locker guards the memory against concurrent passes in other processes.
type Locker interface {
	Acquire(ctx context.Context) (release func(), err error)
}

type noLock struct{}

func (noLock) Acquire(context.Context) (func(), error) {
	return func() {}, nil
}

type Planner struct {
	source    Source
	extractor Extractor
	pricer    Pricer
	memory    MemoryStore
	notifier  Notifier
	locker    Locker
	feeds     []entity.Feed

	mu        sync.RWMutex
	threshold float64
	lastRun   *RunStats

	state atomic.Int32
}

func NewPlanner(
	source Source,
	extractor Extractor,
	pricer Pricer,
	memory MemoryStore,
	notifier Notifier,
) *Planner {
	return &Planner{
		source:    source,
		extractor: extractor,
		pricer:    pricer,
		memory:    memory,
		notifier:  notifier,
		locker:    noLock{},
		threshold: opportunity.DefaultThreshold,
	}
}

func (p *Planner) WithFeeds(feeds ...entity.Feed) *Planner {
	p.feeds = feeds
	return p
}

func (p *Planner) WithThreshold(threshold float64) *Planner {
	p.threshold = threshold
	return p
}

func (p *Planner) WithLocker(locker Locker) *Planner {
	if locker != nil {
		p.locker = locker
	}
	return p
}

func (p *Planner) Threshold() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.threshold
}

// SetThreshold takes effect from the next pass.
func (p *Planner) SetThreshold(threshold float64) {
	p.mu.Lock()
	p.threshold = threshold
	p.mu.Unlock()
}

func (p *Planner) State() State {
	return State(p.state.Load())
}

func (p *Planner) LastRun() (RunStats, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.lastRun == nil {
		return RunStats{}, false
	}
	return *p.lastRun, true
}

// Opportunities returns up to limit remembered opportunities, newest first.
func (p *Planner) Opportunities(ctx context.Context, limit int) ([]entity.Opportunity, error) {
	stored, err := p.memory.Load(ctx)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.PersistenceFailed, "load memory")
	}

	if limit <= 0 || limit > len(stored) {
		limit = len(stored)
	}

	result := make([]entity.Opportunity, 0, limit)
	for i := len(stored) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, stored[i])
	}

	return result, nil
}

// RunOnce performs a single pass and returns the opportunities it found.
// Fetch and extraction failures abort the pass before memory is touched. A
// failure to persist is returned together with the new opportunities so the
// caller can retry.
func (p *Planner) RunOnce(ctx context.Context) ([]entity.Opportunity, error) {
	release, err := p.locker.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("locker.Acquire: %w", err)
	}
	defer release()

	if !p.state.CompareAndSwap(int32(StateIdle), int32(StateScanning)) {
		return nil, domain.NewError(errcodes.ScanInProgress, "scan already in progress")
	}
	defer p.state.Store(int32(StateIdle))

	// A pass started from an HTTP request keeps the request trace id.
	ctx, traceID, created := contextx.EnsureTraceID(ctx)
	if created {
		ctx = contextx.WithLogger(ctx, logger(ctx).With(logx.Stringer(logx.FieldTraceID, traceID)))
	}

	stats := RunStats{TraceID: traceID.String(), StartedAt: time.Now()}

	found, err := p.run(ctx, &stats)

	stats.Duration = time.Since(stats.StartedAt)
	stats.Opportunities = len(found)
	stats.Err = err
	p.finish(ctx, stats)

	return found, err
}

func (p *Planner) run(ctx context.Context, stats *RunStats) ([]entity.Opportunity, error) {
	threshold := p.Threshold()

	memory, err := p.memory.Load(ctx)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.PersistenceFailed, "load memory")
	}

	known := entity.URLs(memory)

	logger(ctx).Info(
		"scan pass started",
		slog.Int("memory", len(memory)),
		slog.Float64("threshold", threshold),
	)

	candidates, err := p.source.FetchEntries(ctx, p.feeds)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.FetchFailed, "fetch candidates")
	}

	stats.Candidates = len(candidates)
	candidatesTotal.Add(float64(len(candidates)))

	deals, err := p.extractor.Scan(ctx, candidates, known)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.ExtractionFailed, "extract deals")
	}

	if deals == nil {
		return nil, nil
	}

	stats.Deals = len(deals)

	var found []entity.Opportunity

	for _, deal := range deals {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("planner.run: %w", err)
		}

		if _, seen := known[deal.URL]; seen {
			dealsTotal.WithLabelValues("duplicate").Inc()
			continue
		}

		opp, err := p.evaluate(ctx, deal, threshold)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("planner.evaluate: %w", err)
			}

			stats.Skipped++
			dealsTotal.WithLabelValues("skipped").Inc()
			logger(ctx).Error("deal skipped", slog.String(logx.FieldDealURL, deal.URL), logx.Error(err))

			continue
		}

		if opp == nil {
			dealsTotal.WithLabelValues("below_threshold").Inc()
			continue
		}

		dealsTotal.WithLabelValues("opportunity").Inc()

		memory = append(memory, *opp)
		known[deal.URL] = struct{}{}
		p.notifier.Notify(ctx, *opp)
		found = append(found, *opp)
	}

	if err := p.memory.Save(ctx, memory); err != nil {
		return found, domain.WrapError(err, errcodes.PersistenceFailed, "save memory")
	}

	memorySize.Set(float64(len(memory)))

	return found, nil
}

func (p *Planner) evaluate(ctx context.Context, deal entity.Deal, threshold float64) (*entity.Opportunity, error) {
	valuation, err := p.pricer.Price(ctx, deal.Description)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.EstimationFailed, "price deal")
	}

	opp := opportunity.Evaluate(deal, valuation.Price, threshold)

	logger(ctx).Info(
		"deal evaluated",
		slog.String(logx.FieldDealURL, deal.URL),
		slog.Float64("price", deal.Price),
		slog.Float64("estimate", valuation.Price),
		slog.Float64("discount", valuation.Price-deal.Price),
		slog.Bool("opportunity", opp != nil),
	)

	return opp, nil
}

func (p *Planner) finish(ctx context.Context, stats RunStats) {
	p.mu.Lock()
	p.lastRun = &stats
	p.mu.Unlock()

	passDuration.Observe(stats.Duration.Seconds())

	switch {
	case stats.Err != nil && stats.Opportunities > 0:
		passesTotal.WithLabelValues(resultUnsaved).Inc()
	case stats.Err != nil:
		passesTotal.WithLabelValues(resultFailed).Inc()
	case stats.Deals == 0:
		passesTotal.WithLabelValues(resultEmpty).Inc()
	default:
		passesTotal.WithLabelValues(resultOK).Inc()
	}

	if stats.Err != nil {
		logger(ctx).Error(
			"scan pass failed",
			slog.Int64(logx.FieldDurationMs, stats.Duration.Milliseconds()),
			slog.Int("opportunities", stats.Opportunities),
			logx.Error(stats.Err),
		)
		return
	}

	logger(ctx).Info(
		"scan pass finished",
		slog.Int64(logx.FieldDurationMs, stats.Duration.Milliseconds()),
		slog.Int("candidates", stats.Candidates),
		slog.Int("deals", stats.Deals),
		slog.Int("skipped", stats.Skipped),
		slog.Int("opportunities", stats.Opportunities),
	)
}
