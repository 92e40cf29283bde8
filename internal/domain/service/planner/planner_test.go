package planner_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"deal_scout/internal/domain"
	"deal_scout/internal/domain/entity"
	"deal_scout/internal/domain/service/estimator"
	"deal_scout/internal/domain/service/planner"
	"deal_scout/internal/infrastructure/persistence"
	"deal_scout/pkg/errcodes"
)

type sourceStub struct {
	candidates []entity.Candidate
	err        error
	feeds      []entity.Feed
}

func (s *sourceStub) FetchEntries(_ context.Context, feeds []entity.Feed) ([]entity.Candidate, error) {
	s.feeds = feeds
	return s.candidates, s.err
}

// extractorStub returns its deals for every candidate not in knownURLs.
type extractorStub struct {
	deals []entity.Deal
	err   error
	calls int
}

func (s *extractorStub) Scan(
	_ context.Context,
	candidates []entity.Candidate,
	knownURLs map[string]struct{},
) ([]entity.Deal, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}

	fresh := 0
	for _, c := range candidates {
		if _, known := knownURLs[c.URL]; !known {
			fresh++
		}
	}
	if fresh == 0 {
		return nil, nil
	}

	return s.deals, nil
}

type memoryStub struct {
	mu      sync.Mutex
	stored  []entity.Opportunity
	saves   int
	loadErr error
	saveErr error
}

func (m *memoryStub) Load(context.Context) ([]entity.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]entity.Opportunity(nil), m.stored...), nil
}

func (m *memoryStub) Save(_ context.Context, opportunities []entity.Opportunity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stored = append([]entity.Opportunity(nil), opportunities...)
	return nil
}

type notifierStub struct {
	sent []entity.Opportunity
}

func (n *notifierStub) Notify(_ context.Context, o entity.Opportunity) {
	n.sent = append(n.sent, o)
}

type fixedEstimator struct {
	name  string
	value float64
	err   error
}

func (f fixedEstimator) Name() string { return f.name }

func (f fixedEstimator) Estimate(context.Context, string) (float64, error) {
	return f.value, f.err
}

type lockerStub struct {
	err      error
	released int
}

func (l *lockerStub) Acquire(context.Context) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	return func() { l.released++ }, nil
}

func ensemble(frontier, specialist, statistical float64) *estimator.Ensemble {
	return estimator.NewEnsemble(
		estimator.NewMeanCombiner(),
		fixedEstimator{name: estimator.NameFrontier, value: frontier},
		fixedEstimator{name: estimator.NameSpecialist, value: specialist},
		fixedEstimator{name: estimator.NameStatistical, value: statistical},
	)
}

func laptopSource() *sourceStub {
	return &sourceStub{candidates: []entity.Candidate{{
		Title:  "Refurbished laptop",
		Body:   "Refurbished laptop, 16GB RAM, originally $1200, now $650",
		URL:    "http://x/1",
		Source: "computers",
	}}}
}

func laptopExtractor() *extractorStub {
	return &extractorStub{deals: []entity.Deal{
		entity.NewDeal("Refurbished 16GB RAM laptop", 650.0, "http://x/1"),
	}}
}

func TestRunOnceBelowThreshold(t *testing.T) {
	rq := require.New(t)

	memory := &memoryStub{}
	notifier := &notifierStub{}

	p := planner.NewPlanner(laptopSource(), laptopExtractor(), ensemble(800, 780, 820), memory, notifier).
		WithThreshold(200)

	found, err := p.RunOnce(context.Background())
	rq.NoError(err)
	rq.Empty(found)
	rq.Empty(memory.stored)
	rq.Empty(notifier.sent)
}

func TestRunOnceFindsOpportunity(t *testing.T) {
	rq := require.New(t)

	memory := &memoryStub{}
	notifier := &notifierStub{}

	p := planner.NewPlanner(laptopSource(), laptopExtractor(), ensemble(900, 880, 920), memory, notifier).
		WithThreshold(200)

	found, err := p.RunOnce(context.Background())
	rq.NoError(err)
	rq.Len(found, 1)
	rq.InDelta(250.0, found[0].Discount, 1e-9)
	rq.InDelta(900.0, found[0].Estimate, 1e-9)

	rq.Len(memory.stored, 1)
	rq.Equal(found[0], memory.stored[0])
	rq.Equal(1, memory.saves)
	rq.Equal(found, notifier.sent)

	for _, o := range memory.stored {
		rq.GreaterOrEqual(o.Discount, 200.0)
		rq.InDelta(o.Estimate-o.Deal.Price, o.Discount, 1e-9)
	}

	stats, ok := p.LastRun()
	rq.True(ok)
	rq.Equal(1, stats.Candidates)
	rq.Equal(1, stats.Deals)
	rq.Equal(1, stats.Opportunities)
	rq.NoError(stats.Err)
	rq.NotEmpty(stats.TraceID)
	rq.Equal(planner.StateIdle, p.State())
}

func TestRunOnceIsIdempotent(t *testing.T) {
	rq := require.New(t)

	store := persistence.NewJSONMemoryStore(filepath.Join(t.TempDir(), "memory.json"))
	extractor := laptopExtractor()

	p := planner.NewPlanner(laptopSource(), extractor, ensemble(900, 880, 920), store, &notifierStub{}).
		WithThreshold(200)

	first, err := p.RunOnce(context.Background())
	rq.NoError(err)
	rq.Len(first, 1)

	second, err := p.RunOnce(context.Background())
	rq.NoError(err)
	rq.Empty(second)

	stored, err := store.Load(context.Background())
	rq.NoError(err)
	rq.Len(stored, 1)
	rq.Equal(2, extractor.calls)
}

func TestRunOnceSkipsKnownDealFromExtractor(t *testing.T) {
	rq := require.New(t)

	existing := entity.Opportunity{
		Deal:     entity.NewDeal("Refurbished 16GB RAM laptop", 650.0, "http://x/1"),
		Estimate: 900,
		Discount: 250,
	}
	memory := &memoryStub{stored: []entity.Opportunity{existing}}

	source := laptopSource()
	source.candidates = append(source.candidates, entity.Candidate{Title: "Other", URL: "http://x/2"})

	p := planner.NewPlanner(source, laptopExtractor(), ensemble(900, 880, 920), memory, &notifierStub{})

	found, err := p.RunOnce(context.Background())
	rq.NoError(err)
	rq.Empty(found)
	rq.Len(memory.stored, 1)
}

func TestRunOnceToleratesEstimatorFailure(t *testing.T) {
	rq := require.New(t)

	memory := &memoryStub{}

	pricer := estimator.NewEnsemble(
		estimator.NewMeanCombiner(),
		fixedEstimator{name: estimator.NameFrontier, value: 900},
		fixedEstimator{name: estimator.NameSpecialist, err: errors.New("endpoint unreachable")},
		fixedEstimator{name: estimator.NameStatistical, value: 920},
	)

	p := planner.NewPlanner(laptopSource(), laptopExtractor(), pricer, memory, &notifierStub{}).
		WithThreshold(200)

	found, err := p.RunOnce(context.Background())
	rq.NoError(err)
	rq.Len(found, 1)
	rq.InDelta(910.0, found[0].Estimate, 1e-9)
	rq.InDelta(260.0, found[0].Discount, 1e-9)
}

type pricerStub struct {
	prices map[string]float64
	fail   map[string]error
}

func (s pricerStub) Price(_ context.Context, description string) (entity.Valuation, error) {
	if err := s.fail[description]; err != nil {
		return entity.Valuation{}, err
	}
	return entity.Valuation{Price: s.prices[description]}, nil
}

func TestRunOnceSkipsFailedDeal(t *testing.T) {
	rq := require.New(t)

	source := &sourceStub{candidates: []entity.Candidate{{URL: "http://x/1"}, {URL: "http://x/2"}}}
	extractor := &extractorStub{deals: []entity.Deal{
		entity.NewDeal("broken", 100, "http://x/1"),
		entity.NewDeal("tv", 300, "http://x/2"),
	}}
	pricer := pricerStub{
		prices: map[string]float64{"tv": 600},
		fail:   map[string]error{"broken": errors.New("boom")},
	}
	memory := &memoryStub{}

	p := planner.NewPlanner(source, extractor, pricer, memory, &notifierStub{})

	found, err := p.RunOnce(context.Background())
	rq.NoError(err)
	rq.Len(found, 1)
	rq.Equal("http://x/2", found[0].Deal.URL)

	stats, _ := p.LastRun()
	rq.Equal(1, stats.Skipped)
}

func TestRunOnceAbortsWithoutMutation(t *testing.T) {
	testCases := []struct {
		name      string
		source    *sourceStub
		extractor *extractorStub
		code      string
	}{
		{
			name:      "Fetch failure",
			source:    &sourceStub{err: errors.New("dns")},
			extractor: laptopExtractor(),
			code:      errcodes.FetchFailed.String(),
		},
		{
			name:      "Extraction failure",
			source:    laptopSource(),
			extractor: &extractorStub{err: errors.New("quota exceeded")},
			code:      errcodes.ExtractionFailed.String(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			memory := &memoryStub{}

			p := planner.NewPlanner(tc.source, tc.extractor, ensemble(900, 900, 900), memory, &notifierStub{})

			found, err := p.RunOnce(context.Background())
			rq.Error(err)
			rq.Nil(found)
			rq.Zero(memory.saves)

			code, ok := domain.GetCode(err)
			rq.True(ok)
			rq.Equal(tc.code, code.String())

			stats, ok := p.LastRun()
			rq.True(ok)
			rq.Error(stats.Err)
		})
	}
}

func TestRunOncePersistenceFailureReturnsFound(t *testing.T) {
	rq := require.New(t)

	memory := &memoryStub{saveErr: errors.New("disk full")}

	p := planner.NewPlanner(laptopSource(), laptopExtractor(), ensemble(900, 880, 920), memory, &notifierStub{})

	found, err := p.RunOnce(context.Background())
	rq.Error(err)
	rq.True(domain.HasCode(err, errcodes.PersistenceFailed))
	rq.Len(found, 1)
}

func TestRunOnceNothingFound(t *testing.T) {
	rq := require.New(t)

	memory := &memoryStub{}

	p := planner.NewPlanner(&sourceStub{}, laptopExtractor(), ensemble(900, 900, 900), memory, &notifierStub{})

	found, err := p.RunOnce(context.Background())
	rq.NoError(err)
	rq.Empty(found)
	rq.Zero(memory.saves)
}

func TestRunOnceCanceled(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	memory := &memoryStub{}

	p := planner.NewPlanner(laptopSource(), laptopExtractor(), ensemble(900, 900, 900), memory, &notifierStub{})

	found, err := p.RunOnce(ctx)
	rq.ErrorIs(err, context.Canceled)
	rq.Nil(found)
	rq.Zero(memory.saves)
}

func TestRunOnceLocking(t *testing.T) {
	rq := require.New(t)

	locker := &lockerStub{}
	source := laptopSource()
	feeds := []entity.Feed{{Name: "computers", URL: "https://example.com/rss"}}

	p := planner.NewPlanner(source, laptopExtractor(), ensemble(900, 900, 900), &memoryStub{}, &notifierStub{}).
		WithLocker(locker).
		WithFeeds(feeds...)

	_, err := p.RunOnce(context.Background())
	rq.NoError(err)
	rq.Equal(1, locker.released)
	rq.Equal(feeds, source.feeds)

	locker.err = domain.NewError(errcodes.ScanInProgress, "held")

	_, err = p.RunOnce(context.Background())
	rq.True(domain.HasCode(err, errcodes.ScanInProgress))
}

func TestThreshold(t *testing.T) {
	rq := require.New(t)

	memory := &memoryStub{}

	p := planner.NewPlanner(laptopSource(), laptopExtractor(), ensemble(800, 800, 800), memory, &notifierStub{})
	rq.InDelta(200.0, p.Threshold(), 1e-9)

	p.SetThreshold(100)

	found, err := p.RunOnce(context.Background())
	rq.NoError(err)
	rq.Len(found, 1)
	rq.InDelta(150.0, found[0].Discount, 1e-9)
}

func TestOpportunities(t *testing.T) {
	rq := require.New(t)

	memory := &memoryStub{stored: []entity.Opportunity{
		{Deal: entity.NewDeal("a", 1, "http://x/1")},
		{Deal: entity.NewDeal("b", 1, "http://x/2")},
		{Deal: entity.NewDeal("c", 1, "http://x/3")},
	}}

	p := planner.NewPlanner(&sourceStub{}, &extractorStub{}, ensemble(0, 0, 0), memory, &notifierStub{})

	latest, err := p.Opportunities(context.Background(), 2)
	rq.NoError(err)
	rq.Len(latest, 2)
	rq.Equal("http://x/3", latest[0].Deal.URL)
	rq.Equal("http://x/2", latest[1].Deal.URL)

	all, err := p.Opportunities(context.Background(), 0)
	rq.NoError(err)
	rq.Len(all, 3)
}
