package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	catalog "energy-simulator/internal/catalog/domain"
	"energy-simulator/internal/observability/metrics"
	simulation "energy-simulator/internal/simulation/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ComparisonService runs tariff comparisons against the catalog.
type ComparisonService struct {
	catalog catalog.Reader
	clock   Clock
	newID   func() string
	limit   int
	source  string
	logger  *log.Logger
}

// Option configures the service.
type Option func(*ComparisonService)

// WithClock overrides the clock.
func WithClock(clock Clock) Option {
	return func(s *ComparisonService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides run id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *ComparisonService) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithResultLimit overrides how many results a run keeps.
func WithResultLimit(limit int) Option {
	return func(s *ComparisonService) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithCatalogSource names the catalog backend in metrics.
func WithCatalogSource(source string) Option {
	return func(s *ComparisonService) {
		if source != "" {
			s.source = source
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *ComparisonService) {
		s.logger = logger
	}
}

// NewComparisonService constructs the service.
func NewComparisonService(reader catalog.Reader, opts ...Option) (*ComparisonService, error) {
	if reader == nil {
		return nil, errors.New("comparison service: nil catalog reader")
	}
	s := &ComparisonService{
		catalog: reader,
		clock:   SystemClock{},
		newID:   uuid.NewString,
		limit:   simulation.DefaultResultLimit,
		source:  "unknown",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Compare quotes every eligible provider for the input and keeps the best.
func (s *ComparisonService) Compare(ctx context.Context, in simulation.Input) (*simulation.Comparison, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveSimulation(string(in.Type), result, time.Since(start))
	}()

	in.Normalize()
	if err := in.Validate(); err != nil {
		result = metrics.ResultError
		return nil, err
	}

	snapshot, err := s.readCatalog(ctx)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	current := simulation.CurrentCosts(in)
	discounts := catalog.IndexDiscounts(snapshot.Discounts)
	candidates := make([]simulation.ComparisonResult, 0, len(snapshot.Providers))
	for _, p := range snapshot.Providers {
		if !simulation.Eligible(p, in) {
			continue
		}
		res, ok := simulation.Quote(in, p, discounts, current)
		if !ok {
			continue
		}
		candidates = append(candidates, res)
	}
	metrics.ObserveCandidates(string(in.Type), len(candidates))

	tier := simulation.ResolveTier(in.DirectDebit, in.EInvoice)
	cmp := &simulation.Comparison{
		RunID:            s.newID(),
		Input:            in,
		Current:          current,
		DiscountScenario: tier,
		ScenarioLabel:    simulation.ScenarioLabel(tier),
		Results:          simulation.Rank(candidates, s.limit),
		GeneratedAt:      s.clock.Now().UTC(),
	}
	if cmp.NoProviders() {
		result = metrics.ResultEmpty
	}
	return cmp, nil
}

// readCatalog fetches providers and discounts concurrently and waits for both.
func (s *ComparisonService) readCatalog(ctx context.Context) (catalog.Snapshot, error) {
	start := time.Now()
	var snapshot catalog.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		providers, err := s.catalog.ListActiveProviders(gctx)
		if err != nil {
			return fmt.Errorf("list providers: %w", err)
		}
		snapshot.Providers = providers
		return nil
	})
	g.Go(func() error {
		discounts, err := s.catalog.ListDiscountConfigs(gctx)
		if err != nil {
			return fmt.Errorf("list discounts: %w", err)
		}
		snapshot.Discounts = discounts
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.ObserveCatalogRead(s.source, metrics.ResultError, time.Since(start))
		if s.logger != nil {
			s.logger.Printf("catalog read error: %v", err)
		}
		return catalog.Snapshot{}, fmt.Errorf("%w: %w", simulation.ErrCatalogUnavailable, err)
	}
	metrics.ObserveCatalogRead(s.source, metrics.ResultSuccess, time.Since(start))
	return snapshot, nil
}
