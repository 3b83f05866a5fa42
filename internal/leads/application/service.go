package application

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	leads "energy-simulator/internal/leads/domain"
	"energy-simulator/internal/observability/metrics"
	simulation "energy-simulator/internal/simulation/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Comparer runs a simulation. Satisfied by the simulation ComparisonService.
type Comparer interface {
	Compare(ctx context.Context, in simulation.Input) (*simulation.Comparison, error)
}

// Submission is a contact request as received from a visitor.
type Submission struct {
	Name      string
	Email     string
	Phone     string
	Message   string
	Source    string
	PartnerID string
	Input     *simulation.Input
}

// Summary is the stored snapshot of the simulation attached to a lead.
type Summary struct {
	RunID           string          `json:"run_id"`
	Type            simulation.Type `json:"type"`
	CurrentProvider string          `json:"current_provider"`
	CurrentCost     decimal.Decimal `json:"current_cost"`
	BillingDays     int             `json:"billing_days"`
	Results         int             `json:"results"`
	Best            *SummaryResult  `json:"best,omitempty"`
}

// SummaryResult is the best offer at the time the lead was captured.
type SummaryResult struct {
	ProviderID   string          `json:"provider_id"`
	ProviderName string          `json:"provider_name"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Savings      decimal.Decimal `json:"savings"`
}

// Service captures leads.
type Service struct {
	repo     leads.Repository
	comparer Comparer
	newID    func() string
	now      func() time.Time
	logger   *log.Logger
}

// Option configures the service.
type Option func(*Service)

// WithComparer attaches a simulation summary to leads that carry an input.
func WithComparer(c Comparer) Option {
	return func(s *Service) {
		s.comparer = c
	}
}

// WithIDGenerator overrides lead id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithNow overrides the clock.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService constructs a lead service.
func NewService(repo leads.Repository, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("lead service: nil repository")
	}
	s := &Service{
		repo:  repo,
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Submit validates and stores a lead. An invalid simulation input rejects the
// lead; an unreachable catalog only drops the summary.
func (s *Service) Submit(ctx context.Context, sub Submission) (*leads.Lead, error) {
	lead := leads.Lead{
		ID:        s.newID(),
		Name:      sub.Name,
		Email:     sub.Email,
		Phone:     sub.Phone,
		Message:   sub.Message,
		Source:    sub.Source,
		PartnerID: sub.PartnerID,
		CreatedAt: s.now().UTC(),
	}
	lead.Normalize()
	if err := lead.Validate(); err != nil {
		metrics.IncLead(metrics.ResultError)
		return nil, err
	}

	if sub.Input != nil {
		lead.SimulationType = string(sub.Input.Type)
		lead.CurrentProvider = sub.Input.CurrentProvider
		if s.comparer != nil {
			if err := s.attachSummary(ctx, &lead, *sub.Input); err != nil {
				metrics.IncLead(metrics.ResultError)
				return nil, err
			}
		}
	}

	if err := s.repo.Save(ctx, lead); err != nil {
		metrics.IncLead(metrics.ResultError)
		return nil, err
	}
	metrics.IncLead(metrics.ResultSuccess)
	return &lead, nil
}

func (s *Service) attachSummary(ctx context.Context, lead *leads.Lead, in simulation.Input) error {
	cmp, err := s.comparer.Compare(ctx, in)
	if err != nil {
		if errors.Is(err, simulation.ErrInvalidInput) {
			return err
		}
		if s.logger != nil {
			s.logger.Printf("lead %s summary skipped: %v", lead.ID, err)
		}
		return nil
	}
	summary := Summary{
		RunID:           cmp.RunID,
		Type:            cmp.Input.Type,
		CurrentProvider: cmp.Input.CurrentProvider,
		CurrentCost:     cmp.Current.Total,
		BillingDays:     cmp.Input.BillingDays,
		Results:         len(cmp.Results),
	}
	if best := cmp.Best(); best != nil {
		summary.Best = &SummaryResult{
			ProviderID:   best.ProviderID,
			ProviderName: best.ProviderName,
			Subtotal:     best.Subtotal,
			Savings:      best.Savings,
		}
		savings := best.Savings
		lead.BestProvider = best.ProviderName
		lead.BestSavings = &savings
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	lead.CurrentProvider = cmp.Input.CurrentProvider
	lead.Summary = raw
	return nil
}
