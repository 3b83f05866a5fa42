package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	leads "energy-simulator/internal/leads/domain"

	"github.com/shopspring/decimal"
)

const defaultLeadsTable = "leads"

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// LeadRepository is a Postgres repository for leads.
type LeadRepository struct {
	db    DBTX
	table string
}

// LeadOption configures the repository.
type LeadOption func(*LeadRepository)

// WithLeadsTable overrides the default table name.
func WithLeadsTable(table string) LeadOption {
	return func(repo *LeadRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewLeadRepository constructs a repository.
func NewLeadRepository(db DBTX, opts ...LeadOption) *LeadRepository {
	repo := &LeadRepository{db: db, table: defaultLeadsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Save inserts a lead.
func (r *LeadRepository) Save(ctx context.Context, lead leads.Lead) error {
	if r == nil || r.db == nil {
		return errors.New("lead repo: nil db")
	}
	if lead.ID == "" {
		return errors.New("lead repo: empty id")
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}
	summary := lead.Summary
	if len(summary) == 0 {
		summary = []byte("{}")
	}
	var savings decimal.NullDecimal
	if lead.BestSavings != nil {
		savings = decimal.NullDecimal{Decimal: *lead.BestSavings, Valid: true}
	}
	query := fmt.Sprintf(`
INSERT INTO %s (
	id, name, email, phone, message, source, partner_id, simulation_type,
	current_provider, best_provider, best_savings, summary, created_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8,
	$9, $10, $11, $12, $13
)`, r.table)
	_, err := r.db.ExecContext(ctx, query,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.Message, lead.Source, lead.PartnerID,
		lead.SimulationType, lead.CurrentProvider, lead.BestProvider, savings, summary, lead.CreatedAt)
	return err
}

// Get loads a lead by id.
func (r *LeadRepository) Get(ctx context.Context, id string) (*leads.Lead, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("lead repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT id, name, email, phone, message, source, partner_id, simulation_type,
	current_provider, best_provider, best_savings, summary, created_at
FROM %s
WHERE id = $1`, r.table)
	var (
		lead    leads.Lead
		savings decimal.NullDecimal
		summary []byte
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.Message,
		&lead.Source,
		&lead.PartnerID,
		&lead.SimulationType,
		&lead.CurrentProvider,
		&lead.BestProvider,
		&savings,
		&summary,
		&lead.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, leads.ErrNotFound
		}
		return nil, err
	}
	if savings.Valid {
		v := savings.Decimal
		lead.BestSavings = &v
	}
	lead.Summary = summary
	lead.CreatedAt = lead.CreatedAt.UTC()
	return &lead, nil
}
