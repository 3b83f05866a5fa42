package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	catalog "energy-simulator/internal/catalog/domain"
)

const (
	defaultProvidersTable = "catalog_providers"
	defaultDiscountsTable = "catalog_discounts"
)

// CatalogRepository is a Postgres implementation of the catalog.
type CatalogRepository struct {
	db             DBTX
	providersTable string
	discountsTable string
}

// CatalogOption configures the repository.
type CatalogOption func(*CatalogRepository)

// WithProvidersTable overrides the default providers table name.
func WithProvidersTable(table string) CatalogOption {
	return func(repo *CatalogRepository) {
		if table != "" {
			repo.providersTable = table
		}
	}
}

// WithDiscountsTable overrides the default discounts table name.
func WithDiscountsTable(table string) CatalogOption {
	return func(repo *CatalogRepository) {
		if table != "" {
			repo.discountsTable = table
		}
	}
}

// NewCatalogRepository constructs a repository.
func NewCatalogRepository(db DBTX, opts ...CatalogOption) *CatalogRepository {
	repo := &CatalogRepository{
		db:             db,
		providersTable: defaultProvidersTable,
		discountsTable: defaultDiscountsTable,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// ListActiveProviders loads active providers ordered by name.
func (r *CatalogRepository) ListActiveProviders(ctx context.Context) ([]catalog.Provider, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("catalog repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT id, name, logo_url, active, energy_types, cycles, electricity, gas, created_at, updated_at
FROM %s
WHERE active = TRUE
ORDER BY name ASC, id ASC`, r.providersTable)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []catalog.Provider
	for rows.Next() {
		var (
			p           catalog.Provider
			energyTypes []byte
			cycles      []byte
			electricity []byte
			gas         []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.LogoURL, &p.Active, &energyTypes, &cycles, &electricity, &gas, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(energyTypes, &p.EnergyTypes); err != nil {
			return nil, fmt.Errorf("catalog repo: provider %s energy types: %w", p.ID, err)
		}
		if err := json.Unmarshal(cycles, &p.Cycles); err != nil {
			return nil, fmt.Errorf("catalog repo: provider %s cycles: %w", p.ID, err)
		}
		if err := json.Unmarshal(electricity, &p.Electricity); err != nil {
			return nil, fmt.Errorf("catalog repo: provider %s electricity: %w", p.ID, err)
		}
		if len(gas) > 0 && string(gas) != "null" {
			p.Gas = &catalog.GasTariff{}
			if err := json.Unmarshal(gas, p.Gas); err != nil {
				return nil, fmt.Errorf("catalog repo: provider %s gas: %w", p.ID, err)
			}
		}
		p.CreatedAt = p.CreatedAt.UTC()
		p.UpdatedAt = p.UpdatedAt.UTC()
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListDiscountConfigs loads every discount config.
func (r *CatalogRepository) ListDiscountConfigs(ctx context.Context) ([]catalog.DiscountConfig, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("catalog repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT id, provider_id, energy_type,
	base_power_pct, base_energy_pct, dd_power_pct, dd_energy_pct,
	fe_power_pct, fe_energy_pct, dd_fe_power_pct, dd_fe_energy_pct,
	promo_monthly_amount, promo_duration_months, promo_description,
	promo_requires_dd, promo_requires_fe, created_at, updated_at
FROM %s
ORDER BY provider_id ASC, energy_type ASC`, r.discountsTable)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []catalog.DiscountConfig
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanDiscount(rows *sql.Rows) (catalog.DiscountConfig, error) {
	var (
		d          catalog.DiscountConfig
		energyType string
	)
	err := rows.Scan(
		&d.ID,
		&d.ProviderID,
		&energyType,
		&d.Base.PowerPct,
		&d.Base.EnergyPct,
		&d.DirectDebit.PowerPct,
		&d.DirectDebit.EnergyPct,
		&d.EInvoice.PowerPct,
		&d.EInvoice.EnergyPct,
		&d.Both.PowerPct,
		&d.Both.EnergyPct,
		&d.Promotion.MonthlyAmount,
		&d.Promotion.DurationMonths,
		&d.Promotion.Description,
		&d.Promotion.RequiresDirectDebit,
		&d.Promotion.RequiresEInvoice,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return catalog.DiscountConfig{}, err
	}
	d.EnergyType = catalog.EnergyType(energyType)
	d.CreatedAt = d.CreatedAt.UTC()
	d.UpdatedAt = d.UpdatedAt.UTC()
	return d, nil
}

// SaveProvider upserts a provider.
func (r *CatalogRepository) SaveProvider(ctx context.Context, p *catalog.Provider) error {
	if r == nil || r.db == nil {
		return errors.New("catalog repo: nil db")
	}
	if p == nil {
		return errors.New("catalog repo: nil provider")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	energyTypes, err := json.Marshal(nonNil(p.EnergyTypes))
	if err != nil {
		return err
	}
	cycles, err := json.Marshal(nonNil(p.Cycles))
	if err != nil {
		return err
	}
	electricity, err := json.Marshal(p.Electricity)
	if err != nil {
		return err
	}
	var gas []byte
	if p.Gas != nil {
		if gas, err = json.Marshal(p.Gas); err != nil {
			return err
		}
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	name,
	logo_url,
	active,
	energy_types,
	cycles,
	electricity,
	gas
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8
)
ON CONFLICT (id)
DO UPDATE SET
	name = EXCLUDED.name,
	logo_url = EXCLUDED.logo_url,
	active = EXCLUDED.active,
	energy_types = EXCLUDED.energy_types,
	cycles = EXCLUDED.cycles,
	electricity = EXCLUDED.electricity,
	gas = EXCLUDED.gas,
	updated_at = NOW()`, r.providersTable)

	if _, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.LogoURL, p.Active, energyTypes, cycles, electricity, gas); err != nil {
		return err
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return nil
}

// SaveDiscount upserts the config of a provider and energy type.
func (r *CatalogRepository) SaveDiscount(ctx context.Context, d *catalog.DiscountConfig) error {
	if r == nil || r.db == nil {
		return errors.New("catalog repo: nil db")
	}
	if d == nil {
		return errors.New("catalog repo: nil discount")
	}
	if err := d.Validate(); err != nil {
		return err
	}
	if d.ID == "" {
		d.ID = d.ProviderID + "-" + string(d.EnergyType)
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	id, provider_id, energy_type,
	base_power_pct, base_energy_pct, dd_power_pct, dd_energy_pct,
	fe_power_pct, fe_energy_pct, dd_fe_power_pct, dd_fe_energy_pct,
	promo_monthly_amount, promo_duration_months, promo_description,
	promo_requires_dd, promo_requires_fe
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
)
ON CONFLICT (provider_id, energy_type)
DO UPDATE SET
	base_power_pct = EXCLUDED.base_power_pct,
	base_energy_pct = EXCLUDED.base_energy_pct,
	dd_power_pct = EXCLUDED.dd_power_pct,
	dd_energy_pct = EXCLUDED.dd_energy_pct,
	fe_power_pct = EXCLUDED.fe_power_pct,
	fe_energy_pct = EXCLUDED.fe_energy_pct,
	dd_fe_power_pct = EXCLUDED.dd_fe_power_pct,
	dd_fe_energy_pct = EXCLUDED.dd_fe_energy_pct,
	promo_monthly_amount = EXCLUDED.promo_monthly_amount,
	promo_duration_months = EXCLUDED.promo_duration_months,
	promo_description = EXCLUDED.promo_description,
	promo_requires_dd = EXCLUDED.promo_requires_dd,
	promo_requires_fe = EXCLUDED.promo_requires_fe,
	updated_at = NOW()`, r.discountsTable)

	_, err := r.db.ExecContext(
		ctx,
		query,
		d.ID,
		d.ProviderID,
		string(d.EnergyType),
		d.Base.PowerPct,
		d.Base.EnergyPct,
		d.DirectDebit.PowerPct,
		d.DirectDebit.EnergyPct,
		d.EInvoice.PowerPct,
		d.EInvoice.EnergyPct,
		d.Both.PowerPct,
		d.Both.EnergyPct,
		d.Promotion.MonthlyAmount,
		d.Promotion.DurationMonths,
		d.Promotion.Description,
		d.Promotion.RequiresDirectDebit,
		d.Promotion.RequiresEInvoice,
	)
	return err
}

// CountProviders counts active providers.
func (r *CatalogRepository) CountProviders(ctx context.Context) (int, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("catalog repo: nil db")
	}
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE active = TRUE`, r.providersTable)
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
