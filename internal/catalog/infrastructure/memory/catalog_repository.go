package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	catalog "energy-simulator/internal/catalog/domain"
)

// CatalogRepository is an in-memory catalog for demo/testing.
type CatalogRepository struct {
	mu        sync.RWMutex
	order     []string
	providers map[string]catalog.Provider
	discounts []catalog.DiscountConfig
}

// NewCatalogRepository constructs a repository holding the snapshot.
func NewCatalogRepository(snapshot catalog.Snapshot) *CatalogRepository {
	repo := &CatalogRepository{providers: make(map[string]catalog.Provider)}
	for _, p := range snapshot.Providers {
		_ = repo.SaveProvider(context.Background(), p)
	}
	for _, d := range snapshot.Discounts {
		_ = repo.SaveDiscount(context.Background(), d)
	}
	return repo
}

// ListActiveProviders returns active providers in insertion order.
func (r *CatalogRepository) ListActiveProviders(ctx context.Context) ([]catalog.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]catalog.Provider, 0, len(r.order))
	for _, id := range r.order {
		if p := r.providers[id]; p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListDiscountConfigs returns every discount config.
func (r *CatalogRepository) ListDiscountConfigs(ctx context.Context) ([]catalog.DiscountConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]catalog.DiscountConfig, len(r.discounts))
	copy(out, r.discounts)
	return out, nil
}

// SaveProvider inserts or replaces a provider.
func (r *CatalogRepository) SaveProvider(ctx context.Context, p catalog.Provider) error {
	_ = ctx
	if err := p.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.providers[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		r.order = append(r.order, p.ID)
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
	}
	p.UpdatedAt = now
	r.providers[p.ID] = p
	return nil
}

// SaveDiscount inserts or replaces the config of a provider and energy type.
func (r *CatalogRepository) SaveDiscount(ctx context.Context, d catalog.DiscountConfig) error {
	_ = ctx
	if err := d.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[d.ProviderID]; !ok {
		return errors.New("catalog memory: unknown provider " + d.ProviderID)
	}
	d.UpdatedAt = time.Now().UTC()
	for i, existing := range r.discounts {
		if existing.ProviderID == d.ProviderID && existing.EnergyType == d.EnergyType {
			d.CreatedAt = existing.CreatedAt
			r.discounts[i] = d
			return nil
		}
	}
	d.CreatedAt = d.UpdatedAt
	r.discounts = append(r.discounts, d)
	return nil
}
