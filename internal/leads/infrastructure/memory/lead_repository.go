package memory

import (
	"context"
	"errors"
	"sync"

	leads "energy-simulator/internal/leads/domain"
)

// LeadRepository keeps leads in memory.
type LeadRepository struct {
	mu    sync.RWMutex
	leads map[string]leads.Lead
}

// NewLeadRepository constructs an empty repository.
func NewLeadRepository() *LeadRepository {
	return &LeadRepository{leads: make(map[string]leads.Lead)}
}

// Save stores a lead, replacing any with the same id.
func (r *LeadRepository) Save(ctx context.Context, lead leads.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if lead.ID == "" {
		return errors.New("lead repo: empty id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads[lead.ID] = lead
	return nil
}

// Get returns a lead by id.
func (r *LeadRepository) Get(ctx context.Context, id string) (*leads.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	lead, ok := r.leads[id]
	if !ok {
		return nil, leads.ErrNotFound
	}
	return &lead, nil
}

// Count returns the number of stored leads.
func (r *LeadRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.leads)
}
