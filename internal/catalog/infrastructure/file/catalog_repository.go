// Package file reads the tariff catalog from a YAML document.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	catalog "energy-simulator/internal/catalog/domain"

	"gopkg.in/yaml.v3"
)

// Load parses and validates a catalog YAML file.
func Load(path string) (catalog.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	return Parse(raw)
}

// Parse parses and validates a catalog YAML document.
func Parse(raw []byte) (catalog.Snapshot, error) {
	var snapshot catalog.Snapshot
	if err := yaml.Unmarshal(raw, &snapshot); err != nil {
		return catalog.Snapshot{}, fmt.Errorf("catalog file: %w", err)
	}
	if err := snapshot.Validate(); err != nil {
		return catalog.Snapshot{}, fmt.Errorf("catalog file: %w", err)
	}
	return snapshot, nil
}

// CatalogRepository serves a YAML catalog, re-reading it when the file changes.
type CatalogRepository struct {
	path string

	mu       sync.Mutex
	modTime  time.Time
	snapshot catalog.Snapshot
}

// NewCatalogRepository constructs a repository and performs the first load.
func NewCatalogRepository(path string) (*CatalogRepository, error) {
	if path == "" {
		return nil, errors.New("catalog file: empty path")
	}
	repo := &CatalogRepository{path: path}
	if _, err := repo.current(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *CatalogRepository) current() (catalog.Snapshot, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.modTime.IsZero() && info.ModTime().Equal(r.modTime) {
		return r.snapshot, nil
	}
	snapshot, err := Load(r.path)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	r.snapshot = snapshot
	r.modTime = info.ModTime()
	return snapshot, nil
}

// ListActiveProviders returns the active providers of the file.
func (r *CatalogRepository) ListActiveProviders(ctx context.Context) ([]catalog.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snapshot, err := r.current()
	if err != nil {
		return nil, err
	}
	return snapshot.ActiveProviders(), nil
}

// ListDiscountConfigs returns the discount configs of the file.
func (r *CatalogRepository) ListDiscountConfigs(ctx context.Context) ([]catalog.DiscountConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snapshot, err := r.current()
	if err != nil {
		return nil, err
	}
	out := make([]catalog.DiscountConfig, len(snapshot.Discounts))
	copy(out, snapshot.Discounts)
	return out, nil
}
