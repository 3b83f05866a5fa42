package application

import (
	"context"
	"fmt"

	catalog "energy-simulator/internal/catalog/domain"
	simulation "energy-simulator/internal/simulation/domain"
)

// Availability tells the form which simulation types can be offered.
type Availability struct {
	Electricity bool            `json:"electricity"`
	Gas         bool            `json:"gas"`
	DefaultType simulation.Type `json:"default_type"`
}

// Availability scans active providers. When the catalog cannot be read both
// types are reported available so the form stays usable.
func (s *ComparisonService) Availability(ctx context.Context) Availability {
	providers, err := s.catalog.ListActiveProviders(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("availability catalog error: %v", err)
		}
		return Availability{Electricity: true, Gas: true}
	}
	var out Availability
	for _, p := range providers {
		if p.Supports(catalog.EnergyElectricity) {
			out.Electricity = true
		}
		if p.Supports(catalog.EnergyGas) {
			out.Gas = true
		}
	}
	switch {
	case out.Electricity && !out.Gas:
		out.DefaultType = simulation.TypeElectricity
	case out.Gas && !out.Electricity:
		out.DefaultType = simulation.TypeGas
	}
	return out
}

// MarketProviders lists the names offered in the current-provider selector:
// the free-market retailers plus every active catalog provider.
func (s *ComparisonService) MarketProviders(ctx context.Context) ([]string, error) {
	providers, err := s.catalog.ListActiveProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", simulation.ErrCatalogUnavailable, err)
	}
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name)
	}
	return catalog.MergeProviderNames(catalog.MarketProviders, names...), nil
}
