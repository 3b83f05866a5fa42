package memory

import (
	"context"
	"testing"

	catalog "energy-simulator/internal/catalog/domain"
)

func TestCatalogRepositoryListsActiveOnly(t *testing.T) {
	repo := NewCatalogRepository(catalog.Snapshot{
		Providers: []catalog.Provider{
			{ID: "a", Name: "Alpha", Active: true},
			{ID: "b", Name: "Beta", Active: false},
			{ID: "c", Name: "Gamma", Active: true},
		},
		Discounts: []catalog.DiscountConfig{
			{ID: "d1", ProviderID: "a", EnergyType: catalog.EnergyElectricity},
			{ID: "d2", ProviderID: "missing", EnergyType: catalog.EnergyElectricity},
		},
	})

	providers, err := repo.ListActiveProviders(context.Background())
	if err != nil {
		t.Fatalf("list providers: %v", err)
	}
	if len(providers) != 2 || providers[0].ID != "a" || providers[1].ID != "c" {
		t.Fatalf("unexpected providers: %+v", providers)
	}

	discounts, err := repo.ListDiscountConfigs(context.Background())
	if err != nil {
		t.Fatalf("list discounts: %v", err)
	}
	if len(discounts) != 1 {
		t.Fatalf("expected orphan discount to be rejected, got %d", len(discounts))
	}
}

func TestCatalogRepositoryReplacesDiscount(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepository(catalog.Snapshot{Providers: []catalog.Provider{{ID: "a", Name: "Alpha", Active: true}}})
	if err := repo.SaveDiscount(ctx, catalog.DiscountConfig{ID: "d1", ProviderID: "a", EnergyType: catalog.EnergyGas}); err != nil {
		t.Fatalf("save discount: %v", err)
	}
	if err := repo.SaveDiscount(ctx, catalog.DiscountConfig{ID: "d2", ProviderID: "a", EnergyType: catalog.EnergyGas}); err != nil {
		t.Fatalf("save discount: %v", err)
	}
	discounts, _ := repo.ListDiscountConfigs(ctx)
	if len(discounts) != 1 || discounts[0].ID != "d2" {
		t.Fatalf("expected replaced config, got %+v", discounts)
	}
}

func TestCatalogRepositoryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewCatalogRepository(catalog.Snapshot{}).ListActiveProviders(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}
