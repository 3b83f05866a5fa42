package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	catalog "energy-simulator/internal/catalog/domain"
)

const sampleCatalog = `
providers:
  - id: luzboa
    name: Luzboa
    active: true
    energy_types: [electricity, gas]
    cycles: [simple, bi-hourly]
    electricity:
      simple:
        energy_price: 0.1450
        power_charges:
          "6.9": 0.3512
      bi_hourly:
        off_peak_price: 0.1010
        out_of_off_peak_price: 0.1820
        power_charges:
          "6.9": 0.3512
    gas:
      tiers:
        1: {daily_charge: 0.0850, unit_price: 0.0790}
  - id: old
    name: Old Energy
    active: false
discounts:
  - id: luzboa-electricity
    provider_id: luzboa
    energy_type: electricity
    base: {power_pct: 0, energy_pct: 5}
    direct_debit_e_invoice: {power_pct: 10, energy_pct: 10}
    promotion:
      monthly_amount: 5
      duration_months: 3
      description: Welcome
      requires_direct_debit: true
`

func TestParseCatalog(t *testing.T) {
	snapshot, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(snapshot.Providers) != 2 || len(snapshot.Discounts) != 1 {
		t.Fatalf("unexpected snapshot sizes: %d providers, %d discounts", len(snapshot.Providers), len(snapshot.Discounts))
	}
	p := snapshot.Providers[0]
	tariff, ok := p.Electricity.ForCycle(catalog.CycleBiHourly)
	if !ok {
		t.Fatalf("expected bi-hourly tariff")
	}
	if tariff.BandPrice(catalog.BandOutOfOffPeak).String() != "0.182" {
		t.Fatalf("unexpected price: %s", tariff.BandPrice(catalog.BandOutOfOffPeak))
	}
	if tariff.DailyPowerCharge(6.9).String() != "0.3512" {
		t.Fatalf("unexpected power charge: %s", tariff.DailyPowerCharge(6.9))
	}
	if price, ok := p.Gas.ForTier(1); !ok || price.UnitPrice.String() != "0.079" {
		t.Fatalf("unexpected gas tier: %+v", price)
	}
	promo := snapshot.Discounts[0].Promotion
	if !promo.Active() || !promo.RequiresDirectDebit {
		t.Fatalf("unexpected promotion: %+v", promo)
	}
}

func TestParseRejectsInvalidPercent(t *testing.T) {
	doc := `
providers:
  - {id: a, name: A, active: true}
discounts:
  - {id: d, provider_id: a, energy_type: gas, base: {power_pct: 120, energy_pct: 0}}
`
	if _, err := Parse([]byte(doc)); !errors.Is(err, catalog.ErrInvalidPercent) {
		t.Fatalf("expected ErrInvalidPercent, got %v", err)
	}
}

func TestCatalogRepositoryReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	repo, err := NewCatalogRepository(path)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	providers, err := repo.ListActiveProviders(context.Background())
	if err != nil {
		t.Fatalf("list providers: %v", err)
	}
	if len(providers) != 1 || providers[0].ID != "luzboa" {
		t.Fatalf("unexpected providers: %+v", providers)
	}
	discounts, err := repo.ListDiscountConfigs(context.Background())
	if err != nil || len(discounts) != 1 {
		t.Fatalf("unexpected discounts: %v %+v", err, discounts)
	}
}

func TestExampleCatalogLoads(t *testing.T) {
	snapshot, err := Load(filepath.Join("..", "..", "..", "..", "catalog.example.yaml"))
	if err != nil {
		t.Fatalf("load example: %v", err)
	}
	if len(snapshot.ActiveProviders()) != 2 {
		t.Fatalf("expected two active providers, got %d", len(snapshot.ActiveProviders()))
	}
	discounts := catalog.IndexDiscounts(snapshot.Discounts)
	if discounts.Lookup("goldenergy", catalog.EnergyGas) == nil {
		t.Fatalf("expected gas discount for goldenergy")
	}
}
