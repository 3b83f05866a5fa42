package catalog

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestContractedPowerKey(t *testing.T) {
	cases := map[ContractedPower]string{
		1.15:  "1.15",
		6.9:   "6.9",
		10.35: "10.35",
		41.4:  "41.4",
	}
	for p, want := range cases {
		if got := p.Key(); got != want {
			t.Fatalf("key mismatch: got=%s want=%s", got, want)
		}
		if !p.Valid() {
			t.Fatalf("expected %v to be a valid power level", p)
		}
	}
	if ContractedPower(7).Valid() {
		t.Fatalf("expected 7 kVA to be invalid")
	}
}

func TestCycleBands(t *testing.T) {
	if got := len(CycleSimple.Bands()); got != 1 {
		t.Fatalf("expected 1 simple band, got %d", got)
	}
	if got := len(CycleBiHourly.Bands()); got != 2 {
		t.Fatalf("expected 2 bi-hourly bands, got %d", got)
	}
	bands := CycleTriHourly.Bands()
	if len(bands) != 3 || bands[0] != BandOffPeak || bands[1] != BandPeak || bands[2] != BandShoulder {
		t.Fatalf("unexpected tri-hourly bands: %v", bands)
	}
	if _, err := ParseCycle("weekly"); !errors.Is(err, ErrUnknownCycle) {
		t.Fatalf("expected ErrUnknownCycle, got %v", err)
	}
}

func TestElectricityTariffsForCycle(t *testing.T) {
	tariffs := ElectricityTariffs{
		BiHourly: &BiHourlyTariff{
			OffPeakPrice:      dec("0.10"),
			OutOfOffPeakPrice: dec("0.20"),
			PowerCharges:      PowerCharges{"6.9": dec("0.30")},
		},
	}
	if _, ok := tariffs.ForCycle(CycleSimple); ok {
		t.Fatalf("expected no simple tariff")
	}
	tariff, ok := tariffs.ForCycle(CycleBiHourly)
	if !ok {
		t.Fatalf("expected bi-hourly tariff")
	}
	if !tariff.BandPrice(BandOutOfOffPeak).Equal(dec("0.20")) {
		t.Fatalf("unexpected out-of-off-peak price: %s", tariff.BandPrice(BandOutOfOffPeak))
	}
	if !tariff.BandPrice(BandPeak).IsZero() {
		t.Fatalf("expected zero for a band outside the cycle")
	}
	if !tariff.DailyPowerCharge(6.9).Equal(dec("0.30")) {
		t.Fatalf("unexpected daily charge: %s", tariff.DailyPowerCharge(6.9))
	}
	if !tariff.DailyPowerCharge(3.45).IsZero() {
		t.Fatalf("expected zero daily charge for an unpriced level")
	}
}

func TestDiscountConfigValidate(t *testing.T) {
	cfg := DiscountConfig{
		ID:         "d1",
		ProviderID: "p1",
		EnergyType: EnergyElectricity,
		Both:       DiscountPair{PowerPct: dec("101"), EnergyPct: dec("5")},
	}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidPercent) {
		t.Fatalf("expected ErrInvalidPercent, got %v", err)
	}
	cfg.Both.PowerPct = dec("100")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	cfg.Promotion.DurationMonths = -1
	if err := cfg.Validate(); !errors.Is(err, ErrNegativeValue) {
		t.Fatalf("expected ErrNegativeValue, got %v", err)
	}
}

func TestPromotionActive(t *testing.T) {
	if (Promotion{MonthlyAmount: dec("5")}).Active() {
		t.Fatalf("promotion without duration must be inactive")
	}
	if (Promotion{DurationMonths: 3}).Active() {
		t.Fatalf("promotion without amount must be inactive")
	}
	if !(Promotion{MonthlyAmount: dec("5"), DurationMonths: 3}).Active() {
		t.Fatalf("expected active promotion")
	}
}

func TestIndexDiscountsFirstWins(t *testing.T) {
	idx := IndexDiscounts([]DiscountConfig{
		{ID: "first", ProviderID: "p1", EnergyType: EnergyElectricity},
		{ID: "second", ProviderID: "p1", EnergyType: EnergyElectricity},
		{ID: "gas", ProviderID: "p1", EnergyType: EnergyGas},
	})
	got := idx.Lookup("p1", EnergyElectricity)
	if got == nil || got.ID != "first" {
		t.Fatalf("expected first config, got %+v", got)
	}
	if idx.Lookup("p2", EnergyGas) != nil {
		t.Fatalf("expected nil for unknown provider")
	}
}

func TestProviderValidateAndSameName(t *testing.T) {
	p := Provider{
		ID:          "p1",
		Name:        "  Luzboa ",
		EnergyTypes: []EnergyType{EnergyElectricity},
		Cycles:      []Cycle{CycleSimple},
		Electricity: ElectricityTariffs{Simple: &SimpleTariff{EnergyPrice: dec("-0.1")}},
	}
	if err := p.Validate(); !errors.Is(err, ErrNegativeValue) {
		t.Fatalf("expected ErrNegativeValue, got %v", err)
	}
	if !p.SameName("LUZBOA") {
		t.Fatalf("expected case-insensitive trimmed name match")
	}
	p.Gas = &GasTariff{Tiers: map[GasTier]GasTierPrice{5: {}}}
	p.Electricity.Simple.EnergyPrice = dec("0.1")
	if err := p.Validate(); !errors.Is(err, ErrInvalidGasTier) {
		t.Fatalf("expected ErrInvalidGasTier, got %v", err)
	}
}

func TestPowerChargesCanonicalKeys(t *testing.T) {
	var fromJSON SimpleTariff
	if err := json.Unmarshal([]byte(`{"energy_price":"0.15","power_charges":{"6.90":"0.35","10.350":0.51}}`), &fromJSON); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if got := fromJSON.DailyPowerCharge(6.9); !got.Equal(dec("0.35")) {
		t.Fatalf("json 6.90 key not found as 6.9: got=%s", got)
	}
	if got := fromJSON.DailyPowerCharge(10.35); !got.Equal(dec("0.51")) {
		t.Fatalf("json 10.350 key not found as 10.35: got=%s", got)
	}

	var fromYAML SimpleTariff
	doc := "energy_price: 0.15\npower_charges:\n  6.90: 0.35\n  \"3.450\": 0.19\n"
	if err := yaml.Unmarshal([]byte(doc), &fromYAML); err != nil {
		t.Fatalf("yaml decode: %v", err)
	}
	if got := fromYAML.DailyPowerCharge(6.9); !got.Equal(dec("0.35")) {
		t.Fatalf("yaml 6.90 key not found as 6.9: got=%s", got)
	}
	if got := fromYAML.DailyPowerCharge(3.45); !got.Equal(dec("0.19")) {
		t.Fatalf("yaml 3.450 key not found as 3.45: got=%s", got)
	}

	var bad SimpleTariff
	if err := json.Unmarshal([]byte(`{"power_charges":{"high":"0.35"}}`), &bad); !errors.Is(err, ErrInvalidPowerKey) {
		t.Fatalf("expected ErrInvalidPowerKey, got %v", err)
	}
	if err := json.Unmarshal([]byte(`{"power_charges":{"6.9":"0.35","6.90":"0.36"}}`), &bad); !errors.Is(err, ErrInvalidPowerKey) {
		t.Fatalf("expected ErrInvalidPowerKey for a repeated level, got %v", err)
	}
}

func TestValidateRejectsNonCanonicalPowerKey(t *testing.T) {
	p := Provider{
		ID:          "p1",
		Name:        "Luzboa",
		EnergyTypes: []EnergyType{EnergyElectricity},
		Cycles:      []Cycle{CycleSimple},
		Electricity: ElectricityTariffs{Simple: &SimpleTariff{
			EnergyPrice:  dec("0.15"),
			PowerCharges: PowerCharges{"6.90": dec("0.35")},
		}},
	}
	if err := p.Validate(); !errors.Is(err, ErrInvalidPowerKey) {
		t.Fatalf("expected ErrInvalidPowerKey, got %v", err)
	}
	p.Electricity.Simple.PowerCharges = PowerCharges{"6.9": dec("0.35")}
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}
