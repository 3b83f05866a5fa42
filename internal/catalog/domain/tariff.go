package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PowerCharges maps a contracted power key to its daily charge in EUR/day.
type PowerCharges map[string]decimal.Decimal

// For returns the daily charge for p, zero when the level is not priced.
func (pc PowerCharges) For(p ContractedPower) decimal.Decimal {
	if pc == nil {
		return decimal.Zero
	}
	return pc[p.Key()]
}

// PowerKey parses a power level written in any decimal form ("6.90", " 6.9")
// and returns its canonical key.
func PowerKey(raw string) (string, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v <= 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPowerKey, raw)
	}
	return ContractedPower(v).Key(), nil
}

func canonicalPowerCharges(raw map[string]decimal.Decimal) (PowerCharges, error) {
	if raw == nil {
		return nil, nil
	}
	out := make(PowerCharges, len(raw))
	for k, v := range raw {
		key, err := PowerKey(k)
		if err != nil {
			return nil, err
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("%w: %q repeats %s", ErrInvalidPowerKey, k, key)
		}
		out[key] = v
	}
	return out, nil
}

// UnmarshalJSON re-keys the charges by ContractedPower.Key.
func (pc *PowerCharges) UnmarshalJSON(data []byte) error {
	var raw map[string]decimal.Decimal
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out, err := canonicalPowerCharges(raw)
	if err != nil {
		return err
	}
	*pc = out
	return nil
}

// UnmarshalYAML re-keys the charges by ContractedPower.Key.
func (pc *PowerCharges) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]decimal.Decimal
	if err := value.Decode(&raw); err != nil {
		return err
	}
	out, err := canonicalPowerCharges(raw)
	if err != nil {
		return err
	}
	*pc = out
	return nil
}

// Tariff is an electricity tariff for one cycle. The concrete types are
// SimpleTariff, BiHourlyTariff and TriHourlyTariff.
type Tariff interface {
	Cycle() Cycle
	DailyPowerCharge(p ContractedPower) decimal.Decimal
	BandPrice(b Band) decimal.Decimal
	isTariff()
}

// SimpleTariff prices every kWh the same.
type SimpleTariff struct {
	EnergyPrice  decimal.Decimal `json:"energy_price" yaml:"energy_price"`
	PowerCharges PowerCharges    `json:"power_charges" yaml:"power_charges"`
}

func (SimpleTariff) Cycle() Cycle { return CycleSimple }

func (t SimpleTariff) DailyPowerCharge(p ContractedPower) decimal.Decimal {
	return t.PowerCharges.For(p)
}

func (t SimpleTariff) BandPrice(b Band) decimal.Decimal {
	if b == BandFlat {
		return t.EnergyPrice
	}
	return decimal.Zero
}

func (SimpleTariff) isTariff() {}

// BiHourlyTariff splits the day into off-peak and out-of-off-peak.
type BiHourlyTariff struct {
	OffPeakPrice      decimal.Decimal `json:"off_peak_price" yaml:"off_peak_price"`
	OutOfOffPeakPrice decimal.Decimal `json:"out_of_off_peak_price" yaml:"out_of_off_peak_price"`
	PowerCharges      PowerCharges    `json:"power_charges" yaml:"power_charges"`
}

func (BiHourlyTariff) Cycle() Cycle { return CycleBiHourly }

func (t BiHourlyTariff) DailyPowerCharge(p ContractedPower) decimal.Decimal {
	return t.PowerCharges.For(p)
}

func (t BiHourlyTariff) BandPrice(b Band) decimal.Decimal {
	switch b {
	case BandOffPeak:
		return t.OffPeakPrice
	case BandOutOfOffPeak:
		return t.OutOfOffPeakPrice
	}
	return decimal.Zero
}

func (BiHourlyTariff) isTariff() {}

// TriHourlyTariff splits the day into off-peak, peak and shoulder.
type TriHourlyTariff struct {
	OffPeakPrice  decimal.Decimal `json:"off_peak_price" yaml:"off_peak_price"`
	PeakPrice     decimal.Decimal `json:"peak_price" yaml:"peak_price"`
	ShoulderPrice decimal.Decimal `json:"shoulder_price" yaml:"shoulder_price"`
	PowerCharges  PowerCharges    `json:"power_charges" yaml:"power_charges"`
}

func (TriHourlyTariff) Cycle() Cycle { return CycleTriHourly }

func (t TriHourlyTariff) DailyPowerCharge(p ContractedPower) decimal.Decimal {
	return t.PowerCharges.For(p)
}

func (t TriHourlyTariff) BandPrice(b Band) decimal.Decimal {
	switch b {
	case BandOffPeak:
		return t.OffPeakPrice
	case BandPeak:
		return t.PeakPrice
	case BandShoulder:
		return t.ShoulderPrice
	}
	return decimal.Zero
}

func (TriHourlyTariff) isTariff() {}

// ElectricityTariffs holds at most one tariff per cycle.
type ElectricityTariffs struct {
	Simple    *SimpleTariff    `json:"simple,omitempty" yaml:"simple,omitempty"`
	BiHourly  *BiHourlyTariff  `json:"bi_hourly,omitempty" yaml:"bi_hourly,omitempty"`
	TriHourly *TriHourlyTariff `json:"tri_hourly,omitempty" yaml:"tri_hourly,omitempty"`
}

// ForCycle returns the tariff for c, or false when the provider has none.
func (t ElectricityTariffs) ForCycle(c Cycle) (Tariff, bool) {
	switch c {
	case CycleSimple:
		if t.Simple != nil {
			return *t.Simple, true
		}
	case CycleBiHourly:
		if t.BiHourly != nil {
			return *t.BiHourly, true
		}
	case CycleTriHourly:
		if t.TriHourly != nil {
			return *t.TriHourly, true
		}
	}
	return nil, false
}

func (t ElectricityTariffs) all() []Tariff {
	var out []Tariff
	for _, c := range []Cycle{CycleSimple, CycleBiHourly, CycleTriHourly} {
		if tariff, ok := t.ForCycle(c); ok {
			out = append(out, tariff)
		}
	}
	return out
}

// GasTierPrice is the gas price for one tier.
type GasTierPrice struct {
	DailyCharge decimal.Decimal `json:"daily_charge" yaml:"daily_charge"`
	UnitPrice   decimal.Decimal `json:"unit_price" yaml:"unit_price"`
}

// GasTariff prices gas per consumption tier.
type GasTariff struct {
	Tiers map[GasTier]GasTierPrice `json:"tiers" yaml:"tiers"`
}

// ForTier returns the tier price, or false when the tier is not priced.
func (g *GasTariff) ForTier(t GasTier) (GasTierPrice, bool) {
	if g == nil || g.Tiers == nil {
		return GasTierPrice{}, false
	}
	price, ok := g.Tiers[t]
	return price, ok
}

func validateTariff(t Tariff) error {
	for _, b := range t.Cycle().Bands() {
		if t.BandPrice(b).IsNegative() {
			return fmt.Errorf("%w: %s %s price", ErrNegativeValue, t.Cycle(), b)
		}
	}
	var charges PowerCharges
	switch v := t.(type) {
	case SimpleTariff:
		charges = v.PowerCharges
	case BiHourlyTariff:
		charges = v.PowerCharges
	case TriHourlyTariff:
		charges = v.PowerCharges
	}
	for key, charge := range charges {
		if canonical, err := PowerKey(key); err != nil || canonical != key {
			return fmt.Errorf("%w: %s power charge %q", ErrInvalidPowerKey, t.Cycle(), key)
		}
		if charge.IsNegative() {
			return fmt.Errorf("%w: %s power charge %s", ErrNegativeValue, t.Cycle(), key)
		}
	}
	return nil
}

func (g *GasTariff) validate() error {
	if g == nil {
		return nil
	}
	for tier, price := range g.Tiers {
		if !tier.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidGasTier, tier)
		}
		if price.DailyCharge.IsNegative() || price.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: gas tier %d", ErrNegativeValue, tier)
		}
	}
	return nil
}
