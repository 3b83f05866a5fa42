package simulation

import (
	"errors"
	"fmt"
	"strings"

	catalog "energy-simulator/internal/catalog/domain"

	"github.com/shopspring/decimal"
)

const (
	// DefaultBillingDays applies when the input leaves the billing period empty.
	DefaultBillingDays = 30
	// MaxBillingDays bounds the billing period.
	MaxBillingDays = 365
)

// Type selects which legs of the bill are simulated.
type Type string

const (
	TypeElectricity Type = "electricity"
	TypeGas         Type = "gas"
	TypeDual        Type = "dual"
)

// ParseType validates a simulation type.
func ParseType(raw string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(raw))); t {
	case TypeElectricity, TypeGas, TypeDual:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown simulation type %q", ErrInvalidInput, raw)
}

// Includes reports whether the simulation covers the energy type.
func (t Type) Includes(e catalog.EnergyType) bool {
	switch e {
	case catalog.EnergyElectricity:
		return t == TypeElectricity || t == TypeDual
	case catalog.EnergyGas:
		return t == TypeGas || t == TypeDual
	}
	return false
}

// Reading is the consumption and the price paid today in one band.
type Reading struct {
	KWh   decimal.Decimal
	Price decimal.Decimal
}

// BandReading is a Reading tagged with its band.
type BandReading struct {
	Band catalog.Band
	Reading
}

// Usage is the electricity consumption of one billing period. The concrete
// types are SimpleUsage, BiHourlyUsage and TriHourlyUsage.
type Usage interface {
	Cycle() catalog.Cycle
	Readings() []BandReading
	isUsage()
}

// SimpleUsage is consumption under a single-rate cycle.
type SimpleUsage struct {
	Flat Reading
}

func (SimpleUsage) Cycle() catalog.Cycle { return catalog.CycleSimple }

func (u SimpleUsage) Readings() []BandReading {
	return []BandReading{{Band: catalog.BandFlat, Reading: u.Flat}}
}

func (SimpleUsage) isUsage() {}

// BiHourlyUsage is consumption under the two-band cycle.
type BiHourlyUsage struct {
	OffPeak      Reading
	OutOfOffPeak Reading
}

func (BiHourlyUsage) Cycle() catalog.Cycle { return catalog.CycleBiHourly }

func (u BiHourlyUsage) Readings() []BandReading {
	return []BandReading{
		{Band: catalog.BandOffPeak, Reading: u.OffPeak},
		{Band: catalog.BandOutOfOffPeak, Reading: u.OutOfOffPeak},
	}
}

func (BiHourlyUsage) isUsage() {}

// TriHourlyUsage is consumption under the three-band cycle.
type TriHourlyUsage struct {
	OffPeak  Reading
	Peak     Reading
	Shoulder Reading
}

func (TriHourlyUsage) Cycle() catalog.Cycle { return catalog.CycleTriHourly }

func (u TriHourlyUsage) Readings() []BandReading {
	return []BandReading{
		{Band: catalog.BandOffPeak, Reading: u.OffPeak},
		{Band: catalog.BandPeak, Reading: u.Peak},
		{Band: catalog.BandShoulder, Reading: u.Shoulder},
	}
}

func (TriHourlyUsage) isUsage() {}

// GasUsage is the gas leg of the current bill.
type GasUsage struct {
	Tier        catalog.GasTier
	DailyCharge decimal.Decimal
	KWh         decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Input is one household's current bill.
type Input struct {
	Type                    Type
	CurrentProvider         string
	ContractedPower         catalog.ContractedPower
	CurrentDailyPowerCharge decimal.Decimal
	BillingDays             int
	Usage                   Usage
	DirectDebit             bool
	EInvoice                bool
	Gas                     *GasUsage
}

// Cycle returns the electricity cycle, empty when there is no electricity usage.
func (in Input) Cycle() catalog.Cycle {
	if in.Usage == nil {
		return ""
	}
	return in.Usage.Cycle()
}

// Normalize fills defaults.
func (in *Input) Normalize() {
	if in.BillingDays == 0 {
		in.BillingDays = DefaultBillingDays
	}
	in.CurrentProvider = strings.TrimSpace(in.CurrentProvider)
}

// Validate reports every problem found, joined.
func (in Input) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...))
	}

	if _, err := ParseType(string(in.Type)); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(in.CurrentProvider) == "" {
		add("current provider is required")
	}
	if in.BillingDays < 1 || in.BillingDays > MaxBillingDays {
		add("billing days must be between 1 and %d", MaxBillingDays)
	}

	if in.Type.Includes(catalog.EnergyElectricity) {
		if !in.ContractedPower.Valid() {
			add("contracted power %s kVA is not offered", in.ContractedPower.Key())
		}
		if !in.CurrentDailyPowerCharge.IsPositive() {
			add("current daily power charge must be positive")
		}
		if in.Usage == nil {
			add("electricity usage is required")
		} else {
			for _, r := range in.Usage.Readings() {
				if !r.KWh.IsPositive() {
					add("%s consumption must be positive", r.Band)
				}
				if !r.Price.IsPositive() {
					add("%s price must be positive", r.Band)
				}
			}
		}
	}

	if in.Type.Includes(catalog.EnergyGas) {
		if in.Gas == nil {
			add("gas usage is required")
		} else {
			if !in.Gas.Tier.Valid() {
				add("gas tier must be between %d and %d", catalog.MinGasTier, catalog.MaxGasTier)
			}
			if !in.Gas.DailyCharge.IsPositive() {
				add("gas daily charge must be positive")
			}
			if !in.Gas.KWh.IsPositive() {
				add("gas consumption must be positive")
			}
			if !in.Gas.UnitPrice.IsPositive() {
				add("gas price must be positive")
			}
		}
	}
	return errors.Join(errs...)
}
