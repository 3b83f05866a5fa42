package simulation

import (
	catalog "energy-simulator/internal/catalog/domain"

	"github.com/shopspring/decimal"
)

// RateFunc prices one band in EUR/kWh.
type RateFunc func(catalog.Band) decimal.Decimal

// BandCost is the cost of one band.
type BandCost struct {
	Band     catalog.Band    `json:"band"`
	KWh      decimal.Decimal `json:"kwh"`
	UnitRate decimal.Decimal `json:"unit_rate"`
	Cost     decimal.Decimal `json:"cost"`
}

// EnergyBreakdown is the per-band energy cost of a usage profile.
type EnergyBreakdown struct {
	Bands []BandCost
	Total decimal.Decimal
}

// EnergyCost prices every band of the usage. Bands outside the usage cycle
// are never asked for.
func EnergyCost(usage Usage, rate RateFunc) EnergyBreakdown {
	if usage == nil {
		return EnergyBreakdown{Total: decimal.Zero}
	}
	readings := usage.Readings()
	out := EnergyBreakdown{Bands: make([]BandCost, 0, len(readings)), Total: decimal.Zero}
	for _, r := range readings {
		unit := decimal.Zero
		if rate != nil {
			unit = rate(r.Band)
		}
		cost := r.KWh.Mul(unit)
		out.Bands = append(out.Bands, BandCost{Band: r.Band, KWh: r.KWh, UnitRate: unit, Cost: cost})
		out.Total = out.Total.Add(cost)
	}
	return out
}

// FixedCharge is the daily charge over the billing period.
func FixedCharge(dailyRate decimal.Decimal, days int) decimal.Decimal {
	return dailyRate.Mul(decimal.NewFromInt(int64(days)))
}

// OwnRates prices bands at what the household pays today.
func OwnRates(usage Usage) RateFunc {
	prices := make(map[catalog.Band]decimal.Decimal)
	if usage != nil {
		for _, r := range usage.Readings() {
			prices[r.Band] = r.Price
		}
	}
	return func(b catalog.Band) decimal.Decimal {
		return prices[b]
	}
}

// CurrentCost is what the household pays today for the period.
type CurrentCost struct {
	Electricity decimal.Decimal `json:"electricity"`
	Gas         decimal.Decimal `json:"gas"`
	Total       decimal.Decimal `json:"total"`
}

// CurrentCosts prices the input at its own rates. Legs outside the
// simulation type are zero.
func CurrentCosts(in Input) CurrentCost {
	cost := CurrentCost{Electricity: decimal.Zero, Gas: decimal.Zero}
	if in.Type.Includes(catalog.EnergyElectricity) {
		energy := EnergyCost(in.Usage, OwnRates(in.Usage))
		cost.Electricity = FixedCharge(in.CurrentDailyPowerCharge, in.BillingDays).Add(energy.Total)
	}
	if in.Type.Includes(catalog.EnergyGas) && in.Gas != nil {
		cost.Gas = FixedCharge(in.Gas.DailyCharge, in.BillingDays).Add(in.Gas.KWh.Mul(in.Gas.UnitPrice))
	}
	cost.Total = cost.Electricity.Add(cost.Gas)
	return cost
}
