package simulation

import (
	"sort"
	"time"

	catalog "energy-simulator/internal/catalog/domain"

	"github.com/shopspring/decimal"
)

// DefaultResultLimit is how many results a comparison keeps.
const DefaultResultLimit = 3

// GasCost is the gas leg of a result, priced after discounts.
type GasCost struct {
	DailyCharge decimal.Decimal `json:"daily_charge"`
	FixedCost   decimal.Decimal `json:"fixed_cost"`
	EnergyCost  decimal.Decimal `json:"energy_cost"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ComparisonResult is the projected cost of switching to one provider.
type ComparisonResult struct {
	ProviderID       string               `json:"provider_id"`
	ProviderName     string               `json:"provider_name"`
	LogoURL          string               `json:"logo_url,omitempty"`
	DiscountTier     catalog.DiscountTier `json:"discount_tier"`
	DailyPowerCharge decimal.Decimal      `json:"daily_power_charge"`
	PowerCost        decimal.Decimal      `json:"power_cost"`
	Bands            []BandCost           `json:"bands,omitempty"`
	EnergyCost       decimal.Decimal      `json:"energy_cost"`
	Subtotal         decimal.Decimal      `json:"subtotal"`
	Savings          decimal.Decimal      `json:"savings"`

	PotentialBothSavings *decimal.Decimal  `json:"potential_direct_debit_e_invoice_savings,omitempty"`
	Promotion            *PromotionSummary `json:"promotion,omitempty"`

	ElectricitySubtotal *decimal.Decimal `json:"electricity_subtotal,omitempty"`
	GasSubtotal         *decimal.Decimal `json:"gas_subtotal,omitempty"`
	Gas                 *GasCost         `json:"gas,omitempty"`
}

// Eligible reports whether a provider may be quoted for the input: it is
// active, sells every leg of the simulation, offers the cycle when
// electricity is simulated, and is not the household's current provider.
func Eligible(p catalog.Provider, in Input) bool {
	if !p.Active || p.SameName(in.CurrentProvider) {
		return false
	}
	if in.Type.Includes(catalog.EnergyElectricity) {
		if !p.Supports(catalog.EnergyElectricity) || !p.OffersCycle(in.Cycle()) {
			return false
		}
	}
	if in.Type.Includes(catalog.EnergyGas) && !p.Supports(catalog.EnergyGas) {
		return false
	}
	return true
}

// Quote computes the result of switching to p. It reports false when p
// lacks the tariff the input needs.
func Quote(in Input, p catalog.Provider, discounts catalog.Discounts, current CurrentCost) (ComparisonResult, bool) {
	res := ComparisonResult{
		ProviderID:       p.ID,
		ProviderName:     p.Name,
		LogoURL:          p.LogoURL,
		DiscountTier:     ResolveTier(in.DirectDebit, in.EInvoice),
		DailyPowerCharge: decimal.Zero,
		PowerCost:        decimal.Zero,
		EnergyCost:       decimal.Zero,
	}
	var promos []catalog.Promotion

	electricity := decimal.Zero
	if in.Type.Includes(catalog.EnergyElectricity) {
		tariff, ok := p.Electricity.ForCycle(in.Cycle())
		if !ok {
			return ComparisonResult{}, false
		}
		cfg := discounts.Lookup(p.ID, catalog.EnergyElectricity)
		discounted := DiscountTariff(tariff, in.ContractedPower, cfg, in.DirectDebit, in.EInvoice)
		energy := EnergyCost(in.Usage, discounted.Rate)

		res.DailyPowerCharge = discounted.DailyPowerCharge
		res.PowerCost = FixedCharge(discounted.DailyPowerCharge, in.BillingDays)
		res.Bands = energy.Bands
		res.EnergyCost = energy.Total
		electricity = res.PowerCost.Add(res.EnergyCost)

		if potential, ok := PotentialBothSavings(tariff, in, cfg, electricity); ok {
			res.PotentialBothSavings = &potential
		}
		if cfg != nil {
			promos = append(promos, cfg.Promotion)
		}
	}

	gas := decimal.Zero
	if in.Type.Includes(catalog.EnergyGas) {
		if in.Gas == nil {
			return ComparisonResult{}, false
		}
		price, ok := p.Gas.ForTier(in.Gas.Tier)
		if !ok {
			return ComparisonResult{}, false
		}
		cfg := discounts.Lookup(p.ID, catalog.EnergyGas)
		daily := ApplyDiscount(price.DailyCharge, ResolvePercent(cfg, in.DirectDebit, in.EInvoice, ComponentFixed))
		unit := ApplyDiscount(price.UnitPrice, ResolvePercent(cfg, in.DirectDebit, in.EInvoice, ComponentEnergy))
		leg := GasCost{
			DailyCharge: daily,
			FixedCost:   FixedCharge(daily, in.BillingDays),
			EnergyCost:  in.Gas.KWh.Mul(unit),
			UnitPrice:   unit,
		}
		leg.Subtotal = leg.FixedCost.Add(leg.EnergyCost)
		res.Gas = &leg
		gas = leg.Subtotal
		if cfg != nil {
			promos = append(promos, cfg.Promotion)
		}
	}

	res.Subtotal = electricity.Add(gas)
	res.Savings = current.Total.Sub(res.Subtotal)
	if in.Type == TypeDual {
		res.ElectricitySubtotal = &electricity
		res.GasSubtotal = &gas
	}
	if promo, ok := CombinePromotions(promos...); ok {
		res.Promotion = EvaluatePromotion(promo, in.DirectDebit, in.EInvoice, res.Subtotal, in.BillingDays)
	}
	return res, true
}

// Rank orders results by savings, largest first, keeping ties in input
// order, and keeps at most limit of them.
func Rank(results []ComparisonResult, limit int) []ComparisonResult {
	sorted := make([]ComparisonResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Savings.GreaterThan(sorted[j].Savings)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// Comparison is one simulation run.
type Comparison struct {
	RunID            string               `json:"run_id"`
	Input            Input                `json:"-"`
	Current          CurrentCost          `json:"current_cost"`
	DiscountScenario catalog.DiscountTier `json:"discount_scenario"`
	ScenarioLabel    string               `json:"scenario_label"`
	Results          []ComparisonResult   `json:"results"`
	GeneratedAt      time.Time            `json:"generated_at"`
}

// NoProviders reports whether no provider could be quoted.
func (c Comparison) NoProviders() bool {
	return len(c.Results) == 0
}

// Best returns the first ranked result, or nil.
func (c Comparison) Best() *ComparisonResult {
	if len(c.Results) == 0 {
		return nil
	}
	best := c.Results[0]
	return &best
}

// Result returns the result for a provider.
func (c Comparison) Result(providerID string) (*ComparisonResult, error) {
	for i := range c.Results {
		if c.Results[i].ProviderID == providerID {
			res := c.Results[i]
			return &res, nil
		}
	}
	return nil, ErrResultNotFound
}

// AnnualProjection extrapolates a period amount to a year.
func AnnualProjection(amount decimal.Decimal, billingDays int) decimal.Decimal {
	if billingDays <= 0 {
		return decimal.Zero
	}
	return amount.Mul(decimal.NewFromInt(365)).Div(decimal.NewFromInt(int64(billingDays)))
}
