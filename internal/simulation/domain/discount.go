package simulation

import (
	catalog "energy-simulator/internal/catalog/domain"

	"github.com/shopspring/decimal"
)

// Component is the part of a bill a percentage applies to.
type Component int

const (
	// ComponentFixed is the daily power or gas standing charge.
	ComponentFixed Component = iota
	// ComponentEnergy is the per-kWh price.
	ComponentEnergy
)

type tierRule struct {
	directDebit bool
	eInvoice    bool
	tier        catalog.DiscountTier
}

// Evaluated top to bottom; the first match wins.
var tierRules = []tierRule{
	{directDebit: true, eInvoice: true, tier: catalog.TierDirectDebitAndEInvoice},
	{directDebit: true, eInvoice: false, tier: catalog.TierDirectDebit},
	{directDebit: false, eInvoice: true, tier: catalog.TierEInvoice},
	{directDebit: false, eInvoice: false, tier: catalog.TierBase},
}

// ResolveTier selects the discount tier for the enrolment options.
func ResolveTier(directDebit, eInvoice bool) catalog.DiscountTier {
	for _, rule := range tierRules {
		if rule.directDebit == directDebit && rule.eInvoice == eInvoice {
			return rule.tier
		}
	}
	return catalog.TierBase
}

// ResolvePercent returns the percentage for a component. No config means no discount.
func ResolvePercent(cfg *catalog.DiscountConfig, directDebit, eInvoice bool, component Component) decimal.Decimal {
	if cfg == nil {
		return decimal.Zero
	}
	return percentOf(cfg.Pair(ResolveTier(directDebit, eInvoice)), component)
}

func percentOf(pair catalog.DiscountPair, component Component) decimal.Decimal {
	if component == ComponentFixed {
		return pair.PowerPct
	}
	return pair.EnergyPct
}

var hundred = decimal.NewFromInt(100)

// ApplyDiscount takes pct percent off rate.
func ApplyDiscount(rate, pct decimal.Decimal) decimal.Decimal {
	if pct.IsZero() {
		return rate
	}
	return rate.Mul(decimal.NewFromInt(1).Sub(pct.Div(hundred)))
}

// DiscountedTariff is a tariff after a tier's percentages are applied.
type DiscountedTariff struct {
	DailyPowerCharge decimal.Decimal
	Rate             RateFunc
}

func discountTariff(t catalog.Tariff, power catalog.ContractedPower, pair catalog.DiscountPair) DiscountedTariff {
	return DiscountedTariff{
		DailyPowerCharge: ApplyDiscount(t.DailyPowerCharge(power), pair.PowerPct),
		Rate: func(b catalog.Band) decimal.Decimal {
			return ApplyDiscount(t.BandPrice(b), pair.EnergyPct)
		},
	}
}

// DiscountTariff applies the tier selected by the enrolment options. With no
// config the raw tariff is returned.
func DiscountTariff(t catalog.Tariff, power catalog.ContractedPower, cfg *catalog.DiscountConfig, directDebit, eInvoice bool) DiscountedTariff {
	var pair catalog.DiscountPair
	if cfg != nil {
		pair = cfg.Pair(ResolveTier(directDebit, eInvoice))
	}
	return discountTariff(t, power, pair)
}

// PotentialBothSavings is how much less the electricity leg would cost had
// the household enrolled in both direct debit and e-invoice. It reports false
// when there is no config or the household already has both. The delta is
// returned as is and may be zero or negative; the PDF mentions it only when positive.
func PotentialBothSavings(t catalog.Tariff, in Input, cfg *catalog.DiscountConfig, subtotal decimal.Decimal) (decimal.Decimal, bool) {
	if cfg == nil || (in.DirectDebit && in.EInvoice) {
		return decimal.Zero, false
	}
	both := discountTariff(t, in.ContractedPower, cfg.Both)
	bothSubtotal := FixedCharge(both.DailyPowerCharge, in.BillingDays).Add(EnergyCost(in.Usage, both.Rate).Total)
	return subtotal.Sub(bothSubtotal), true
}

// ScenarioLabel names the enrolment scenario.
func ScenarioLabel(tier catalog.DiscountTier) string {
	switch tier {
	case catalog.TierDirectDebitAndEInvoice:
		return "Base + Direct Debit + E-invoice"
	case catalog.TierDirectDebit:
		return "Base + Direct Debit"
	case catalog.TierEInvoice:
		return "Base + E-invoice"
	default:
		return "Base"
	}
}
