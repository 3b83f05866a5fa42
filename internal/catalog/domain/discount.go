package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountTier is one of the four percentage tiers of a discount config.
type DiscountTier string

const (
	TierBase                   DiscountTier = "base"
	TierDirectDebit            DiscountTier = "direct_debit"
	TierEInvoice               DiscountTier = "e_invoice"
	TierDirectDebitAndEInvoice DiscountTier = "direct_debit_e_invoice"
)

// DiscountPair holds the percentage off the fixed power charge and off the energy price.
type DiscountPair struct {
	PowerPct  decimal.Decimal `json:"power_pct" yaml:"power_pct"`
	EnergyPct decimal.Decimal `json:"energy_pct" yaml:"energy_pct"`
}

// Promotion is a flat monthly discount for a limited number of months.
type Promotion struct {
	MonthlyAmount       decimal.Decimal `json:"monthly_amount" yaml:"monthly_amount"`
	DurationMonths      int             `json:"duration_months" yaml:"duration_months"`
	Description         string          `json:"description,omitempty" yaml:"description,omitempty"`
	RequiresDirectDebit bool            `json:"requires_direct_debit" yaml:"requires_direct_debit"`
	RequiresEInvoice    bool            `json:"requires_e_invoice" yaml:"requires_e_invoice"`
}

// Active reports whether the promotion has both an amount and a duration.
func (p Promotion) Active() bool {
	return p.MonthlyAmount.IsPositive() && p.DurationMonths > 0
}

// DiscountConfig is the discount schedule of one provider for one energy type.
type DiscountConfig struct {
	ID          string       `json:"id" yaml:"id"`
	ProviderID  string       `json:"provider_id" yaml:"provider_id"`
	EnergyType  EnergyType   `json:"energy_type" yaml:"energy_type"`
	Base        DiscountPair `json:"base" yaml:"base"`
	DirectDebit DiscountPair `json:"direct_debit" yaml:"direct_debit"`
	EInvoice    DiscountPair `json:"e_invoice" yaml:"e_invoice"`
	Both        DiscountPair `json:"direct_debit_e_invoice" yaml:"direct_debit_e_invoice"`
	Promotion   Promotion    `json:"promotion" yaml:"promotion"`
	CreatedAt   time.Time    `json:"created_at" yaml:"-"`
	UpdatedAt   time.Time    `json:"updated_at" yaml:"-"`
}

// Pair returns the percentages of a tier.
func (c DiscountConfig) Pair(tier DiscountTier) DiscountPair {
	switch tier {
	case TierDirectDebit:
		return c.DirectDebit
	case TierEInvoice:
		return c.EInvoice
	case TierDirectDebitAndEInvoice:
		return c.Both
	default:
		return c.Base
	}
}

var hundred = decimal.NewFromInt(100)

// Validate checks references, percentage ranges and promotion values.
func (c DiscountConfig) Validate() error {
	if strings.TrimSpace(c.ProviderID) == "" {
		return fmt.Errorf("discount %s: %w", c.ID, ErrEmptyProviderID)
	}
	if _, err := ParseEnergyType(string(c.EnergyType)); err != nil {
		return fmt.Errorf("discount %s: %w", c.ID, err)
	}
	for _, tier := range []DiscountTier{TierBase, TierDirectDebit, TierEInvoice, TierDirectDebitAndEInvoice} {
		pair := c.Pair(tier)
		for _, pct := range []decimal.Decimal{pair.PowerPct, pair.EnergyPct} {
			if pct.IsNegative() || pct.GreaterThan(hundred) {
				return fmt.Errorf("discount %s: %w: %s %s", c.ID, ErrInvalidPercent, tier, pct)
			}
		}
	}
	if c.Promotion.MonthlyAmount.IsNegative() || c.Promotion.DurationMonths < 0 {
		return fmt.Errorf("discount %s: %w: promotion", c.ID, ErrNegativeValue)
	}
	return nil
}

type discountKey struct {
	providerID string
	energyType EnergyType
}

// Discounts indexes discount configs by provider and energy type.
type Discounts map[discountKey]DiscountConfig

// IndexDiscounts builds the index. The first config wins when a pair repeats.
func IndexDiscounts(configs []DiscountConfig) Discounts {
	idx := make(Discounts, len(configs))
	for _, c := range configs {
		key := discountKey{providerID: c.ProviderID, energyType: c.EnergyType}
		if _, exists := idx[key]; exists {
			continue
		}
		idx[key] = c
	}
	return idx
}

// Lookup returns the config for a provider and energy type, or nil.
func (d Discounts) Lookup(providerID string, t EnergyType) *DiscountConfig {
	c, ok := d[discountKey{providerID: providerID, energyType: t}]
	if !ok {
		return nil
	}
	return &c
}
