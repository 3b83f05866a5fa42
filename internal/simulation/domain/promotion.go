package simulation

import (
	"strings"

	catalog "energy-simulator/internal/catalog/domain"

	"github.com/shopspring/decimal"
)

const daysPerMonth = 30

// PromotionSummary is the effect of a flat monthly promotion on one result.
type PromotionSummary struct {
	MonthlyAmount        decimal.Decimal `json:"monthly_amount"`
	DurationMonths       int             `json:"duration_months"`
	Description          string          `json:"description,omitempty"`
	PeriodSavings        decimal.Decimal `json:"period_savings"`
	MonthlyBaseline      decimal.Decimal `json:"monthly_baseline"`
	MonthlyWithPromotion decimal.Decimal `json:"monthly_with_promotion"`
	RequiresDirectDebit  bool            `json:"requires_direct_debit"`
	RequiresEInvoice     bool            `json:"requires_e_invoice"`
	Eligible             bool            `json:"eligible"`
}

// CombinePromotions merges the active promotions of several legs: amounts
// add up, the longest duration is kept, descriptions are joined and the
// requirements of any leg apply. It reports false when none is active.
func CombinePromotions(promos ...catalog.Promotion) (catalog.Promotion, bool) {
	var (
		out          = catalog.Promotion{MonthlyAmount: decimal.Zero}
		descriptions []string
		found        bool
	)
	for _, p := range promos {
		if !p.Active() {
			continue
		}
		found = true
		out.MonthlyAmount = out.MonthlyAmount.Add(p.MonthlyAmount)
		if p.DurationMonths > out.DurationMonths {
			out.DurationMonths = p.DurationMonths
		}
		if d := strings.TrimSpace(p.Description); d != "" {
			descriptions = append(descriptions, d)
		}
		out.RequiresDirectDebit = out.RequiresDirectDebit || p.RequiresDirectDebit
		out.RequiresEInvoice = out.RequiresEInvoice || p.RequiresEInvoice
	}
	out.Description = strings.Join(descriptions, " + ")
	return out, found
}

// PromotionEligible reports whether the enrolment options meet the requirements.
func PromotionEligible(p catalog.Promotion, directDebit, eInvoice bool) bool {
	return (!p.RequiresDirectDebit || directDebit) && (!p.RequiresEInvoice || eInvoice)
}

// EvaluatePromotion summarizes an active promotion against a subtotal of
// billingDays days. It returns nil for an inactive promotion.
func EvaluatePromotion(p catalog.Promotion, directDebit, eInvoice bool, subtotal decimal.Decimal, billingDays int) *PromotionSummary {
	if !p.Active() {
		return nil
	}
	baseline := decimal.Zero
	if billingDays > 0 {
		baseline = subtotal.Mul(decimal.NewFromInt(daysPerMonth)).Div(decimal.NewFromInt(int64(billingDays)))
	}
	return &PromotionSummary{
		MonthlyAmount:        p.MonthlyAmount,
		DurationMonths:       p.DurationMonths,
		Description:          p.Description,
		PeriodSavings:        p.MonthlyAmount.Mul(decimal.NewFromInt(int64(p.DurationMonths))),
		MonthlyBaseline:      baseline,
		MonthlyWithPromotion: baseline.Sub(p.MonthlyAmount),
		RequiresDirectDebit:  p.RequiresDirectDebit,
		RequiresEInvoice:     p.RequiresEInvoice,
		Eligible:             PromotionEligible(p, directDebit, eInvoice),
	}
}
