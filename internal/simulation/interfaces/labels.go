package interfaces

import (
	"fmt"
	"strings"

	catalog "energy-simulator/internal/catalog/domain"
	"energy-simulator/internal/format"
	simulation "energy-simulator/internal/simulation/domain"

	"github.com/shopspring/decimal"
)

var bandLabels = map[catalog.Band]string{
	catalog.BandFlat:         "Consumption",
	catalog.BandOffPeak:      "Off-peak",
	catalog.BandOutOfOffPeak: "Out of off-peak",
	catalog.BandPeak:         "Peak",
	catalog.BandShoulder:     "Shoulder",
}

var cycleLabels = map[catalog.Cycle]string{
	catalog.CycleSimple:    "Simple",
	catalog.CycleBiHourly:  "Bi-hourly",
	catalog.CycleTriHourly: "Tri-hourly",
}

var typeLabels = map[simulation.Type]string{
	simulation.TypeElectricity: "Electricity",
	simulation.TypeGas:         "Natural gas",
	simulation.TypeDual:        "Electricity + Natural gas",
}

// BandLabel names a band for people.
func BandLabel(b catalog.Band) string {
	if label, ok := bandLabels[b]; ok {
		return label
	}
	return string(b)
}

// CycleLabel names a cycle for people.
func CycleLabel(c catalog.Cycle) string {
	if label, ok := cycleLabels[c]; ok {
		return label
	}
	return string(c)
}

// TypeLabel names a simulation type for people.
func TypeLabel(t simulation.Type) string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}

// SavingsLabel describes a result against the current bill.
func SavingsLabel(f *format.Formatter, savings decimal.Decimal) string {
	switch savings.Sign() {
	case 1:
		return "Savings: " + f.Money(savings)
	case -1:
		return "More expensive: " + f.Money(savings.Abs())
	default:
		return "Same cost"
	}
}

// RequirementsLabel lists the enrolments a promotion needs, empty when none.
func RequirementsLabel(p *simulation.PromotionSummary) string {
	if p == nil {
		return ""
	}
	var parts []string
	if p.RequiresDirectDebit {
		parts = append(parts, "Direct Debit")
	}
	if p.RequiresEInvoice {
		parts = append(parts, "E-invoice")
	}
	if len(parts) == 0 {
		return ""
	}
	return "requires " + strings.Join(parts, " and ")
}

// FileName builds the download name of an export, e.g.
// Simulation_EDP_Comercial_2026-03-01.pdf.
func FileName(cmp *simulation.Comparison, ext string) string {
	provider := strings.Join(strings.Fields(cmp.Input.CurrentProvider), "_")
	if provider == "" {
		provider = "simulation"
	}
	provider = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '"' {
			return '_'
		}
		return r
	}, provider)
	return fmt.Sprintf("Simulation_%s_%s.%s", provider, cmp.GeneratedAt.Format("2006-01-02"), strings.TrimPrefix(ext, "."))
}
