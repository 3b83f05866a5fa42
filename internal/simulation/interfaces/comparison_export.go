package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	catalog "energy-simulator/internal/catalog/domain"
	"energy-simulator/internal/format"
	simulation "energy-simulator/internal/simulation/domain"
)

const pdfMaxResults = 5

// ExportOptions carries presentation details that are not part of a run.
type ExportOptions struct {
	CompanyName string
	PreparedFor string
	Formatter   *format.Formatter
}

func (o ExportOptions) formatter() *format.Formatter {
	if o.Formatter != nil {
		return o.Formatter
	}
	return format.Default()
}

// BuildComparisonPDF renders a comparison as a one-document report.
func BuildComparisonPDF(cmp *simulation.Comparison, opts ExportOptions) ([]byte, error) {
	if cmp == nil {
		return nil, fmt.Errorf("comparison pdf: nil comparison")
	}
	f := opts.formatter()
	in := cmp.Input

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	line := func(h float64, text string) {
		pdf.Cell(0, h, tr(text))
		pdf.Ln(h - 1)
	}
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	title := "Tariff Simulation"
	if opts.CompanyName != "" {
		title = opts.CompanyName + " - " + title
	}
	line(8, title)
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 11)
	line(7, "Simulation data")
	pdf.SetFont("Arial", "", 10)
	line(6, "Report date: "+cmp.GeneratedAt.Format("02/01/2006"))
	if opts.PreparedFor != "" {
		line(6, "Prepared for: "+opts.PreparedFor)
	}
	line(6, "Type: "+TypeLabel(in.Type))
	line(6, "Current provider: "+in.CurrentProvider)
	line(6, fmt.Sprintf("Billing period: %d days", in.BillingDays))
	line(6, "Scenario: "+cmp.ScenarioLabel)
	if in.Usage != nil {
		line(6, fmt.Sprintf("Contracted power: %s kVA", in.ContractedPower.Key()))
		line(6, "Daily power charge: "+f.Currency(in.CurrentDailyPowerCharge, 4)+"/day")
		line(6, "Cycle: "+CycleLabel(in.Cycle()))
		for _, r := range in.Usage.Readings() {
			line(6, fmt.Sprintf("%s: %s kWh at %s/kWh", BandLabel(r.Band), f.Number(r.KWh, 0), f.Rate(r.Price)))
		}
	}
	if in.Gas != nil && in.Type.Includes(catalog.EnergyGas) {
		line(6, fmt.Sprintf("Gas tier: %d", in.Gas.Tier))
		line(6, "Gas daily charge: "+f.Currency(in.Gas.DailyCharge, 4)+"/day")
		line(6, fmt.Sprintf("Gas consumption: %s kWh at %s/kWh", f.Number(in.Gas.KWh, 0), f.Rate(in.Gas.UnitPrice)))
	}
	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 11)
	line(7, "Current cost: "+f.Money(cmp.Current.Total))
	pdf.Ln(3)

	if cmp.NoProviders() {
		pdf.SetFont("Arial", "", 10)
		line(6, "No provider matches this profile. Contact us for a personalised proposal.")
	}

	results := cmp.Results
	if len(results) > pdfMaxResults {
		results = results[:pdfMaxResults]
	}
	for i, res := range results {
		pdf.SetFont("Arial", "B", 11)
		line(7, fmt.Sprintf("%d. %s", i+1, res.ProviderName))
		pdf.SetFont("Arial", "", 10)
		if in.Type.Includes(catalog.EnergyElectricity) {
			line(6, "Power: "+f.Money(res.PowerCost)+" ("+f.Currency(res.DailyPowerCharge, 4)+"/day)")
			for _, b := range res.Bands {
				line(6, fmt.Sprintf("  %s: %s (%s/kWh)", BandLabel(b.Band), f.Money(b.Cost), f.Rate(b.UnitRate)))
			}
			line(6, "Energy: "+f.Money(res.EnergyCost))
		}
		if res.Gas != nil {
			line(6, "Gas fixed: "+f.Money(res.Gas.FixedCost)+" ("+f.Currency(res.Gas.DailyCharge, 4)+"/day)")
			line(6, "Gas energy: "+f.Money(res.Gas.EnergyCost)+" ("+f.Rate(res.Gas.UnitPrice)+"/kWh)")
		}
		pdf.SetFont("Arial", "B", 10)
		line(6, "Total: "+f.Money(res.Subtotal)+"   "+SavingsLabel(f, res.Savings))
		pdf.SetFont("Arial", "", 10)
		if res.PotentialBothSavings != nil && res.PotentialBothSavings.IsPositive() {
			line(6, "With Direct Debit and E-invoice you would save a further "+f.Money(*res.PotentialBothSavings))
		}
		if p := res.Promotion; p != nil {
			promo := fmt.Sprintf("Promotion: -%s/month for %d months (%s in total)", f.Money(p.MonthlyAmount), p.DurationMonths, f.Money(p.PeriodSavings))
			if !p.Eligible {
				promo += ", " + RequirementsLabel(p)
			}
			line(6, promo)
		}
		pdf.Ln(2)
	}

	if best := cmp.Best(); best != nil && best.Savings.IsPositive() {
		pdf.SetFont("Arial", "B", 11)
		annual := simulation.AnnualProjection(best.Savings, in.BillingDays)
		line(7, fmt.Sprintf("Annual savings with %s: %s", best.ProviderName, f.Money(annual)))
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 8)
	line(5, "Generated "+cmp.GeneratedAt.Format(time.RFC3339)+". Values are estimates based on the data provided.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildComparisonXLSX renders a comparison as a workbook with a summary and a results sheet.
func BuildComparisonXLSX(cmp *simulation.Comparison, opts ExportOptions) ([]byte, error) {
	if cmp == nil {
		return nil, fmt.Errorf("comparison xlsx: nil comparison")
	}
	in := cmp.Input
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	summarySheet := "summary"
	resultsSheet := "results"
	_ = f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(resultsSheet); err != nil {
		return nil, err
	}

	title := "Tariff Simulation"
	if opts.CompanyName != "" {
		title = opts.CompanyName + " - " + title
	}
	summary := [][2]any{
		{"Run", cmp.RunID},
		{"Generated", cmp.GeneratedAt.Format(time.RFC3339)},
		{"Type", TypeLabel(in.Type)},
		{"Current provider", in.CurrentProvider},
		{"Billing days", in.BillingDays},
		{"Scenario", cmp.ScenarioLabel},
		{"Current electricity cost", cmp.Current.Electricity.InexactFloat64()},
		{"Current gas cost", cmp.Current.Gas.InexactFloat64()},
		{"Current cost", cmp.Current.Total.InexactFloat64()},
	}
	if opts.PreparedFor != "" {
		summary = append(summary, [2]any{"Prepared for", opts.PreparedFor})
	}
	if in.Usage != nil {
		summary = append(summary,
			[2]any{"Contracted power (kVA)", in.ContractedPower.Key()},
			[2]any{"Cycle", CycleLabel(in.Cycle())},
		)
	}
	_ = f.SetCellValue(summarySheet, "A1", title)
	for i, row := range summary {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+3), row[0])
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+3), row[1])
	}

	headers := []string{"Rank", "Provider", "Power cost", "Energy cost", "Gas cost", "Total", "Savings", "Potential DD+FE savings", "Promotion", "Promotion period savings", "Promotion eligible"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(resultsSheet, cell, h)
	}
	for i, res := range cmp.Results {
		row := i + 2
		values := []any{
			i + 1,
			res.ProviderName,
			res.PowerCost.InexactFloat64(),
			res.EnergyCost.InexactFloat64(),
			0.0,
			res.Subtotal.InexactFloat64(),
			res.Savings.InexactFloat64(),
			"",
			"",
			"",
			"",
		}
		if res.Gas != nil {
			values[4] = res.Gas.Subtotal.InexactFloat64()
		}
		if res.PotentialBothSavings != nil {
			values[7] = res.PotentialBothSavings.InexactFloat64()
		}
		if p := res.Promotion; p != nil {
			values[8] = p.Description
			values[9] = p.PeriodSavings.InexactFloat64()
			values[10] = p.Eligible
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(resultsSheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
