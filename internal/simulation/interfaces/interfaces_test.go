package interfaces

import (
	"bytes"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	catalog "energy-simulator/internal/catalog/domain"
	"energy-simulator/internal/format"
	simulation "energy-simulator/internal/simulation/domain"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleComparison() *simulation.Comparison {
	in := simulation.Input{
		Type:                    simulation.TypeElectricity,
		CurrentProvider:         "EDP Comercial",
		ContractedPower:         6.9,
		CurrentDailyPowerCharge: dec("0.35"),
		BillingDays:             30,
		Usage:                   simulation.SimpleUsage{Flat: simulation.Reading{KWh: dec("200"), Price: dec("0.15")}},
		DirectDebit:             true,
	}
	both := dec("1.5")
	return &simulation.Comparison{
		RunID:            "run-1",
		Input:            in,
		Current:          simulation.CurrentCosts(in),
		DiscountScenario: catalog.TierDirectDebit,
		ScenarioLabel:    simulation.ScenarioLabel(catalog.TierDirectDebit),
		GeneratedAt:      time.Date(2026, time.March, 1, 9, 30, 0, 0, time.UTC),
		Results: []simulation.ComparisonResult{
			{
				ProviderID:           "luzboa",
				ProviderName:         "Luzboa",
				DailyPowerCharge:     dec("0.35"),
				PowerCost:            dec("10.5"),
				Bands:                []simulation.BandCost{{Band: catalog.BandFlat, KWh: dec("200"), UnitRate: dec("0.135"), Cost: dec("27")}},
				EnergyCost:           dec("27"),
				Subtotal:             dec("37.5"),
				Savings:              dec("3"),
				PotentialBothSavings: &both,
				Promotion: &simulation.PromotionSummary{
					MonthlyAmount:       dec("5"),
					DurationMonths:      3,
					Description:         "Welcome campaign",
					PeriodSavings:       dec("15"),
					RequiresDirectDebit: true,
					Eligible:            true,
				},
			},
			{
				ProviderID:   "galp",
				ProviderName: "Galp",
				PowerCost:    dec("12"),
				EnergyCost:   dec("30"),
				Subtotal:     dec("42"),
				Savings:      dec("-1.5"),
			},
		},
	}
}

func TestBuildComparisonPDF(t *testing.T) {
	data, err := BuildComparisonPDF(sampleComparison(), ExportOptions{CompanyName: "MP Grupo", PreparedFor: "Ana Silva"})
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected a PDF document")
	}

	empty := sampleComparison()
	empty.Results = nil
	if _, err := BuildComparisonPDF(empty, ExportOptions{}); err != nil {
		t.Fatalf("build empty pdf: %v", err)
	}
}

func TestBuildComparisonXLSX(t *testing.T) {
	data, err := BuildComparisonXLSX(sampleComparison(), ExportOptions{CompanyName: "MP Grupo"})
	if err != nil {
		t.Fatalf("build xlsx: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer func() { _ = f.Close() }()

	title, _ := f.GetCellValue("summary", "A1")
	if title != "MP Grupo - Tariff Simulation" {
		t.Fatalf("unexpected title: %q", title)
	}
	provider, _ := f.GetCellValue("results", "B2")
	if provider != "Luzboa" {
		t.Fatalf("unexpected first provider: %q", provider)
	}
	second, _ := f.GetCellValue("results", "B3")
	if second != "Galp" {
		t.Fatalf("unexpected second provider: %q", second)
	}
}

func TestFileName(t *testing.T) {
	got := FileName(sampleComparison(), "pdf")
	if got != "Simulation_EDP_Comercial_2026-03-01.pdf" {
		t.Fatalf("unexpected file name: %s", got)
	}
}

func TestSavingsLabel(t *testing.T) {
	f := format.Default()
	if got := SavingsLabel(f, dec("-2")); !strings.HasPrefix(got, "More expensive: ") {
		t.Fatalf("unexpected label: %s", got)
	}
	if got := SavingsLabel(f, decimal.Zero); got != "Same cost" {
		t.Fatalf("unexpected label: %s", got)
	}
	if got := RequirementsLabel(&simulation.PromotionSummary{RequiresDirectDebit: true}); got != "requires Direct Debit" {
		t.Fatalf("unexpected requirements label: %s", got)
	}
}

func TestContactMessageIncludesBestOnlyWhenSaving(t *testing.T) {
	m, err := NewMessages("+351 928 203 793")
	if err != nil {
		t.Fatalf("new messages: %v", err)
	}
	cmp := sampleComparison()
	msg, err := m.Render(MessageContact, m.Data(cmp, nil))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(msg, "Current provider: EDP Comercial") || !strings.Contains(msg, "Provider: Luzboa") {
		t.Fatalf("unexpected contact message:\n%s", msg)
	}

	cmp.Results = cmp.Results[1:]
	msg, err = m.Render(MessageContact, m.Data(cmp, nil))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(msg, "Best option") {
		t.Fatalf("best option must be omitted without savings:\n%s", msg)
	}
}

func TestAdhesionMessage(t *testing.T) {
	m, _ := NewMessages("351928203793")
	cmp := sampleComparison()
	selected, err := cmp.Result("luzboa")
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	msg, err := m.Render(MessageAdhesion, m.Data(cmp, selected))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Selected provider: Luzboa", "- Direct Debit", "Welcome campaign"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in adhesion message:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "E-invoice") {
		t.Fatalf("e-invoice was not selected:\n%s", msg)
	}

	if _, err := m.Render(MessageAdhesion, m.Data(cmp, nil)); err == nil {
		t.Fatalf("expected error without a selected provider")
	}
	if _, err := m.Render("unknown", MessageData{}); !errors.Is(err, ErrUnknownMessageKind) {
		t.Fatalf("expected ErrUnknownMessageKind, got %v", err)
	}
}

func TestLinkEncodesMessage(t *testing.T) {
	m, _ := NewMessages("+351 928-203-793")
	link := m.Link("Olá, ajuda? a&b")
	if !strings.HasPrefix(link, "https://wa.me/351928203793?text=") {
		t.Fatalf("unexpected link: %s", link)
	}
	if strings.Contains(link, "+") || strings.Contains(link, " ") {
		t.Fatalf("spaces must be percent-encoded: %s", link)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if got := u.Query().Get("text"); got != "Olá, ajuda? a&b" {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestNewMessagesRejectsBadInput(t *testing.T) {
	if _, err := NewMessages("n/a"); err == nil {
		t.Fatalf("expected error for a phone without digits")
	}
	if _, err := NewMessages("351", WithTemplate(MessageContact, "{{.Nope")); err == nil {
		t.Fatalf("expected template parse error")
	}
}
