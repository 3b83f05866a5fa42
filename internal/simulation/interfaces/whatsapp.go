package interfaces

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"text/template"

	"energy-simulator/internal/format"
	simulation "energy-simulator/internal/simulation/domain"
)

// MessageKind selects a WhatsApp message template.
type MessageKind string

const (
	MessageContact   MessageKind = "contact"
	MessageAdhesion  MessageKind = "adhesion"
	MessageNoResults MessageKind = "no_results"
)

// ErrUnknownMessageKind is returned for an unsupported message kind.
var ErrUnknownMessageKind = errors.New("whatsapp: unknown message kind")

const DefaultContactTemplate = `Hello! I would like to know more about saving on energy.

*Simulation data:*
- Current provider: {{.CurrentProvider}}
{{- if .HasElectricity}}
- Contracted power: {{.ContractedPower}} kVA
- Daily power charge: {{.DailyPowerCharge}}
- Cycle: {{.Cycle}}
{{- end}}
{{- if .HasGas}}
- Gas tier: {{.GasTier}}
{{- end}}
- Billing days: {{.BillingDays}}
- Current cost: {{.CurrentCost}}
{{- if .Best}}

*Best option:*
- Provider: {{.Best.Provider}}
- Savings: {{.Best.Savings}} ({{.BillingDays}} days)
- Annual projection: {{.Best.AnnualSavings}}
{{- end}}

I would like more information on how to switch provider and start saving!`

const DefaultAdhesionTemplate = `Hello! I ran a simulation on your website and I want to sign up!

*Selected provider: {{.Selected.Provider}}*

*Simulation summary:*
- Current provider: {{.CurrentProvider}}
{{- if .HasElectricity}}
- Contracted power: {{.ContractedPower}} kVA
- Cycle: {{.Cycle}}
{{- end}}
- Billing days: {{.BillingDays}}
- Current cost: {{.CurrentCost}}
- Cost with {{.Selected.Provider}}: {{.Selected.Total}}
- Savings: {{.Selected.Savings}} ({{.BillingDays}} days)
- Annual projection: {{.Selected.AnnualSavings}}
{{- if or .DirectDebit .EInvoice}}

*Selected options:*
{{- if .DirectDebit}}
- Direct Debit
{{- end}}
{{- if .EInvoice}}
- E-invoice
{{- end}}
{{- end}}
{{- if .Selected.Promotion}}

*Additional campaign:*
- {{.Selected.Promotion.Description}}
- Savings over the period: {{.Selected.Promotion.PeriodSavings}}
{{- end}}

Looking forward to your contact!`

const DefaultNoResultsTemplate = `Hello, I could not complete a simulation on the website. Can you help me?`

// MessageOffer is a result as shown in a message.
type MessageOffer struct {
	Provider      string
	Total         string
	Savings       string
	AnnualSavings string
	Promotion     *MessagePromotion
}

// MessagePromotion is an eligible promotion as shown in a message.
type MessagePromotion struct {
	Description   string
	PeriodSavings string
}

// MessageData provides fields for rendering WhatsApp messages.
type MessageData struct {
	CurrentProvider  string
	HasElectricity   bool
	HasGas           bool
	ContractedPower  string
	DailyPowerCharge string
	Cycle            string
	GasTier          int
	BillingDays      int
	CurrentCost      string
	DirectDebit      bool
	EInvoice         bool
	Best             *MessageOffer
	Selected         *MessageOffer
}

// Messages renders WhatsApp messages and links.
type Messages struct {
	phone     string
	formatter *format.Formatter
	templates map[MessageKind]*template.Template
}

// MessagesOption configures Messages.
type MessagesOption func(*messagesConfig)

type messagesConfig struct {
	formatter *format.Formatter
	sources   map[MessageKind]string
}

// WithFormatter overrides the number formatter.
func WithFormatter(f *format.Formatter) MessagesOption {
	return func(c *messagesConfig) {
		if f != nil {
			c.formatter = f
		}
	}
}

// WithTemplate overrides the template of one message kind.
func WithTemplate(kind MessageKind, tpl string) MessagesOption {
	return func(c *messagesConfig) {
		if strings.TrimSpace(tpl) != "" {
			c.sources[kind] = tpl
		}
	}
}

// NewMessages parses the templates. phone may contain any formatting; only digits are kept.
func NewMessages(phone string, opts ...MessagesOption) (*Messages, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return nil, errors.New("whatsapp: empty phone number")
	}
	cfg := &messagesConfig{
		formatter: format.Default(),
		sources: map[MessageKind]string{
			MessageContact:   DefaultContactTemplate,
			MessageAdhesion:  DefaultAdhesionTemplate,
			MessageNoResults: DefaultNoResultsTemplate,
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	m := &Messages{phone: digits, formatter: cfg.formatter, templates: make(map[MessageKind]*template.Template)}
	for kind, src := range cfg.sources {
		parsed, err := template.New("whatsapp-" + string(kind)).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("whatsapp %s template: %w", kind, err)
		}
		m.templates[kind] = parsed
	}
	return m, nil
}

// Data builds template data for a comparison. selected may be nil.
func (m *Messages) Data(cmp *simulation.Comparison, selected *simulation.ComparisonResult) MessageData {
	f := m.formatter
	in := cmp.Input
	data := MessageData{
		CurrentProvider: in.CurrentProvider,
		HasElectricity:  in.Usage != nil,
		HasGas:          in.Gas != nil && in.Type != simulation.TypeElectricity,
		BillingDays:     in.BillingDays,
		CurrentCost:     f.Money(cmp.Current.Total),
		DirectDebit:     in.DirectDebit,
		EInvoice:        in.EInvoice,
	}
	if data.HasElectricity {
		data.ContractedPower = in.ContractedPower.Key()
		data.DailyPowerCharge = f.Currency(in.CurrentDailyPowerCharge, 4)
		data.Cycle = CycleLabel(in.Cycle())
	}
	if data.HasGas {
		data.GasTier = int(in.Gas.Tier)
	}
	if best := cmp.Best(); best != nil && best.Savings.IsPositive() {
		data.Best = m.offer(*best, in.BillingDays)
	}
	if selected != nil {
		data.Selected = m.offer(*selected, in.BillingDays)
	}
	return data
}

func (m *Messages) offer(res simulation.ComparisonResult, billingDays int) *MessageOffer {
	f := m.formatter
	offer := &MessageOffer{
		Provider:      res.ProviderName,
		Total:         f.Money(res.Subtotal),
		Savings:       f.Money(res.Savings),
		AnnualSavings: f.Money(simulation.AnnualProjection(res.Savings, billingDays)),
	}
	if p := res.Promotion; p != nil && p.Eligible {
		desc := p.Description
		if desc == "" {
			desc = fmt.Sprintf("%s/month for %d months", f.Money(p.MonthlyAmount), p.DurationMonths)
		}
		offer.Promotion = &MessagePromotion{Description: desc, PeriodSavings: f.Money(p.PeriodSavings)}
	}
	return offer
}

// Render applies the template of kind to data.
func (m *Messages) Render(kind MessageKind, data MessageData) (string, error) {
	if m == nil {
		return "", errors.New("whatsapp: nil messages")
	}
	tpl, ok := m.templates[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMessageKind, kind)
	}
	if kind == MessageAdhesion && data.Selected == nil {
		return "", errors.New("whatsapp: adhesion needs a selected provider")
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Link builds the wa.me URL that opens a chat with message prefilled.
func (m *Messages) Link(message string) string {
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + m.phone + "?text=" + text
}
