package http

import (
	"fmt"

	catalog "energy-simulator/internal/catalog/domain"
	simulation "energy-simulator/internal/simulation/domain"

	"github.com/shopspring/decimal"
)

// ReadingRequest is one band of the current bill.
type ReadingRequest struct {
	KWh   decimal.Decimal `json:"kwh"`
	Price decimal.Decimal `json:"price"`
}

// UsageRequest carries the bands of the selected cycle. Bands that do not
// belong to the cycle are ignored.
type UsageRequest struct {
	Flat         *ReadingRequest `json:"flat,omitempty"`
	OffPeak      *ReadingRequest `json:"off_peak,omitempty"`
	OutOfOffPeak *ReadingRequest `json:"out_of_off_peak,omitempty"`
	Peak         *ReadingRequest `json:"peak,omitempty"`
	Shoulder     *ReadingRequest `json:"shoulder,omitempty"`
}

// GasRequest is the gas leg of the current bill.
type GasRequest struct {
	Tier        int             `json:"tier"`
	DailyCharge decimal.Decimal `json:"daily_charge"`
	KWh         decimal.Decimal `json:"kwh"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// InputRequest is the JSON shape of a simulation input.
type InputRequest struct {
	Type                    string          `json:"type"`
	CurrentProvider         string          `json:"current_provider"`
	ContractedPower         float64         `json:"contracted_power"`
	CurrentDailyPowerCharge decimal.Decimal `json:"current_daily_power_charge"`
	BillingDays             int             `json:"billing_days"`
	Cycle                   string          `json:"cycle"`
	Usage                   UsageRequest    `json:"usage"`
	DirectDebit             bool            `json:"direct_debit"`
	EInvoice                bool            `json:"e_invoice"`
	Gas                     *GasRequest     `json:"gas,omitempty"`
}

func (r *ReadingRequest) reading() simulation.Reading {
	if r == nil {
		return simulation.Reading{KWh: decimal.Zero, Price: decimal.Zero}
	}
	return simulation.Reading{KWh: r.KWh, Price: r.Price}
}

// ToInput converts the request into a domain input. Only shape errors are
// reported here; value checks are left to Input.Validate.
func (req InputRequest) ToInput() (simulation.Input, error) {
	t, err := simulation.ParseType(req.Type)
	if err != nil {
		return simulation.Input{}, err
	}
	in := simulation.Input{
		Type:                    t,
		CurrentProvider:         req.CurrentProvider,
		ContractedPower:         catalog.ContractedPower(req.ContractedPower),
		CurrentDailyPowerCharge: req.CurrentDailyPowerCharge,
		BillingDays:             req.BillingDays,
		DirectDebit:             req.DirectDebit,
		EInvoice:                req.EInvoice,
	}

	if t.Includes(catalog.EnergyElectricity) {
		cycle, err := catalog.ParseCycle(req.Cycle)
		if err != nil {
			return simulation.Input{}, fmt.Errorf("%w: %v", simulation.ErrInvalidInput, err)
		}
		switch cycle {
		case catalog.CycleSimple:
			in.Usage = simulation.SimpleUsage{Flat: req.Usage.Flat.reading()}
		case catalog.CycleBiHourly:
			in.Usage = simulation.BiHourlyUsage{
				OffPeak:      req.Usage.OffPeak.reading(),
				OutOfOffPeak: req.Usage.OutOfOffPeak.reading(),
			}
		case catalog.CycleTriHourly:
			in.Usage = simulation.TriHourlyUsage{
				OffPeak:  req.Usage.OffPeak.reading(),
				Peak:     req.Usage.Peak.reading(),
				Shoulder: req.Usage.Shoulder.reading(),
			}
		}
	}

	if t.Includes(catalog.EnergyGas) && req.Gas != nil {
		tier := req.Gas.Tier
		if tier == 0 {
			tier = int(catalog.MinGasTier)
		}
		in.Gas = &simulation.GasUsage{
			Tier:        catalog.GasTier(tier),
			DailyCharge: req.Gas.DailyCharge,
			KWh:         req.Gas.KWh,
			UnitPrice:   req.Gas.UnitPrice,
		}
	}
	return in, nil
}

// ExportRequest is an input plus an optional provider to export alone.
type ExportRequest struct {
	InputRequest
	ProviderID string `json:"provider_id,omitempty"`
}

// WhatsAppRequest asks for a prefilled WhatsApp message.
type WhatsAppRequest struct {
	Input      *InputRequest `json:"input,omitempty"`
	Kind       string        `json:"kind"`
	ProviderID string        `json:"provider_id,omitempty"`
}

// WhatsAppResponse is a rendered message and its wa.me link.
type WhatsAppResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}
