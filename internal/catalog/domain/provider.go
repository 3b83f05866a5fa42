package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Provider is an energy retailer and its published tariffs.
type Provider struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	LogoURL     string             `json:"logo_url,omitempty" yaml:"logo_url,omitempty"`
	Active      bool               `json:"active" yaml:"active"`
	EnergyTypes []EnergyType       `json:"energy_types" yaml:"energy_types"`
	Cycles      []Cycle            `json:"cycles" yaml:"cycles"`
	Electricity ElectricityTariffs `json:"electricity" yaml:"electricity"`
	Gas         *GasTariff         `json:"gas,omitempty" yaml:"gas,omitempty"`
	CreatedAt   time.Time          `json:"created_at" yaml:"-"`
	UpdatedAt   time.Time          `json:"updated_at" yaml:"-"`
}

// Supports reports whether the provider sells the energy type.
func (p Provider) Supports(t EnergyType) bool {
	for _, et := range p.EnergyTypes {
		if et == t {
			return true
		}
	}
	return false
}

// OffersCycle reports whether the provider advertises the cycle.
func (p Provider) OffersCycle(c Cycle) bool {
	for _, pc := range p.Cycles {
		if pc == c {
			return true
		}
	}
	return false
}

// SameName compares provider names ignoring case and surrounding spaces.
func (p Provider) SameName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(name))
}

// Validate checks identity fields, enumerations and sign of every price.
func (p Provider) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyProviderID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyProviderName
	}
	for _, et := range p.EnergyTypes {
		if _, err := ParseEnergyType(string(et)); err != nil {
			return fmt.Errorf("provider %s: %w", p.ID, err)
		}
	}
	for _, c := range p.Cycles {
		if !c.Valid() {
			return fmt.Errorf("provider %s: %w: %q", p.ID, ErrUnknownCycle, c)
		}
	}
	for _, t := range p.Electricity.all() {
		if err := validateTariff(t); err != nil {
			return fmt.Errorf("provider %s: %w", p.ID, err)
		}
	}
	if err := p.Gas.validate(); err != nil {
		return fmt.Errorf("provider %s: %w", p.ID, err)
	}
	return nil
}

// Reader reads the tariff catalog.
type Reader interface {
	ListActiveProviders(ctx context.Context) ([]Provider, error)
	ListDiscountConfigs(ctx context.Context) ([]DiscountConfig, error)
}

// Snapshot is a point-in-time copy of the whole catalog.
type Snapshot struct {
	Providers []Provider       `json:"providers" yaml:"providers"`
	Discounts []DiscountConfig `json:"discounts" yaml:"discounts"`
}

// Validate validates every provider and discount config.
func (s Snapshot) Validate() error {
	for _, p := range s.Providers {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for _, d := range s.Discounts {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ActiveProviders returns the active subset, preserving order.
func (s Snapshot) ActiveProviders() []Provider {
	out := make([]Provider, 0, len(s.Providers))
	for _, p := range s.Providers {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}
