package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// EnergyType is the commodity a provider sells.
type EnergyType string

const (
	EnergyElectricity EnergyType = "electricity"
	EnergyGas         EnergyType = "gas"
)

// ParseEnergyType validates an energy type.
func ParseEnergyType(raw string) (EnergyType, error) {
	switch EnergyType(strings.ToLower(strings.TrimSpace(raw))) {
	case EnergyElectricity:
		return EnergyElectricity, nil
	case EnergyGas:
		return EnergyGas, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEnergyType, raw)
}

// Cycle is the electricity time-of-use scheme.
type Cycle string

const (
	CycleSimple    Cycle = "simple"
	CycleBiHourly  Cycle = "bi-hourly"
	CycleTriHourly Cycle = "tri-hourly"
)

// Band is a time-of-use band.
type Band string

const (
	BandFlat         Band = "flat"
	BandOffPeak      Band = "off_peak"
	BandOutOfOffPeak Band = "out_of_off_peak"
	BandPeak         Band = "peak"
	BandShoulder     Band = "shoulder"
)

var cycleBands = map[Cycle][]Band{
	CycleSimple:    {BandFlat},
	CycleBiHourly:  {BandOffPeak, BandOutOfOffPeak},
	CycleTriHourly: {BandOffPeak, BandPeak, BandShoulder},
}

// ParseCycle validates a cycle.
func ParseCycle(raw string) (Cycle, error) {
	c := Cycle(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := cycleBands[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCycle, raw)
	}
	return c, nil
}

// Bands returns the bands billed under the cycle, in display order.
func (c Cycle) Bands() []Band {
	bands := cycleBands[c]
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}

// Valid reports whether the cycle is known.
func (c Cycle) Valid() bool {
	_, ok := cycleBands[c]
	return ok
}

// ContractedPower is a contracted electrical power level in kVA.
type ContractedPower float64

// ContractedPowers lists the power levels a household can contract.
var ContractedPowers = []ContractedPower{
	1.15, 2.3, 3.45, 4.6, 5.75, 6.9, 10.35, 13.8, 17.25, 20.7, 27.6, 34.5, 41.4,
}

// Valid reports whether p is one of ContractedPowers.
func (p ContractedPower) Valid() bool {
	for _, level := range ContractedPowers {
		if level == p {
			return true
		}
	}
	return false
}

// Key is the shortest decimal representation, used to index power charges ("6.9", "10.35").
func (p ContractedPower) Key() string {
	return strconv.FormatFloat(float64(p), 'f', -1, 64)
}

// GasTier is a gas consumption tier.
type GasTier int

const (
	MinGasTier GasTier = 1
	MaxGasTier GasTier = 4
)

// Valid reports whether the tier is within 1-4.
func (t GasTier) Valid() bool {
	return t >= MinGasTier && t <= MaxGasTier
}
