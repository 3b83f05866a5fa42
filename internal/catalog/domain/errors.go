package catalog

import "errors"

var (
	// ErrEmptyProviderID is returned when a provider has no id.
	ErrEmptyProviderID = errors.New("catalog: empty provider id")
	// ErrEmptyProviderName is returned when a provider has no name.
	ErrEmptyProviderName = errors.New("catalog: empty provider name")
	// ErrUnknownEnergyType is returned for an unsupported energy type.
	ErrUnknownEnergyType = errors.New("catalog: unknown energy type")
	// ErrUnknownCycle is returned for an unsupported time-of-use cycle.
	ErrUnknownCycle = errors.New("catalog: unknown cycle")
	// ErrInvalidGasTier is returned for a gas tier outside 1-4.
	ErrInvalidGasTier = errors.New("catalog: invalid gas tier")
	// ErrInvalidPercent is returned when a discount percentage is outside 0-100.
	ErrInvalidPercent = errors.New("catalog: invalid percent")
	// ErrInvalidPowerKey is returned when a power charge key is not a power level.
	ErrInvalidPowerKey = errors.New("catalog: invalid power key")
	// ErrNegativeValue is returned when a price, charge or amount is negative.
	ErrNegativeValue = errors.New("catalog: negative value")
)
