package enums

import "fmt"

// AdjustmentType describes how a zone adjustment or tier discount is applied.
type AdjustmentType string

const (
	AdjustmentTypeAbsolute AdjustmentType = "Absolute"
	AdjustmentTypePercent  AdjustmentType = "Percent"
)

var validAdjustmentTypes = []AdjustmentType{
	AdjustmentTypeAbsolute,
	AdjustmentTypePercent,
}

// String implements fmt.Stringer.
func (a AdjustmentType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdjustmentType.
func (a AdjustmentType) IsValid() bool {
	for _, candidate := range validAdjustmentTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdjustmentType converts raw input into an AdjustmentType.
func ParseAdjustmentType(value string) (AdjustmentType, error) {
	for _, candidate := range validAdjustmentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid adjustment type %q", value)
}

// PricingSource marks whether a line's price came from rule evaluation or a
// manual vendor override.
type PricingSource string

const (
	PricingSourceAuto           PricingSource = "Auto"
	PricingSourceManualOverride PricingSource = "ManualOverride"
)

var validPricingSources = []PricingSource{
	PricingSourceAuto,
	PricingSourceManualOverride,
}

// String implements fmt.Stringer.
func (p PricingSource) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PricingSource.
func (p PricingSource) IsValid() bool {
	for _, candidate := range validPricingSources {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePricingSource converts raw input into a PricingSource.
func ParsePricingSource(value string) (PricingSource, error) {
	for _, candidate := range validPricingSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pricing source %q", value)
}
