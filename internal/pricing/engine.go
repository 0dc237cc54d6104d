package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/ordena-app/ordena-backend/pkg/enums"
)

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
)

// ZoneRule carries the zone adjustment parameters the engine evaluates.
type ZoneRule struct {
	ZoneCode       string               `json:"zone_code"`
	AdjustmentType enums.AdjustmentType `json:"adjustment_type"`
	Amount         decimal.Decimal      `json:"amount"`
}

// TierRule carries the quantity tier parameters the engine evaluates.
type TierRule struct {
	MinQty         int                  `json:"min_qty"`
	DiscountType   enums.AdjustmentType `json:"discount_type"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
}

// Result is the outcome of a unit price computation. AppliedZone and
// AppliedTier echo the rules that actually changed the price, so callers can
// explain the number without re-reading rule rows.
type Result struct {
	BasePrice   decimal.Decimal     `json:"base_price"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
	AppliedZone *ZoneRule           `json:"applied_zone,omitempty"`
	AppliedTier *TierRule           `json:"applied_tier,omitempty"`
	Source      enums.PricingSource `json:"source"`
}

// ComputeUnitPrice derives a unit price from the base price and the rules the
// caller resolved for this product, zone, and quantity. Zone adjustments apply
// before tier discounts, the price never drops below zero, and the result is
// rounded to two decimal places at the end.
func ComputeUnitPrice(basePrice decimal.Decimal, zone *ZoneRule, tier *TierRule) Result {
	price := basePrice

	if zone != nil {
		switch zone.AdjustmentType {
		case enums.AdjustmentTypePercent:
			price = price.Mul(hundred.Add(zone.Amount)).Div(hundred)
		case enums.AdjustmentTypeAbsolute:
			price = price.Add(zone.Amount)
		}
	}

	if tier != nil {
		switch tier.DiscountType {
		case enums.AdjustmentTypePercent:
			price = price.Mul(hundred.Sub(tier.DiscountAmount)).Div(hundred)
		case enums.AdjustmentTypeAbsolute:
			price = price.Sub(tier.DiscountAmount)
		}
	}

	if price.LessThan(zero) {
		price = zero
	}

	return Result{
		BasePrice:   basePrice,
		UnitPrice:   price.Round(2),
		AppliedZone: zone,
		AppliedTier: tier,
		Source:      enums.PricingSourceAuto,
	}
}
