package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/enums"
)

// ZoneAdjustmentDTO is the API shape of a zone adjustment rule.
type ZoneAdjustmentDTO struct {
	ID             uuid.UUID            `json:"id"`
	ProductID      uuid.UUID            `json:"product_id"`
	ZoneCode       string               `json:"zone_code"`
	AdjustmentType enums.AdjustmentType `json:"adjustment_type"`
	Amount         decimal.Decimal      `json:"amount"`
	Active         bool                 `json:"active"`
	CreatedAt      time.Time            `json:"created_at"`
}

// QuantityTierDTO is the API shape of a quantity tier rule.
type QuantityTierDTO struct {
	ID             uuid.UUID            `json:"id"`
	ProductID      uuid.UUID            `json:"product_id"`
	MinQty         int                  `json:"min_qty"`
	DiscountType   enums.AdjustmentType `json:"discount_type"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
	Active         bool                 `json:"active"`
	CreatedAt      time.Time            `json:"created_at"`
}

func toZoneAdjustmentDTO(rule *models.ProductZoneAdjustment) ZoneAdjustmentDTO {
	return ZoneAdjustmentDTO{
		ID:             rule.ID,
		ProductID:      rule.ProductID,
		ZoneCode:       rule.ZoneCode,
		AdjustmentType: rule.AdjustmentType,
		Amount:         rule.Amount,
		Active:         rule.Active,
		CreatedAt:      rule.CreatedAt,
	}
}

func toQuantityTierDTO(tier *models.ProductQuantityTier) QuantityTierDTO {
	return QuantityTierDTO{
		ID:             tier.ID,
		ProductID:      tier.ProductID,
		MinQty:         tier.MinQty,
		DiscountType:   tier.DiscountType,
		DiscountAmount: tier.DiscountAmount,
		Active:         tier.Active,
		CreatedAt:      tier.CreatedAt,
	}
}
