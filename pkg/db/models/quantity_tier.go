package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordena-app/ordena-backend/pkg/enums"
)

// ProductQuantityTier grants a bulk discount once an order quantity reaches
// MinQty. The applicable tier for a quantity is the active tier with the
// greatest MinQty that does not exceed it; tiers never stack.
type ProductQuantityTier struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID      uuid.UUID            `gorm:"column:product_id;type:uuid;not null;index"`
	MinQty         int                  `gorm:"column:min_qty;not null"`
	DiscountType   enums.AdjustmentType `gorm:"column:discount_type;not null"`
	DiscountAmount decimal.Decimal      `gorm:"column:discount_amount;type:numeric(12,2);not null"`
	Active         bool                 `gorm:"column:active;not null;default:true"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
}
