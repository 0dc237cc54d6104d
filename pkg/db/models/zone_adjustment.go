package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordena-app/ordena-backend/pkg/enums"
)

// ProductZoneAdjustment raises or lowers a product's price for a delivery
// zone. At most one active adjustment may exist per (product, zone_code);
// the rule service enforces that at creation time rather than through a
// storage constraint.
type ProductZoneAdjustment struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID      uuid.UUID            `gorm:"column:product_id;type:uuid;not null;index"`
	ZoneCode       string               `gorm:"column:zone_code;not null"`
	AdjustmentType enums.AdjustmentType `gorm:"column:adjustment_type;not null"`
	Amount         decimal.Decimal      `gorm:"column:amount;type:numeric(12,2);not null"`
	Active         bool                 `gorm:"column:active;not null;default:true"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
}
