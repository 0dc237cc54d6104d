package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordena-app/ordena-backend/pkg/enums"
)

// OrderItemHistory is the append-only audit record for an order item. Rows
// are never updated or deleted once written; no write path other than Create
// exists for this table.
type OrderItemHistory struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderItemID uuid.UUID        `gorm:"column:order_item_id;type:uuid;not null"`
	Status      enums.ItemStatus `gorm:"column:status;not null"`
	OldPrice    *decimal.Decimal `gorm:"column:old_price;type:numeric(12,2)"`
	NewPrice    *decimal.Decimal `gorm:"column:new_price;type:numeric(12,2)"`
	Reason      *string          `gorm:"column:reason"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
}
