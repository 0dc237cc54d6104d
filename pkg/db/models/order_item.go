package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordena-app/ordena-backend/pkg/enums"
)

// OrderItem is the priced entity. CalculatedUnitPrice is the engine output
// and is never edited directly; FinalUnitPrice is what gets charged and only
// diverges from the calculated price through a manual override.
//
// ItemPrice is a legacy single-price column kept for old readers; override
// logic falls back to it when FinalUnitPrice was never set.
type OrderItem struct {
	ID                  uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID             uuid.UUID            `gorm:"column:order_id;type:uuid;not null"`
	ProductID           uuid.UUID            `gorm:"column:product_id;type:uuid;not null"`
	Name                string               `gorm:"column:name;not null"`
	Quantity            int                  `gorm:"column:quantity;not null;default:1"`
	ZoneCode            *string              `gorm:"column:zone_code"`
	CalculatedUnitPrice *decimal.Decimal     `gorm:"column:calculated_unit_price;type:numeric(12,2)"`
	FinalUnitPrice      *decimal.Decimal     `gorm:"column:final_unit_price;type:numeric(12,2)"`
	ItemPrice           *decimal.Decimal     `gorm:"column:item_price;type:numeric(12,2)"`
	PricingSource       *enums.PricingSource `gorm:"column:pricing_source"`
	Status              enums.ItemStatus     `gorm:"column:status;not null;default:'Accepted'"`
	History             []OrderItemHistory   `gorm:"foreignKey:OrderItemID"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime"`
}
