package orderitem

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/enums"
)

// OrderItemDTO is the API shape of an order item.
type OrderItemDTO struct {
	ID                  uuid.UUID            `json:"id"`
	OrderID             uuid.UUID            `json:"order_id"`
	ProductID           uuid.UUID            `json:"product_id"`
	Name                string               `json:"name"`
	Quantity            int                  `json:"quantity"`
	ZoneCode            *string              `json:"zone_code,omitempty"`
	CalculatedUnitPrice *decimal.Decimal     `json:"calculated_unit_price,omitempty"`
	FinalUnitPrice      *decimal.Decimal     `json:"final_unit_price,omitempty"`
	PricingSource       *enums.PricingSource `json:"pricing_source,omitempty"`
	Status              enums.ItemStatus     `json:"status"`
	CreatedAt           time.Time            `json:"created_at"`
}

// HistoryDTO is one audit trail entry.
type HistoryDTO struct {
	ID        uuid.UUID        `json:"id"`
	Status    enums.ItemStatus `json:"status"`
	OldPrice  *decimal.Decimal `json:"old_price,omitempty"`
	NewPrice  *decimal.Decimal `json:"new_price,omitempty"`
	Reason    *string          `json:"reason,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func toOrderItemDTO(item *models.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:                  item.ID,
		OrderID:             item.OrderID,
		ProductID:           item.ProductID,
		Name:                item.Name,
		Quantity:            item.Quantity,
		ZoneCode:            item.ZoneCode,
		CalculatedUnitPrice: item.CalculatedUnitPrice,
		FinalUnitPrice:      item.FinalUnitPrice,
		PricingSource:       item.PricingSource,
		Status:              item.Status,
		CreatedAt:           item.CreatedAt,
	}
}

func toHistoryDTO(entry *models.OrderItemHistory) HistoryDTO {
	return HistoryDTO{
		ID:        entry.ID,
		Status:    entry.Status,
		OldPrice:  entry.OldPrice,
		NewPrice:  entry.NewPrice,
		Reason:    entry.Reason,
		CreatedAt: entry.CreatedAt,
	}
}
