package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/pkg/enums"
)

// Order is the shell a company places; its priced content lives in OrderItem.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PlacedByOrgID uuid.UUID         `gorm:"column:placed_by_org_id;type:uuid;not null"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:'Requested'"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID"`
	PlacedAt      time.Time         `gorm:"column:placed_at;autoCreateTime"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
