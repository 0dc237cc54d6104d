package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/pkg/enums"
)

// Organization is a tenant: vendors list products, companies place orders,
// the app owner administers both.
type Organization struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string                 `gorm:"column:name;not null"`
	Description *string                `gorm:"column:description"`
	Type        enums.OrganizationType `gorm:"column:type;not null"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
}
