package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
)

// ProductDTO is the API shape of a product listing.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	UnitID      uuid.UUID       `json:"unit_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Tags        []string        `json:"tags"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// UnitDTO is the API shape of a unit of measure.
type UnitDTO struct {
	ID          uuid.UUID `json:"id"`
	VendorID    uuid.UUID `json:"vendor_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toProductDTO(product *models.Product) ProductDTO {
	tags := make([]string, 0, len(product.Tags))
	tags = append(tags, product.Tags...)
	return ProductDTO{
		ID:          product.ID,
		VendorID:    product.VendorID,
		UnitID:      product.UnitID,
		Name:        product.Name,
		Description: product.Description,
		BasePrice:   product.BasePrice,
		Tags:        tags,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func toUnitDTO(unit *models.Unit) UnitDTO {
	return UnitDTO{
		ID:          unit.ID,
		VendorID:    unit.VendorID,
		Name:        unit.Name,
		Description: unit.Description,
		CreatedAt:   unit.CreatedAt,
	}
}
