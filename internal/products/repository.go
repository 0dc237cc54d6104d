package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
)

// Repository wires together product and unit persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves the full product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// ListByVendor returns the vendor's products, newest first.
func (r *Repository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindUnitByID loads one unit row.
func (r *Repository) FindUnitByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	var unit models.Unit
	if err := r.db.WithContext(ctx).First(&unit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

// CreateUnit inserts a new unit row.
func (r *Repository) CreateUnit(ctx context.Context, unit *models.Unit) (*models.Unit, error) {
	if err := r.db.WithContext(ctx).Create(unit).Error; err != nil {
		return nil, err
	}
	return unit, nil
}

// ListUnitsByVendor returns the vendor's units ordered by name.
func (r *Repository) ListUnitsByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Unit, error) {
	var rows []models.Unit
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}
