package order

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
)

// Repository wires together order persistence.
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

// FindByID loads the order shell without its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var row models.Order
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindDetail loads the order with its items in creation order.
func (r *Repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var row models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&row, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new order row.
func (r *Repository) Create(ctx context.Context, row *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update saves the full order row.
func (r *Repository) Update(ctx context.Context, row *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// ListByOrg returns the orders placed by an organization, newest first.
func (r *Repository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Where("placed_by_org_id = ?", orgID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}
