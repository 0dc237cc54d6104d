package orderitem

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
)

type gormRepository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{db: tx}
}

// CreateItem inserts a new order item row.
func (r *gormRepository) CreateItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads the order item without associations.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem saves the full order item row.
func (r *gormRepository) UpdateItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// ListByOrder returns the items for one order in creation order.
func (r *gormRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var rows []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// AppendHistory inserts an audit row.
func (r *gormRepository) AppendHistory(ctx context.Context, entry *models.OrderItemHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListHistory returns the audit trail newest first.
func (r *gormRepository) ListHistory(ctx context.Context, orderItemID uuid.UUID) ([]models.OrderItemHistory, error) {
	var rows []models.OrderItemHistory
	err := r.db.WithContext(ctx).
		Where("order_item_id = ?", orderItemID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}
