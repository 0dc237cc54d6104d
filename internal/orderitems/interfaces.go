package orderitem

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
)

// Repository defines persistence for order items and their audit trail.
// History rows only ever go through AppendHistory; there is no update or
// delete surface for them.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	UpdateItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	AppendHistory(ctx context.Context, entry *models.OrderItemHistory) error
	ListHistory(ctx context.Context, orderItemID uuid.UUID) ([]models.OrderItemHistory, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type orderLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}
