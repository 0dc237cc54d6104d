package orderitem

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/internal/pricing"
	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/enums"
	pkgerrors "github.com/ordena-app/ordena-backend/pkg/errors"
	"github.com/ordena-app/ordena-backend/pkg/metrics"
)

// History reasons written by the lifecycle operations. Override callers may
// supply their own reason; creation always records the auto pricing entry.
const (
	ReasonInitialAutoPricing = "Initial auto pricing"
	ReasonManualOverride     = "Manual override"
)

// Service exposes the order item lifecycle.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*OrderItemDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderItemDTO, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItemDTO, error)
	OverridePrice(ctx context.Context, id uuid.UUID, input OverridePriceInput) (*OrderItemDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*OrderItemDTO, error)
	GetHistory(ctx context.Context, id uuid.UUID) ([]HistoryDTO, error)
}

// CreateInput holds the validated payload for a new order item.
type CreateInput struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	ZoneCode  *string
}

// OverridePriceInput carries a manual unit price correction.
type OverridePriceInput struct {
	NewPrice decimal.Decimal
	Reason   *string
}

// UpdateStatusInput carries a fulfillment status transition.
type UpdateStatusInput struct {
	Status enums.ItemStatus
	Reason *string
}

type service struct {
	repo     Repository
	tx       txRunner
	products productLoader
	orders   orderLoader
	quoter   pricing.Quoter
	metrics  *metrics.PricingMetrics
}

// NewService constructs the order item service.
func NewService(repo Repository, tx txRunner, products productLoader, orders orderLoader, quoter pricing.Quoter, pricingMetrics *metrics.PricingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order item repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order loader required")
	}
	if quoter == nil {
		return nil, fmt.Errorf("price quoter required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		products: products,
		orders:   orders,
		quoter:   quoter,
		metrics:  pricingMetrics,
	}, nil
}

// Create prices the line through the engine and persists the item together
// with its first history entry in one transaction.
func (s *service) Create(ctx context.Context, input CreateInput) (*OrderItemDTO, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if _, err := s.orders.FindByID(ctx, input.OrderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	quote, err := s.quoter.Quote(ctx, pricing.QuoteInput{
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		ZoneCode:  input.ZoneCode,
	})
	if err != nil {
		return nil, err
	}

	unitPrice := quote.UnitPrice
	source := enums.PricingSourceAuto

	var created *models.OrderItem
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		item := &models.OrderItem{
			OrderID:             input.OrderID,
			ProductID:           input.ProductID,
			Name:                product.Name,
			Quantity:            input.Quantity,
			ZoneCode:            input.ZoneCode,
			CalculatedUnitPrice: &unitPrice,
			FinalUnitPrice:      &unitPrice,
			PricingSource:       &source,
			Status:              enums.ItemStatusAccepted,
		}
		item, err := txRepo.CreateItem(ctx, item)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order item")
		}

		reason := ReasonInitialAutoPricing
		entry := &models.OrderItemHistory{
			OrderItemID: item.ID,
			Status:      item.Status,
			NewPrice:    &unitPrice,
			Reason:      &reason,
		}
		if err := txRepo.AppendHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append history")
		}

		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toOrderItemDTO(created)
	return &dto, nil
}

// Get returns one order item.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderItemDTO, error) {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toOrderItemDTO(item)
	return &dto, nil
}

// ListByOrder returns the items belonging to an order.
func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItemDTO, error) {
	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	rows, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list order items")
	}
	dtos := make([]OrderItemDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toOrderItemDTO(&rows[i]))
	}
	return dtos, nil
}

// OverridePrice replaces the charged unit price with a manual value and
// records the correction. The calculated price is left untouched so the
// engine output stays visible next to the override. A history row is written
// even when the new price equals the old one; the act of overriding is what
// gets audited.
func (s *service) OverridePrice(ctx context.Context, id uuid.UUID, input OverridePriceInput) (*OrderItemDTO, error) {
	if input.NewPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}

	newPrice := input.NewPrice.Round(2)
	oldPrice := effectivePrice(item)
	source := enums.PricingSourceManualOverride

	reason := ReasonManualOverride
	if input.Reason != nil && strings.TrimSpace(*input.Reason) != "" {
		reason = strings.TrimSpace(*input.Reason)
	}

	var updated *models.OrderItem
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		item.FinalUnitPrice = &newPrice
		item.PricingSource = &source
		item, err := txRepo.UpdateItem(ctx, item)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order item")
		}

		entry := &models.OrderItemHistory{
			OrderItemID: item.ID,
			Status:      item.Status,
			OldPrice:    oldPrice,
			NewPrice:    &newPrice,
			Reason:      &reason,
		}
		if err := txRepo.AppendHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append history")
		}

		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncOverride()

	dto := toOrderItemDTO(updated)
	return &dto, nil
}

// UpdateStatus moves the item to a new fulfillment status and records the
// transition with no price change.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*OrderItemDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}

	var reason *string
	if input.Reason != nil && strings.TrimSpace(*input.Reason) != "" {
		trimmed := strings.TrimSpace(*input.Reason)
		reason = &trimmed
	}

	var updated *models.OrderItem
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		item.Status = input.Status
		item, err := txRepo.UpdateItem(ctx, item)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order item")
		}

		entry := &models.OrderItemHistory{
			OrderItemID: item.ID,
			Status:      input.Status,
			Reason:      reason,
		}
		if err := txRepo.AppendHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append history")
		}

		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toOrderItemDTO(updated)
	return &dto, nil
}

// GetHistory returns the audit trail, newest entry first.
func (s *service) GetHistory(ctx context.Context, id uuid.UUID) ([]HistoryDTO, error) {
	if _, err := s.loadItem(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListHistory(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list history")
	}
	dtos := make([]HistoryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toHistoryDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) loadItem(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order item")
	}
	return item, nil
}

// effectivePrice is the price currently charged for the item. Rows written
// before the split pricing columns existed only carry ItemPrice, so override
// audits fall back to it.
func effectivePrice(item *models.OrderItem) *decimal.Decimal {
	if item.FinalUnitPrice != nil {
		return item.FinalUnitPrice
	}
	return item.ItemPrice
}
