package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/enums"
	pkgerrors "github.com/ordena-app/ordena-backend/pkg/errors"
)

// Service exposes order shell management. Line items live in their own
// lifecycle; an order only tracks who placed it and its overall status.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]OrderDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
}

// CreateInput holds the validated payload to place an order.
type CreateInput struct {
	PlacedByOrgID uuid.UUID
}

// OrderDTO is the API shape of an order shell. Items is populated only on the
// detail lookup; list responses keep it empty.
type OrderDTO struct {
	ID            uuid.UUID         `json:"id"`
	PlacedByOrgID uuid.UUID         `json:"placed_by_org_id"`
	Status        enums.OrderStatus `json:"status"`
	PlacedAt      time.Time         `json:"placed_at"`
	Items         []OrderLineDTO    `json:"items,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// OrderLineDTO is the summary of a line item embedded in an order detail.
// Item management and pricing details stay with the order item endpoints.
type OrderLineDTO struct {
	ID             uuid.UUID        `json:"id"`
	ProductID      uuid.UUID        `json:"product_id"`
	Name           string           `json:"name"`
	Quantity       int              `json:"quantity"`
	FinalUnitPrice *decimal.Decimal `json:"final_unit_price"`
	Status         enums.ItemStatus `json:"status"`
}

type orgLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
}

type service struct {
	repo *Repository
	orgs orgLoader
}

// NewService constructs the order service.
func NewService(repo *Repository, orgs orgLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if orgs == nil {
		return nil, fmt.Errorf("organization loader required")
	}
	return &service{repo: repo, orgs: orgs}, nil
}

// Create places a new empty order for an organization.
func (s *service) Create(ctx context.Context, input CreateInput) (*OrderDTO, error) {
	org, err := s.orgs.FindByID(ctx, input.PlacedByOrgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "organization not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load organization")
	}
	if org.Type != enums.OrganizationTypeCompany {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders can only be placed by companies")
	}

	created, err := s.repo.Create(ctx, &models.Order{
		PlacedByOrgID: input.PlacedByOrgID,
		Status:        enums.OrderStatusRequested,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
	}

	dto := toDTO(created)
	return &dto, nil
}

// Get returns one order with its line item summaries in creation order.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	row, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	dto := toDTO(row)
	dto.Items = make([]OrderLineDTO, 0, len(row.Items))
	for i := range row.Items {
		dto.Items = append(dto.Items, toLineDTO(&row.Items[i]))
	}
	return &dto, nil
}

// ListByOrg returns the orders placed by an organization.
func (s *service) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]OrderDTO, error) {
	if _, err := s.orgs.FindByID(ctx, orgID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "organization not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load organization")
	}
	rows, err := s.repo.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toDTO(&rows[i]))
	}
	return dtos, nil
}

// UpdateStatus moves the order to a new status.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}

	row.Status = status
	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order")
	}

	dto := toDTO(updated)
	return &dto, nil
}

func toLineDTO(row *models.OrderItem) OrderLineDTO {
	return OrderLineDTO{
		ID:             row.ID,
		ProductID:      row.ProductID,
		Name:           row.Name,
		Quantity:       row.Quantity,
		FinalUnitPrice: row.FinalUnitPrice,
		Status:         row.Status,
	}
}

func toDTO(row *models.Order) OrderDTO {
	return OrderDTO{
		ID:            row.ID,
		PlacedByOrgID: row.PlacedByOrgID,
		Status:        row.Status,
		PlacedAt:      row.PlacedAt,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
