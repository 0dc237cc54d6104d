package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/enums"
	pkgerrors "github.com/ordena-app/ordena-backend/pkg/errors"
)

// Service exposes vendor catalog management.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	ListProducts(ctx context.Context, vendorID uuid.UUID) ([]ProductDTO, error)
	CreateUnit(ctx context.Context, input CreateUnitInput) (*UnitDTO, error)
	ListUnits(ctx context.Context, vendorID uuid.UUID) ([]UnitDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	VendorID    uuid.UUID
	UnitID      uuid.UUID
	Name        string
	Description *string
	BasePrice   decimal.Decimal
	Tags        []string
}

// UpdateProductInput holds optional mutation values for a product. A new base
// price only affects future pricing; existing order item snapshots keep the
// price they were created with.
type UpdateProductInput struct {
	Name        *string
	Description *string
	BasePrice   *decimal.Decimal
	Tags        *[]string
}

// CreateUnitInput holds the validated payload to create a unit.
type CreateUnitInput struct {
	VendorID    uuid.UUID
	Name        string
	Description *string
}

type orgLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
}

type service struct {
	repo *Repository
	orgs orgLoader
}

// NewService constructs the catalog service.
func NewService(repo *Repository, orgs orgLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if orgs == nil {
		return nil, fmt.Errorf("organization loader required")
	}
	return &service{repo: repo, orgs: orgs}, nil
}

// CreateProduct registers a new listing for a vendor.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.BasePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base_price cannot be negative")
	}

	if err := s.ensureVendor(ctx, input.VendorID); err != nil {
		return nil, err
	}
	unit, err := s.repo.FindUnitByID(ctx, input.UnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unit not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load unit")
	}
	if unit.VendorID != input.VendorID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit belongs to a different vendor")
	}

	product := &models.Product{
		VendorID:    input.VendorID,
		UnitID:      input.UnitID,
		Name:        name,
		Description: input.Description,
		BasePrice:   input.BasePrice.Round(2),
		Tags:        pq.StringArray(normalizeTags(input.Tags)),
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}

	dto := toProductDTO(created)
	return &dto, nil
}

// GetProduct returns one listing.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	dto := toProductDTO(product)
	return &dto, nil
}

// UpdateProduct applies the provided fields to the listing.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.BasePrice != nil {
		if input.BasePrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "base_price cannot be negative")
		}
		product.BasePrice = input.BasePrice.Round(2)
	}
	if input.Tags != nil {
		product.Tags = pq.StringArray(normalizeTags(*input.Tags))
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}

	dto := toProductDTO(updated)
	return &dto, nil
}

// ListProducts returns the vendor's listings.
func (s *service) ListProducts(ctx context.Context, vendorID uuid.UUID) ([]ProductDTO, error) {
	if err := s.ensureVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toProductDTO(&rows[i]))
	}
	return dtos, nil
}

// CreateUnit registers a unit of measure for a vendor.
func (s *service) CreateUnit(ctx context.Context, input CreateUnitInput) (*UnitDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := s.ensureVendor(ctx, input.VendorID); err != nil {
		return nil, err
	}

	unit := &models.Unit{
		VendorID:    input.VendorID,
		Name:        name,
		Description: input.Description,
	}
	created, err := s.repo.CreateUnit(ctx, unit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert unit")
	}

	dto := toUnitDTO(created)
	return &dto, nil
}

// ListUnits returns the vendor's units.
func (s *service) ListUnits(ctx context.Context, vendorID uuid.UUID) ([]UnitDTO, error) {
	if err := s.ensureVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListUnitsByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list units")
	}
	dtos := make([]UnitDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toUnitDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) ensureVendor(ctx context.Context, vendorID uuid.UUID) error {
	org, err := s.orgs.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load organization")
	}
	if org.Type != enums.OrganizationTypeVendor {
		return pkgerrors.New(pkgerrors.CodeValidation, "organization is not a vendor")
	}
	return nil
}

func normalizeTags(tags []string) []string {
	clean := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		clean = append(clean, trimmed)
	}
	return clean
}
