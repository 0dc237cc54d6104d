package org

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/enums"
	pkgerrors "github.com/ordena-app/ordena-backend/pkg/errors"
)

// Service exposes organization management.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*OrganizationDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrganizationDTO, error)
	List(ctx context.Context) ([]OrganizationDTO, error)
}

// CreateInput holds the validated payload to register an organization.
type CreateInput struct {
	Name        string
	Description *string
	Type        enums.OrganizationType
}

// OrganizationDTO is the API shape of an organization.
type OrganizationDTO struct {
	ID          uuid.UUID              `json:"id"`
	Name        string                 `json:"name"`
	Description *string                `json:"description,omitempty"`
	Type        enums.OrganizationType `json:"type"`
	CreatedAt   time.Time              `json:"created_at"`
}

type service struct {
	repo *Repository
}

// NewService constructs the organization service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("organization repository required")
	}
	return &service{repo: repo}, nil
}

// Create registers a new organization.
func (s *service) Create(ctx context.Context, input CreateInput) (*OrganizationDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid organization type")
	}

	created, err := s.repo.Create(ctx, &models.Organization{
		Name:        name,
		Description: input.Description,
		Type:        input.Type,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert organization")
	}

	dto := toDTO(created)
	return &dto, nil
}

// Get returns one organization.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrganizationDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "organization not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load organization")
	}
	dto := toDTO(row)
	return &dto, nil
}

// List returns every organization.
func (s *service) List(ctx context.Context) ([]OrganizationDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list organizations")
	}
	dtos := make([]OrganizationDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toDTO(&rows[i]))
	}
	return dtos, nil
}

func toDTO(org *models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:          org.ID,
		Name:        org.Name,
		Description: org.Description,
		Type:        org.Type,
		CreatedAt:   org.CreatedAt,
	}
}
