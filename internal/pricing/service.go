package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/pkg/db"
	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/enums"
	pkgerrors "github.com/ordena-app/ordena-backend/pkg/errors"
	"github.com/ordena-app/ordena-backend/pkg/metrics"
)

// Service exposes price quoting and rule management.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*Result, error)
	CreateZoneAdjustment(ctx context.Context, input CreateZoneAdjustmentInput) (*ZoneAdjustmentDTO, error)
	ListZoneAdjustments(ctx context.Context, productID uuid.UUID) ([]ZoneAdjustmentDTO, error)
	DeactivateZoneAdjustment(ctx context.Context, id uuid.UUID) error
	CreateQuantityTier(ctx context.Context, input CreateQuantityTierInput) (*QuantityTierDTO, error)
	ListQuantityTiers(ctx context.Context, productID uuid.UUID) ([]QuantityTierDTO, error)
	DeactivateQuantityTier(ctx context.Context, id uuid.UUID) error
}

// Quoter is the slice of the service order line creation depends on.
type Quoter interface {
	Quote(ctx context.Context, input QuoteInput) (*Result, error)
}

// QuoteInput identifies the product and context for one price computation.
type QuoteInput struct {
	ProductID uuid.UUID
	Quantity  int
	ZoneCode  *string
}

// CreateZoneAdjustmentInput holds the validated payload for a new zone rule.
type CreateZoneAdjustmentInput struct {
	ProductID      uuid.UUID
	ZoneCode       string
	AdjustmentType enums.AdjustmentType
	Amount         decimal.Decimal
}

// CreateQuantityTierInput holds the validated payload for a new tier rule.
type CreateQuantityTierInput struct {
	ProductID      uuid.UUID
	MinQty         int
	DiscountType   enums.AdjustmentType
	DiscountAmount decimal.Decimal
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// RuleInvalidator drops cached rules after a rule write. A nil value means
// no cache is in play.
type RuleInvalidator interface {
	InvalidateZone(ctx context.Context, productID uuid.UUID, zoneCode string)
	InvalidateTiers(ctx context.Context, productID uuid.UUID)
}

type service struct {
	repo        *Repository
	rules       RuleStore
	products    productLoader
	invalidator RuleInvalidator
	metrics     *metrics.PricingMetrics
}

// NewService constructs the pricing service. The rule store may be the
// repository itself or a cached decorator; invalidator may be nil when no
// cache is in play.
func NewService(repo *Repository, rules RuleStore, products productLoader, invalidator RuleInvalidator, pricingMetrics *metrics.PricingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	if rules == nil {
		return nil, fmt.Errorf("rule store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		repo:        repo,
		rules:       rules,
		products:    products,
		invalidator: invalidator,
		metrics:     pricingMetrics,
	}, nil
}

// Quote computes the unit price for a product, quantity, and optional zone.
func (s *service) Quote(ctx context.Context, input QuoteInput) (*Result, error) {
	started := time.Now()

	result, err := s.quote(ctx, input)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.ObserveCompute(outcome, time.Since(started))
	if err != nil {
		return nil, err
	}
	s.metrics.IncComputed(result.AppliedZone != nil, result.AppliedTier != nil)
	return result, nil
}

func (s *service) quote(ctx context.Context, input QuoteInput) (*Result, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	var zone *ZoneRule
	if input.ZoneCode != nil && strings.TrimSpace(*input.ZoneCode) != "" {
		zoneCode := strings.TrimSpace(*input.ZoneCode)
		rule, err := s.rules.FindActiveZone(ctx, input.ProductID, zoneCode)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load zone adjustment")
		}
		if rule != nil {
			zone = &ZoneRule{
				ZoneCode:       rule.ZoneCode,
				AdjustmentType: rule.AdjustmentType,
				Amount:         rule.Amount,
			}
		}
	}

	var tier *TierRule
	tierRow, err := s.rules.FindBestActiveTier(ctx, input.ProductID, input.Quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load quantity tier")
	}
	if tierRow != nil {
		tier = &TierRule{
			MinQty:         tierRow.MinQty,
			DiscountType:   tierRow.DiscountType,
			DiscountAmount: tierRow.DiscountAmount,
		}
	}

	result := ComputeUnitPrice(product.BasePrice, zone, tier)
	return &result, nil
}

// CreateZoneAdjustment registers a new active zone rule. A second active rule
// for the same (product, zone_code) pair is rejected so computations stay
// deterministic.
func (s *service) CreateZoneAdjustment(ctx context.Context, input CreateZoneAdjustmentInput) (*ZoneAdjustmentDTO, error) {
	zoneCode := strings.TrimSpace(input.ZoneCode)
	if zoneCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "zone_code is required")
	}
	if !input.AdjustmentType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid adjustment_type")
	}

	if err := s.ensureProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindActiveZone(ctx, input.ProductID, zoneCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check existing zone adjustment")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("active adjustment already exists for zone %s", zoneCode))
	}

	rule := &models.ProductZoneAdjustment{
		ProductID:      input.ProductID,
		ZoneCode:       zoneCode,
		AdjustmentType: input.AdjustmentType,
		Amount:         input.Amount,
		Active:         true,
	}
	created, err := s.repo.CreateZoneAdjustment(ctx, rule)
	if err != nil {
		// The pre-insert check above can race; the partial unique index is
		// the backstop.
		if db.IsUniqueViolation(err, ZoneAdjustmentActiveConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("active adjustment already exists for zone %s", zoneCode))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert zone adjustment")
	}
	s.invalidateZone(ctx, input.ProductID, zoneCode)

	dto := toZoneAdjustmentDTO(created)
	return &dto, nil
}

// ListZoneAdjustments returns every adjustment recorded for the product.
func (s *service) ListZoneAdjustments(ctx context.Context, productID uuid.UUID) ([]ZoneAdjustmentDTO, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListZoneAdjustments(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list zone adjustments")
	}
	dtos := make([]ZoneAdjustmentDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toZoneAdjustmentDTO(&rows[i]))
	}
	return dtos, nil
}

// DeactivateZoneAdjustment retires a zone rule without deleting its row.
func (s *service) DeactivateZoneAdjustment(ctx context.Context, id uuid.UUID) error {
	rule, err := s.repo.FindZoneAdjustmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "zone adjustment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load zone adjustment")
	}
	if err := s.repo.DeactivateZoneAdjustment(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate zone adjustment")
	}
	s.invalidateZone(ctx, rule.ProductID, rule.ZoneCode)
	return nil
}

// CreateQuantityTier registers a new active tier rule.
func (s *service) CreateQuantityTier(ctx context.Context, input CreateQuantityTierInput) (*QuantityTierDTO, error) {
	if input.MinQty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_qty must be at least 1")
	}
	if !input.DiscountType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount_type")
	}

	if err := s.ensureProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}

	tier := &models.ProductQuantityTier{
		ProductID:      input.ProductID,
		MinQty:         input.MinQty,
		DiscountType:   input.DiscountType,
		DiscountAmount: input.DiscountAmount,
		Active:         true,
	}
	created, err := s.repo.CreateQuantityTier(ctx, tier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert quantity tier")
	}
	s.invalidateTiers(ctx, input.ProductID)

	dto := toQuantityTierDTO(created)
	return &dto, nil
}

// ListQuantityTiers returns every tier recorded for the product.
func (s *service) ListQuantityTiers(ctx context.Context, productID uuid.UUID) ([]QuantityTierDTO, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListQuantityTiers(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list quantity tiers")
	}
	dtos := make([]QuantityTierDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toQuantityTierDTO(&rows[i]))
	}
	return dtos, nil
}

// DeactivateQuantityTier retires a tier rule without deleting its row.
func (s *service) DeactivateQuantityTier(ctx context.Context, id uuid.UUID) error {
	tier, err := s.repo.FindQuantityTierByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "quantity tier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load quantity tier")
	}
	if err := s.repo.DeactivateQuantityTier(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate quantity tier")
	}
	s.invalidateTiers(ctx, tier.ProductID)
	return nil
}

func (s *service) ensureProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return nil
}

func (s *service) invalidateZone(ctx context.Context, productID uuid.UUID, zoneCode string) {
	if s.invalidator == nil {
		return
	}
	s.invalidator.InvalidateZone(ctx, productID, zoneCode)
}

func (s *service) invalidateTiers(ctx context.Context, productID uuid.UUID) {
	if s.invalidator == nil {
		return
	}
	s.invalidator.InvalidateTiers(ctx, productID)
}
