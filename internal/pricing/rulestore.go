package pricing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
)

// ZoneAdjustmentActiveConstraint names the partial unique index that keeps at
// most one active adjustment per (product_id, zone_code).
const ZoneAdjustmentActiveConstraint = "uq_zone_adjustments_active"

// RuleStore resolves the pricing rules the engine needs for one computation.
// A nil rule with a nil error means no rule matched, which is a normal
// outcome rather than a failure.
type RuleStore interface {
	FindActiveZone(ctx context.Context, productID uuid.UUID, zoneCode string) (*models.ProductZoneAdjustment, error)
	FindBestActiveTier(ctx context.Context, productID uuid.UUID, quantity int) (*models.ProductQuantityTier, error)
}

// Repository wires together pricing rule persistence.
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

// FindActiveZone returns the active adjustment for the product and zone, or
// nil when none exists. Creation keeps at most one active row per pair, but
// if legacy data still holds several, the newest wins.
func (r *Repository) FindActiveZone(ctx context.Context, productID uuid.UUID, zoneCode string) (*models.ProductZoneAdjustment, error) {
	var rule models.ProductZoneAdjustment
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND zone_code = ? AND active = ?", productID, zoneCode, true).
		Order("created_at DESC").
		First(&rule).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// FindBestActiveTier returns the active tier with the greatest min_qty not
// exceeding the quantity, or nil when no tier qualifies. Equal min_qty rows
// resolve to the most recently created tier.
func (r *Repository) FindBestActiveTier(ctx context.Context, productID uuid.UUID, quantity int) (*models.ProductQuantityTier, error) {
	var tier models.ProductQuantityTier
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND active = ? AND min_qty <= ?", productID, true, quantity).
		Order("min_qty DESC").
		Order("created_at DESC").
		First(&tier).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

// CreateZoneAdjustment inserts a zone adjustment row.
func (r *Repository) CreateZoneAdjustment(ctx context.Context, rule *models.ProductZoneAdjustment) (*models.ProductZoneAdjustment, error) {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

// ListZoneAdjustments returns all adjustments for a product, newest first.
func (r *Repository) ListZoneAdjustments(ctx context.Context, productID uuid.UUID) ([]models.ProductZoneAdjustment, error) {
	var rows []models.ProductZoneAdjustment
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindZoneAdjustmentByID loads one adjustment row.
func (r *Repository) FindZoneAdjustmentByID(ctx context.Context, id uuid.UUID) (*models.ProductZoneAdjustment, error) {
	var rule models.ProductZoneAdjustment
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

// DeactivateZoneAdjustment flips an adjustment to inactive. Rows are kept so
// past computations stay explainable.
func (r *Repository) DeactivateZoneAdjustment(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductZoneAdjustment{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateQuantityTier inserts a quantity tier row.
func (r *Repository) CreateQuantityTier(ctx context.Context, tier *models.ProductQuantityTier) (*models.ProductQuantityTier, error) {
	if err := r.db.WithContext(ctx).Create(tier).Error; err != nil {
		return nil, err
	}
	return tier, nil
}

// ListQuantityTiers returns all tiers for a product ordered by min_qty descending.
func (r *Repository) ListQuantityTiers(ctx context.Context, productID uuid.UUID) ([]models.ProductQuantityTier, error) {
	var rows []models.ProductQuantityTier
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("min_qty DESC").
		Find(&rows).
		Error
	return rows, err
}

// ListActiveQuantityTiers returns the active tiers for a product, ordered so
// the first tier whose min_qty fits a quantity is the winning tier.
func (r *Repository) ListActiveQuantityTiers(ctx context.Context, productID uuid.UUID) ([]models.ProductQuantityTier, error) {
	var rows []models.ProductQuantityTier
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND active = ?", productID, true).
		Order("min_qty DESC").
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindQuantityTierByID loads one tier row.
func (r *Repository) FindQuantityTierByID(ctx context.Context, id uuid.UUID) (*models.ProductQuantityTier, error) {
	var tier models.ProductQuantityTier
	if err := r.db.WithContext(ctx).First(&tier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tier, nil
}

// DeactivateQuantityTier flips a tier to inactive.
func (r *Repository) DeactivateQuantityTier(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductQuantityTier{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
