package pricing

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/enums"
)

const testSchema = `
CREATE TABLE organizations (
    id text PRIMARY KEY,
    name text NOT NULL,
    description text,
    type text NOT NULL,
    created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE units (
    id text PRIMARY KEY,
    vendor_id text NOT NULL,
    name text NOT NULL,
    description text,
    created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE products (
    id text PRIMARY KEY,
    vendor_id text NOT NULL,
    unit_id text NOT NULL,
    name text NOT NULL,
    description text,
    base_price numeric NOT NULL,
    tags text NOT NULL DEFAULT '{}',
    created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE product_zone_adjustments (
    id text PRIMARY KEY,
    product_id text NOT NULL,
    zone_code text NOT NULL,
    adjustment_type text NOT NULL,
    amount numeric NOT NULL,
    active boolean NOT NULL DEFAULT true,
    created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX uq_zone_adjustments_active ON product_zone_adjustments (product_id, zone_code) WHERE active;
CREATE TABLE product_quantity_tiers (
    id text PRIMARY KEY,
    product_id text NOT NULL,
    min_qty integer NOT NULL,
    discount_type text NOT NULL,
    discount_amount numeric NOT NULL,
    active boolean NOT NULL DEFAULT true,
    created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.Exec(testSchema).Error; err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return conn
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, basePrice string) *models.Product {
	t.Helper()

	price, err := decimal.NewFromString(basePrice)
	if err != nil {
		t.Fatalf("parse base price: %v", err)
	}
	product := &models.Product{
		ID:        uuid.New(),
		VendorID:  uuid.New(),
		UnitID:    uuid.New(),
		Name:      fmt.Sprintf("Test Product %s", uuid.NewString()[:8]),
		BasePrice: price,
		Tags:      pq.StringArray{},
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreateZoneAdjustment(t *testing.T, tx *gorm.DB, productID uuid.UUID, zoneCode string, kind enums.AdjustmentType, amount string, active bool) *models.ProductZoneAdjustment {
	t.Helper()

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("parse amount: %v", err)
	}
	rule := &models.ProductZoneAdjustment{
		ID:             uuid.New(),
		ProductID:      productID,
		ZoneCode:       zoneCode,
		AdjustmentType: kind,
		Amount:         amt,
		Active:         active,
	}
	if err := tx.Create(rule).Error; err != nil {
		t.Fatalf("create zone adjustment: %v", err)
	}
	return rule
}

func mustCreateQuantityTier(t *testing.T, tx *gorm.DB, productID uuid.UUID, minQty int, kind enums.AdjustmentType, amount string, active bool) *models.ProductQuantityTier {
	t.Helper()

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("parse discount amount: %v", err)
	}
	tier := &models.ProductQuantityTier{
		ID:             uuid.New(),
		ProductID:      productID,
		MinQty:         minQty,
		DiscountType:   kind,
		DiscountAmount: amt,
		Active:         active,
	}
	if err := tx.Create(tier).Error; err != nil {
		t.Fatalf("create quantity tier: %v", err)
	}
	return tier
}
