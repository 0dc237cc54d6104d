package orderitem

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
CREATE TABLE orders (
    id text PRIMARY KEY,
    placed_by_org_id text NOT NULL,
    status text NOT NULL DEFAULT 'Requested',
    placed_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
    created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE order_items (
    id text PRIMARY KEY,
    order_id text NOT NULL,
    product_id text NOT NULL,
    name text NOT NULL,
    quantity integer NOT NULL DEFAULT 1,
    zone_code text,
    calculated_unit_price numeric,
    final_unit_price numeric,
    item_price numeric,
    pricing_source text,
    status text NOT NULL DEFAULT 'Accepted',
    created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE order_item_histories (
    id text PRIMARY KEY,
    order_item_id text NOT NULL,
    status text NOT NULL,
    old_price numeric,
    new_price numeric,
    reason text,
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
		Name:      "Crate of Apples",
		BasePrice: price,
		Tags:      pq.StringArray{},
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreateTestOrder(t *testing.T, tx *gorm.DB) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:            uuid.New(),
		PlacedByOrgID: uuid.New(),
		Status:        enums.OrderStatusRequested,
	}
	if err := tx.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func mustCreateTestItem(t *testing.T, tx *gorm.DB, orderID, productID uuid.UUID, finalPrice *string) *models.OrderItem {
	t.Helper()

	item := &models.OrderItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: productID,
		Name:      "Crate of Apples",
		Quantity:  1,
		Status:    enums.ItemStatusAccepted,
	}
	if finalPrice != nil {
		price, err := decimal.NewFromString(*finalPrice)
		if err != nil {
			t.Fatalf("parse final price: %v", err)
		}
		item.CalculatedUnitPrice = &price
		item.FinalUnitPrice = &price
		source := enums.PricingSourceAuto
		item.PricingSource = &source
	}
	if err := tx.Create(item).Error; err != nil {
		t.Fatalf("create order item: %v", err)
	}
	return item
}
