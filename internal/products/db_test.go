package product

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
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

func mustCreateTestOrg(t *testing.T, tx *gorm.DB, orgType enums.OrganizationType) *models.Organization {
	t.Helper()

	org := &models.Organization{
		ID:   uuid.New(),
		Name: fmt.Sprintf("Org %s", uuid.NewString()[:8]),
		Type: orgType,
	}
	if err := tx.Create(org).Error; err != nil {
		t.Fatalf("create organization: %v", err)
	}
	return org
}

func mustCreateTestUnit(t *testing.T, tx *gorm.DB, vendorID uuid.UUID) *models.Unit {
	t.Helper()

	unit := &models.Unit{
		ID:       uuid.New(),
		VendorID: vendorID,
		Name:     "Crate",
	}
	if err := tx.Create(unit).Error; err != nil {
		t.Fatalf("create unit: %v", err)
	}
	return unit
}
