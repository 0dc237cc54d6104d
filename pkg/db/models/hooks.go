package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IDs are assigned client-side when the caller did not set one, so inserts
// also work on databases without gen_random_uuid (the sqlite test setup).

func (o *Organization) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

func (u *Unit) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

func (h *OrderItemHistory) BeforeCreate(*gorm.DB) error {
	ensureID(&h.ID)
	return nil
}

func (a *ProductZoneAdjustment) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

func (t *ProductQuantityTier) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
