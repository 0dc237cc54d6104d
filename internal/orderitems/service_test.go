package orderitem

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/internal/pricing"
	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/enums"
	pkgerrors "github.com/ordena-app/ordena-backend/pkg/errors"
)

type stubRepository struct {
	items   map[uuid.UUID]*models.OrderItem
	history []*models.OrderItemHistory
}

func newStubRepository() *stubRepository {
	return &stubRepository{items: make(map[uuid.UUID]*models.OrderItem)}
}

func (s *stubRepository) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubRepository) CreateItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	copied := *item
	s.items[item.ID] = &copied
	return item, nil
}

func (s *stubRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	if item, ok := s.items[id]; ok {
		copied := *item
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepository) UpdateItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	if _, ok := s.items[item.ID]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	s.items[item.ID] = &copied
	return item, nil
}

func (s *stubRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var rows []models.OrderItem
	for _, item := range s.items {
		if item.OrderID == orderID {
			rows = append(rows, *item)
		}
	}
	return rows, nil
}

func (s *stubRepository) AppendHistory(ctx context.Context, entry *models.OrderItemHistory) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	copied := *entry
	s.history = append(s.history, &copied)
	return nil
}

func (s *stubRepository) ListHistory(ctx context.Context, orderItemID uuid.UUID) ([]models.OrderItemHistory, error) {
	// Newest first, matching the repository ordering.
	var rows []models.OrderItemHistory
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].OrderItemID == orderItemID {
			rows = append(rows, *s.history[i])
		}
	}
	return rows, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubProducts struct {
	rows map[uuid.UUID]*models.Product
}

func (s *stubProducts) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.rows[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubOrders struct {
	rows map[uuid.UUID]*models.Order
}

func (s *stubOrders) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := s.rows[id]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubQuoter struct {
	result *pricing.Result
	err    error
}

func (s *stubQuoter) Quote(ctx context.Context, input pricing.QuoteInput) (*pricing.Result, error) {
	return s.result, s.err
}

type fixture struct {
	repo    *stubRepository
	svc     Service
	order   *models.Order
	product *models.Product
}

func newFixture(t *testing.T, unitPrice string) *fixture {
	t.Helper()

	price, err := decimal.NewFromString(unitPrice)
	if err != nil {
		t.Fatalf("parse unit price: %v", err)
	}

	order := &models.Order{ID: uuid.New(), PlacedByOrgID: uuid.New(), Status: enums.OrderStatusRequested}
	product := &models.Product{ID: uuid.New(), Name: "Crate of Apples", BasePrice: price}

	repo := newStubRepository()
	svc, err := NewService(
		repo,
		fakeTxRunner{},
		&stubProducts{rows: map[uuid.UUID]*models.Product{product.ID: product}},
		&stubOrders{rows: map[uuid.UUID]*models.Order{order.ID: order}},
		&stubQuoter{result: &pricing.Result{
			BasePrice: price,
			UnitPrice: price,
			Source:    enums.PricingSourceAuto,
		}},
		nil,
	)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return &fixture{repo: repo, svc: svc, order: order, product: product}
}

func TestCreateWritesItemAndInitialHistory(t *testing.T) {
	f := newFixture(t, "88.00")
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, CreateInput{
		OrderID:   f.order.ID,
		ProductID: f.product.ID,
		Quantity:  10,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if dto.Name != "Crate of Apples" {
		t.Fatalf("expected product name snapshot, got %q", dto.Name)
	}
	if dto.Status != enums.ItemStatusAccepted {
		t.Fatalf("expected accepted status, got %s", dto.Status)
	}
	if dto.CalculatedUnitPrice == nil || dto.FinalUnitPrice == nil {
		t.Fatal("expected both prices set")
	}
	if !dto.CalculatedUnitPrice.Equal(*dto.FinalUnitPrice) {
		t.Fatal("final price must start equal to the calculated price")
	}
	if dto.PricingSource == nil || *dto.PricingSource != enums.PricingSourceAuto {
		t.Fatalf("expected auto pricing source, got %v", dto.PricingSource)
	}

	if len(f.repo.history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(f.repo.history))
	}
	entry := f.repo.history[0]
	if entry.OldPrice != nil {
		t.Fatal("initial history entry must have no old price")
	}
	if entry.NewPrice == nil || !entry.NewPrice.Equal(decimal.NewFromFloat(88.00)) {
		t.Fatalf("expected new price 88.00, got %v", entry.NewPrice)
	}
	if entry.Reason == nil || *entry.Reason != ReasonInitialAutoPricing {
		t.Fatalf("expected initial auto pricing reason, got %v", entry.Reason)
	}
}

func TestCreateRejectsBadQuantity(t *testing.T) {
	f := newFixture(t, "10.00")

	_, err := f.svc.Create(context.Background(), CreateInput{
		OrderID:   f.order.ID,
		ProductID: f.product.ID,
		Quantity:  0,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.repo.items) != 0 {
		t.Fatal("no item should be written")
	}
}

func TestCreateUnknownOrder(t *testing.T) {
	f := newFixture(t, "10.00")

	_, err := f.svc.Create(context.Background(), CreateInput{
		OrderID:   uuid.New(),
		ProductID: f.product.ID,
		Quantity:  1,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestOverridePriceRecordsAudit(t *testing.T) {
	f := newFixture(t, "88.00")
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, CreateInput{OrderID: f.order.ID, ProductID: f.product.ID, Quantity: 10})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	reason := "damaged stock"
	updated, err := f.svc.OverridePrice(ctx, dto.ID, OverridePriceInput{
		NewPrice: decimal.NewFromInt(75),
		Reason:   &reason,
	})
	if err != nil {
		t.Fatalf("override failed: %v", err)
	}

	if updated.FinalUnitPrice == nil || !updated.FinalUnitPrice.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("expected final price 75, got %v", updated.FinalUnitPrice)
	}
	if updated.CalculatedUnitPrice == nil || !updated.CalculatedUnitPrice.Equal(decimal.NewFromFloat(88.00)) {
		t.Fatal("calculated price must survive an override")
	}
	if updated.PricingSource == nil || *updated.PricingSource != enums.PricingSourceManualOverride {
		t.Fatalf("expected manual override source, got %v", updated.PricingSource)
	}

	if len(f.repo.history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(f.repo.history))
	}
	entry := f.repo.history[1]
	if entry.OldPrice == nil || !entry.OldPrice.Equal(decimal.NewFromFloat(88.00)) {
		t.Fatalf("expected old price 88.00, got %v", entry.OldPrice)
	}
	if entry.NewPrice == nil || !entry.NewPrice.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("expected new price 75, got %v", entry.NewPrice)
	}
	if entry.Reason == nil || *entry.Reason != "damaged stock" {
		t.Fatalf("expected caller reason, got %v", entry.Reason)
	}
}

func TestOverridePriceDefaultReason(t *testing.T) {
	f := newFixture(t, "20.00")
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, CreateInput{OrderID: f.order.ID, ProductID: f.product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := f.svc.OverridePrice(ctx, dto.ID, OverridePriceInput{NewPrice: decimal.NewFromInt(20)}); err != nil {
		t.Fatalf("override failed: %v", err)
	}

	// Same price, no reason: the override is still audited.
	if len(f.repo.history) != 2 {
		t.Fatalf("expected override history even for unchanged price, got %d entries", len(f.repo.history))
	}
	entry := f.repo.history[1]
	if entry.Reason == nil || *entry.Reason != ReasonManualOverride {
		t.Fatalf("expected default reason, got %v", entry.Reason)
	}
}

func TestOverridePriceRejectsNegative(t *testing.T) {
	f := newFixture(t, "20.00")
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, CreateInput{OrderID: f.order.ID, ProductID: f.product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = f.svc.OverridePrice(ctx, dto.ID, OverridePriceInput{NewPrice: decimal.NewFromInt(-1)})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.repo.history) != 1 {
		t.Fatal("rejected override must not write history")
	}
}

func TestOverridePriceLegacyFallback(t *testing.T) {
	f := newFixture(t, "20.00")
	ctx := context.Background()

	// Rows from before the split pricing columns carry only item_price.
	legacy := decimal.NewFromFloat(12.34)
	item := &models.OrderItem{
		ID:        uuid.New(),
		OrderID:   f.order.ID,
		ProductID: f.product.ID,
		Name:      "Legacy Line",
		Quantity:  1,
		ItemPrice: &legacy,
		Status:    enums.ItemStatusAccepted,
	}
	if _, err := f.repo.CreateItem(ctx, item); err != nil {
		t.Fatalf("seed legacy item: %v", err)
	}

	if _, err := f.svc.OverridePrice(ctx, item.ID, OverridePriceInput{NewPrice: decimal.NewFromInt(10)}); err != nil {
		t.Fatalf("override failed: %v", err)
	}

	entry := f.repo.history[len(f.repo.history)-1]
	if entry.OldPrice == nil || !entry.OldPrice.Equal(legacy) {
		t.Fatalf("expected legacy item_price as old price, got %v", entry.OldPrice)
	}
}

func TestOverridePriceUnknownItem(t *testing.T) {
	f := newFixture(t, "20.00")

	_, err := f.svc.OverridePrice(context.Background(), uuid.New(), OverridePriceInput{NewPrice: decimal.NewFromInt(5)})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestUpdateStatusRecordsTransition(t *testing.T) {
	f := newFixture(t, "20.00")
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, CreateInput{OrderID: f.order.ID, ProductID: f.product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := f.svc.UpdateStatus(ctx, dto.ID, UpdateStatusInput{Status: enums.ItemStatusOutForDelivery})
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != enums.ItemStatusOutForDelivery {
		t.Fatalf("expected out for delivery, got %s", updated.Status)
	}

	entry := f.repo.history[len(f.repo.history)-1]
	if entry.Status != enums.ItemStatusOutForDelivery {
		t.Fatalf("expected history status transition, got %s", entry.Status)
	}
	if entry.OldPrice != nil || entry.NewPrice != nil {
		t.Fatal("status transitions must not record prices")
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t, "20.00")

	_, err := f.svc.UpdateStatus(context.Background(), uuid.New(), UpdateStatusInput{Status: enums.ItemStatus("Lost")})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetHistoryNewestFirst(t *testing.T) {
	f := newFixture(t, "88.00")
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, CreateInput{OrderID: f.order.ID, ProductID: f.product.ID, Quantity: 10})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.svc.OverridePrice(ctx, dto.ID, OverridePriceInput{NewPrice: decimal.NewFromInt(75)}); err != nil {
		t.Fatalf("override failed: %v", err)
	}

	history, err := f.svc.GetHistory(ctx, dto.ID)
	if err != nil {
		t.Fatalf("get history failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].Reason == nil || *history[0].Reason != ReasonManualOverride {
		t.Fatalf("expected newest entry first, got %v", history[0].Reason)
	}
	if history[1].Reason == nil || *history[1].Reason != ReasonInitialAutoPricing {
		t.Fatalf("expected creation entry last, got %v", history[1].Reason)
	}

	_, err = f.svc.GetHistory(ctx, uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for unknown item, got %v", err)
	}
}
