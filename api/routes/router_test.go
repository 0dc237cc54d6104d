package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	orderitem "github.com/ordena-app/ordena-backend/internal/orderitems"
	ordersvc "github.com/ordena-app/ordena-backend/internal/orders"
	org "github.com/ordena-app/ordena-backend/internal/orgs"
	"github.com/ordena-app/ordena-backend/internal/pricing"
	productsvc "github.com/ordena-app/ordena-backend/internal/products"
	"github.com/ordena-app/ordena-backend/pkg/config"
	"github.com/ordena-app/ordena-backend/pkg/enums"
	"github.com/ordena-app/ordena-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

func newTestRouter(t *testing.T, pricingService pricing.Service) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	if pricingService == nil {
		pricingService = stubPricingService{}
	}
	return NewRouter(
		cfg, logg, stubPinger{}, stubPinger{},
		stubOrgService{}, stubProductService{}, stubOrderService{}, stubOrderItemService{},
		pricingService,
		prometheus.NewRegistry(),
	)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Ordena-Env") != "test" {
		t.Fatalf("expected env header on health response")
	}
}

func TestHealthReady(t *testing.T) {
	router := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMetricsEndpointServed(t *testing.T) {
	router := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics endpoint, got %d", rec.Code)
	}
}

func TestQuoteRouteDispatches(t *testing.T) {
	stub := &recordingPricingService{}
	router := newTestRouter(t, stub)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":4}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/quote", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !stub.quoted {
		t.Fatalf("expected quote to reach the pricing service")
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header on response")
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

type stubOrgService struct{}

func (stubOrgService) Create(ctx context.Context, input org.CreateInput) (*org.OrganizationDTO, error) {
	panic("unimplemented")
}

func (stubOrgService) Get(ctx context.Context, id uuid.UUID) (*org.OrganizationDTO, error) {
	panic("unimplemented")
}

func (stubOrgService) List(ctx context.Context) ([]org.OrganizationDTO, error) {
	return nil, nil
}

type stubProductService struct{}

func (stubProductService) CreateProduct(ctx context.Context, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) GetProduct(ctx context.Context, id uuid.UUID) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) ListProducts(ctx context.Context, vendorID uuid.UUID) ([]productsvc.ProductDTO, error) {
	return nil, nil
}

func (stubProductService) CreateUnit(ctx context.Context, input productsvc.CreateUnitInput) (*productsvc.UnitDTO, error) {
	panic("unimplemented")
}

func (stubProductService) ListUnits(ctx context.Context, vendorID uuid.UUID) ([]productsvc.UnitDTO, error) {
	return nil, nil
}

type stubOrderService struct{}

func (stubOrderService) Create(ctx context.Context, input ordersvc.CreateInput) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) Get(ctx context.Context, id uuid.UUID) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]ordersvc.OrderDTO, error) {
	return nil, nil
}

func (stubOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

type stubOrderItemService struct{}

func (stubOrderItemService) Create(ctx context.Context, input orderitem.CreateInput) (*orderitem.OrderItemDTO, error) {
	panic("unimplemented")
}

func (stubOrderItemService) Get(ctx context.Context, id uuid.UUID) (*orderitem.OrderItemDTO, error) {
	panic("unimplemented")
}

func (stubOrderItemService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]orderitem.OrderItemDTO, error) {
	return nil, nil
}

func (stubOrderItemService) OverridePrice(ctx context.Context, id uuid.UUID, input orderitem.OverridePriceInput) (*orderitem.OrderItemDTO, error) {
	panic("unimplemented")
}

func (stubOrderItemService) UpdateStatus(ctx context.Context, id uuid.UUID, input orderitem.UpdateStatusInput) (*orderitem.OrderItemDTO, error) {
	panic("unimplemented")
}

func (stubOrderItemService) GetHistory(ctx context.Context, id uuid.UUID) ([]orderitem.HistoryDTO, error) {
	return nil, nil
}

type stubPricingService struct{}

func (stubPricingService) Quote(ctx context.Context, input pricing.QuoteInput) (*pricing.Result, error) {
	return &pricing.Result{}, nil
}

func (stubPricingService) CreateZoneAdjustment(ctx context.Context, input pricing.CreateZoneAdjustmentInput) (*pricing.ZoneAdjustmentDTO, error) {
	panic("unimplemented")
}

func (stubPricingService) ListZoneAdjustments(ctx context.Context, productID uuid.UUID) ([]pricing.ZoneAdjustmentDTO, error) {
	return nil, nil
}

func (stubPricingService) DeactivateZoneAdjustment(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubPricingService) CreateQuantityTier(ctx context.Context, input pricing.CreateQuantityTierInput) (*pricing.QuantityTierDTO, error) {
	panic("unimplemented")
}

func (stubPricingService) ListQuantityTiers(ctx context.Context, productID uuid.UUID) ([]pricing.QuantityTierDTO, error) {
	return nil, nil
}

func (stubPricingService) DeactivateQuantityTier(ctx context.Context, id uuid.UUID) error {
	return nil
}

type recordingPricingService struct {
	stubPricingService
	quoted bool
}

func (r *recordingPricingService) Quote(ctx context.Context, input pricing.QuoteInput) (*pricing.Result, error) {
	r.quoted = true
	return &pricing.Result{}, nil
}
