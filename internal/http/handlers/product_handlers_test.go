package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/rogerio-castellano/warehouse-inventory/internal/models"
	"github.com/rogerio-castellano/warehouse-inventory/internal/service"
)

type stubProducts struct {
	err      error
	modified bool
	got      service.ProductInput
	params   service.ListParams
}

func (s *stubProducts) ListProducts(_ context.Context, params service.ListParams) ([]models.Product, error) {
	s.params = params
	return nil, s.err
}

func (s *stubProducts) AddProduct(_ context.Context, in service.ProductInput) (models.Product, error) {
	s.got = in
	return models.Product{}, s.err
}

func (s *stubProducts) UpdateProduct(_ context.Context, _ int, in service.ProductInput) (bool, error) {
	s.got = in
	return s.modified, s.err
}

func (s *stubProducts) DeleteProduct(context.Context, int) error { return s.err }

func (s *stubProducts) Ping(context.Context) error { return s.err }

type stubReports struct {
	err error
}

func (s stubReports) InventoryReport(context.Context) (models.InventoryReport, error) {
	return models.InventoryReport{}, s.err
}

func serve(h *ProductHandler, method, target, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/products", h.GetProductsHandler)
	r.Post("/products", h.CreateProductHandler)
	r.Put("/products/{id}", h.UpdateProductHandler)
	r.Delete("/products/{id}", h.DeleteProductHandler)
	r.Get("/health", h.HealthHandler)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestServerErrorsAreNotLeaked(t *testing.T) {
	svc := &stubProducts{err: errors.New("dial tcp 10.0.0.5:27017: connection refused")}
	h := NewProductHandler(svc)

	tests := []struct {
		method, target, body string
	}{
		{http.MethodGet, "/products", ""},
		{http.MethodPost, "/products", `{"name":"A"}`},
		{http.MethodPut, "/products/1", `{"name":"A"}`},
		{http.MethodDelete, "/products/1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := serve(h, tt.method, tt.target, tt.body)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, `{"error":"Server error."}`, w.Body.String())
		})
	}
}

func TestDeleteStoreAnomaly(t *testing.T) {
	h := NewProductHandler(&stubProducts{err: service.ErrStoreAnomaly})

	w := serve(h, http.MethodDelete, "/products/3", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Error while deleting the product."}`, w.Body.String())
}

func TestHealthUnavailable(t *testing.T) {
	h := NewProductHandler(&stubProducts{err: errors.New("no reachable servers")})

	w := serve(h, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
}

func TestGetProductsParsesQuery(t *testing.T) {
	svc := &stubProducts{}
	h := NewProductHandler(svc)

	w := serve(h, http.MethodGet, "/products?name=oil&minPrice=1.5&maxPrice=x&minQuantity=2&maxQuantity=3.5&sortBy=price", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	f := svc.params.Filter
	assert.Equal(t, "oil", f.Name)
	if assert.NotNil(t, f.MinPrice) {
		assert.Equal(t, 1.5, *f.MinPrice)
	}
	assert.Nil(t, f.MaxPrice)
	if assert.NotNil(t, f.MinQuantity) {
		assert.Equal(t, 2, *f.MinQuantity)
	}
	assert.Nil(t, f.MaxQuantity)
	assert.Equal(t, "price", svc.params.SortBy)
}

func TestProductRequestDecoding(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     service.ProductInput
		wantCode int
	}{
		{
			name: "numbers",
			body: `{"name":"Oil","price":8.99,"description":"1 l","quantity":64,"unit":"pcs"}`,
			want: service.ProductInput{Name: "Oil", Price: 8.99, Description: "1 l", Quantity: 64, Unit: "pcs"},
		},
		{
			name: "numeric strings",
			body: `{"price":" 4.20 ","quantity":"7"}`,
			want: service.ProductInput{Price: 4.2, Quantity: 7},
		},
		{
			name: "fractional quantity truncates",
			body: `{"quantity":-2.7}`,
			want: service.ProductInput{Quantity: -2},
		},
		{
			name: "wrong types count as missing",
			body: `{"name":12,"price":true,"quantity":"many","unit":null}`,
			want: service.ProductInput{},
		},
		{
			name:     "quantity above the int range",
			body:     `{"name":"Oil","quantity":18446744073709551617}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "quantity string just past the int range",
			body:     `{"name":"Oil","quantity":"9223372036854775808"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "quantity below the int range",
			body:     `{"name":"Oil","quantity":"-9223372036854775809"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "largest int is kept",
			body: `{"quantity":"9223372036854775807.9"}`,
			want: service.ProductInput{Quantity: math.MaxInt},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubProducts{}
			h := NewProductHandler(svc)

			w := serve(h, http.MethodPost, "/products", tt.body)

			if tt.wantCode == http.StatusBadRequest {
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.JSONEq(t, `{"error":"Invalid input data."}`, w.Body.String())
			}
			assert.Equal(t, tt.want, svc.got)
		})
	}
}

func TestInventoryReportHandlerFailure(t *testing.T) {
	h := NewReportHandler(stubReports{err: errors.New("aggregate failed")})
	w := httptest.NewRecorder()

	h.InventoryReportHandler(w, httptest.NewRequest(http.MethodGet, "/inventory-report", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Server error."}`, w.Body.String())
}
