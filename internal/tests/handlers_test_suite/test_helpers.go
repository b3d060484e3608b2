package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	handler "github.com/rogerio-castellano/warehouse-inventory/internal/http/handlers"
	"github.com/rogerio-castellano/warehouse-inventory/internal/http/router"
	"github.com/rogerio-castellano/warehouse-inventory/internal/repo"
	"github.com/rogerio-castellano/warehouse-inventory/internal/service"
)

// newRouter wires the full HTTP stack over a fresh in-memory store.
func newRouter() (http.Handler, *repo.InMemoryProductRepository) {
	productRepo := repo.NewInMemoryProductRepository()
	r := router.NewRouter(router.Deps{
		Products: handler.NewProductHandler(service.NewProductService(productRepo)),
		Reports:  handler.NewReportHandler(service.NewReportService(productRepo)),
	})
	return r, productRepo
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(p)
	return send(r, http.MethodPost, "/products", string(body))
}

func updateProduct(r http.Handler, id any, body string) *httptest.ResponseRecorder {
	return send(r, http.MethodPut, fmt.Sprintf("/products/%v", id), body)
}

func deleteProduct(r http.Handler, id any) *httptest.ResponseRecorder {
	return send(r, http.MethodDelete, fmt.Sprintf("/products/%v", id), "")
}

func listProducts(r http.Handler, query string) ([]handler.ProductResponse, *httptest.ResponseRecorder) {
	target := "/products"
	if query != "" {
		target += "?" + query
	}
	w := send(r, http.MethodGet, target, "")

	var products []handler.ProductResponse
	_ = json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&products)
	return products, w
}

func send(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeMessage(w *httptest.ResponseRecorder) string {
	var resp handler.MessageResponse
	_ = json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&resp)
	return resp.Message
}

func decodeError(w *httptest.ResponseRecorder) string {
	var resp handler.ErrorResponse
	_ = json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&resp)
	return resp.Error
}

func names(products []handler.ProductResponse) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}
