package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/warehouse-inventory/internal/repo"
	"github.com/rogerio-castellano/warehouse-inventory/internal/service"
)

const (
	msgInvalidBody     = "Invalid input data."
	msgFieldsRequired  = "Invalid input data. All fields are required."
	msgNegativeValues  = "Invalid input data. Price and quantity must not be negative."
	msgDuplicateName   = "A product with this name already exists."
	msgProductNotFound = "Product with the given id does not exist."
	msgOutOfStock      = "Product is not available in stock and cannot be deleted."
	msgProductAdded    = "Product added successfully."
	msgProductUpdated  = "Product updated successfully."
	msgProductNoChange = "No changes made to the product."
	msgProductDeleted  = "Product deleted successfully."
	msgDeleteFailed    = "Error while deleting the product."
)

// GetProductsHandler godoc
// @Summary List products
// @Description Lists every product matching the filters, sorted ascending
// @Tags products
// @Produce json
// @Param name query string false "Case-insensitive substring of the name"
// @Param minPrice query number false "Minimum price (inclusive)"
// @Param maxPrice query number false "Maximum price (inclusive)"
// @Param minQuantity query int false "Minimum quantity (inclusive)"
// @Param maxQuantity query int false "Maximum quantity (inclusive)"
// @Param sortBy query string false "Field to sort by, defaults to name"
// @Success 200 {array} ProductResponse
// @Failure 500 {object} ErrorResponse
// @Router /products [get]
func (h *ProductHandler) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := service.ListParams{
		Filter: repo.ProductFilter{
			Name:        q.Get("name"),
			MinPrice:    parseFloatPtr(q.Get("minPrice")),
			MaxPrice:    parseFloatPtr(q.Get("maxPrice")),
			MinQuantity: parseIntPtr(q.Get("minQuantity")),
			MaxQuantity: parseIntPtr(q.Get("maxQuantity")),
		},
		SortBy: q.Get("sortBy"),
	}

	products, err := h.products.ListProducts(r.Context(), params)
	if err != nil {
		respondServerError(w, r, "list products", err)
		return
	}

	response := make([]ProductResponse, len(products))
	for i, p := range products {
		response[i] = toProductResponse(p)
	}
	respond(w, r, http.StatusOK, response)
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the inventory under the next free id
// @Tags products
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products [post]
func (h *ProductHandler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if _, err := h.products.AddProduct(r.Context(), req.input()); err != nil {
		h.mutationError(w, r, "create product", err)
		return
	}
	respond(w, r, http.StatusCreated, MessageResponse{Message: msgProductAdded})
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Replaces the supplied non-empty fields, keeping the others
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body ProductRequest true "Fields to change"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		respondError(w, r, http.StatusNotFound, msgProductNotFound)
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	modified, err := h.products.UpdateProduct(r.Context(), id, req.input())
	if err != nil {
		h.mutationError(w, r, "update product", err)
		return
	}

	message := msgProductNoChange
	if modified {
		message = msgProductUpdated
	}
	respond(w, r, http.StatusOK, MessageResponse{Message: message})
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Description Removes a product that still has stock
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		respondError(w, r, http.StatusNotFound, msgProductNotFound)
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		h.mutationError(w, r, "delete product", err)
		return
	}
	respond(w, r, http.StatusOK, MessageResponse{Message: msgProductDeleted})
}

// HealthHandler godoc
// @Summary Liveness and store reachability
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *ProductHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Ping(r.Context()); err != nil {
		respond(w, r, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	respond(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

// mutationError maps service errors to client responses.
func (h *ProductHandler) mutationError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var invalid *service.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		msg := msgFieldsRequired
		if invalid.Reason == service.ReasonNegative {
			msg = msgNegativeValues
		}
		respondError(w, r, http.StatusBadRequest, msg)
	case errors.Is(err, service.ErrDuplicateName):
		respondError(w, r, http.StatusBadRequest, msgDuplicateName)
	case errors.Is(err, service.ErrZeroQuantity):
		respondError(w, r, http.StatusBadRequest, msgOutOfStock)
	case errors.Is(err, service.ErrProductNotFound):
		respondError(w, r, http.StatusNotFound, msgProductNotFound)
	case errors.Is(err, service.ErrStoreAnomaly):
		slog.ErrorContext(r.Context(), op+" failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, msgDeleteFailed)
	default:
		respondServerError(w, r, op, err)
	}
}

// productID parses the domain id from the path. A non-numeric id cannot
// match any product.
func productID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

func parseFloatPtr(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseIntPtr(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
