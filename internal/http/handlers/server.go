package handlers

import (
	"context"

	"github.com/rogerio-castellano/warehouse-inventory/internal/models"
	"github.com/rogerio-castellano/warehouse-inventory/internal/service"
)

// ProductService is what the product handlers need from the service layer.
type ProductService interface {
	ListProducts(ctx context.Context, params service.ListParams) ([]models.Product, error)
	AddProduct(ctx context.Context, in service.ProductInput) (models.Product, error)
	UpdateProduct(ctx context.Context, id int, patch service.ProductInput) (bool, error)
	DeleteProduct(ctx context.Context, id int) error
	Ping(ctx context.Context) error
}

type ReportService interface {
	InventoryReport(ctx context.Context) (models.InventoryReport, error)
}

type ProductHandler struct {
	products ProductService
}

func NewProductHandler(products ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

type ReportHandler struct {
	reports ReportService
}

func NewReportHandler(reports ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}
