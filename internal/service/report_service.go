package service

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/warehouse-inventory/internal/models"
	"github.com/rogerio-castellano/warehouse-inventory/internal/repo"
)

type ReportService struct {
	products repo.ProductRepository
}

func NewReportService(products repo.ProductRepository) *ReportService {
	return &ReportService{products: products}
}

// InventoryReport totals product count, quantity and stock value. An empty
// inventory yields ErrEmptyInventory rather than a zero report.
func (s *ReportService) InventoryReport(ctx context.Context) (models.InventoryReport, error) {
	report, ok, err := s.products.InventoryReport(ctx)
	if err != nil {
		return models.InventoryReport{}, fmt.Errorf("aggregate inventory: %w", err)
	}
	if !ok {
		return models.InventoryReport{}, ErrEmptyInventory
	}
	return report, nil
}
