package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/warehouse-inventory/internal/service"
)

const msgNoReportData = "No data available to generate the report."

// InventoryReportHandler godoc
// @Summary Inventory report
// @Description Totals the product count, stocked quantity and stock value
// @Tags reports
// @Produce json
// @Success 200 {object} models.InventoryReport
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /inventory-report [get]
func (h *ReportHandler) InventoryReportHandler(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.InventoryReport(r.Context())
	if errors.Is(err, service.ErrEmptyInventory) {
		respondError(w, r, http.StatusNotFound, msgNoReportData)
		return
	}
	if err != nil {
		respondServerError(w, r, "inventory report", err)
		return
	}
	respond(w, r, http.StatusOK, report)
}
