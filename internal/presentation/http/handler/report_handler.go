package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/outlet-pos/internal/application/service"
	"github.com/sangkips/outlet-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/outlet-pos/internal/presentation/http/dto/response"
)

// ReportHandler serves the read-only sales and inventory reports
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Sales handles the sales report
func (h *ReportHandler) Sales(c *gin.Context) {
	var req request.ReportRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	report, err := h.reportService.SalesReport(c.Request.Context(), GetOutlet(c), req.StartDate, req.EndDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales report generated", report)
}

// Inventory handles the inventory report
func (h *ReportHandler) Inventory(c *gin.Context) {
	report, err := h.reportService.InventoryReport(c.Request.Context(), GetOutlet(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory report generated", report)
}
