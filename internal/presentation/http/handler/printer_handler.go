package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/outlet-pos/internal/application/service"
	"github.com/sangkips/outlet-pos/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.GetStatus(c.Request.Context())
	response.OK(c, "Printer status retrieved", status)
}

// PrintBill prints the receipt for a bill.
func (h *PrinterHandler) PrintBill(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	receipt, err := h.printerService.PrintBill(c.Request.Context(), GetOutlet(c), id)
	if err != nil {
		// If receipt was built but printing failed, return receipt with warning
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": receipt,
	})
}

// Receipt returns the plain-text receipt preview.
func (h *PrinterHandler) Receipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	preview, err := h.printerService.ReceiptPreview(c.Request.Context(), GetOutlet(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.String(http.StatusOK, preview)
}
