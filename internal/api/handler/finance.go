package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sahaaya/sahaaya_server/internal/pkg/response"
	"github.com/sahaaya/sahaaya_server/internal/service"
)

type FinanceHandler struct {
	financeService *service.FinanceService
}

func NewFinanceHandler(financeService *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

// Report returns the financial rollup across the three ledgers
// GET /api/v1/admin/financials
func (h *FinanceHandler) Report(c *gin.Context) {
	report, err := h.financeService.Report()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, report)
}
