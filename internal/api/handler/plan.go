package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sahaaya/sahaaya_server/internal/pkg/response"
	"github.com/sahaaya/sahaaya_server/internal/service"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// List returns the active plan catalog ordered by tier
// GET /api/v1/plans
func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.planService.ListActivePlans()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, plans)
}
