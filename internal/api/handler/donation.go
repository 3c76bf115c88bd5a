package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sahaaya/sahaaya_server/internal/api/middleware"
	"github.com/sahaaya/sahaaya_server/internal/model/dto"
	"github.com/sahaaya/sahaaya_server/internal/pkg/response"
	"github.com/sahaaya/sahaaya_server/internal/service"
)

type DonationHandler struct {
	donationService *service.DonationService
}

func NewDonationHandler(donationService *service.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

// Record writes a completed donation into the ledger
// POST /api/v1/donations
func (h *DonationHandler) Record(c *gin.Context) {
	donorID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.RecordDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	donation, err := h.donationService.Record(donorID, &req)
	if err != nil {
		switch err {
		case service.ErrNGONotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "donation recorded", donation)
}

// List returns the donations received by the calling NGO
// GET /api/v1/donations
func (h *DonationHandler) List(c *gin.Context) {
	ngoID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	donations, err := h.donationService.ListForNGO(ngoID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, donations)
}
