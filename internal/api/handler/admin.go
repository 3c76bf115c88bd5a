package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sahaaya/sahaaya_server/internal/api/middleware"
	"github.com/sahaaya/sahaaya_server/internal/model/dto"
	"github.com/sahaaya/sahaaya_server/internal/pkg/response"
	"github.com/sahaaya/sahaaya_server/internal/service"
)

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// CancelSubscription force-cancels a subscription
// POST /api/v1/admin/subscriptions/cancel?id=
func (h *AdminHandler) CancelSubscription(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	subscriptionID, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid subscription id")
		return
	}

	var req dto.AdminCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	sub, err := h.adminService.Cancel(adminID, subscriptionID, req.Reason)
	if err != nil {
		switch err {
		case service.ErrReasonTooShort:
			response.ValidationError(c, err.Error())
		case service.ErrSubscriptionNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrFreeNotCancellable, service.ErrAlreadyCancelled:
			response.InvalidStateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "subscription cancelled", sub)
}

// ChangeTier force-moves a subscription to another tier
// POST /api/v1/admin/subscriptions/change-tier?id=
func (h *AdminHandler) ChangeTier(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	subscriptionID, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid subscription id")
		return
	}

	var req dto.AdminChangeTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	sub, err := h.adminService.ChangeTier(adminID, subscriptionID, req.NewTier, req.Reason)
	if err != nil {
		switch err {
		case service.ErrReasonTooShort, service.ErrTierOutOfRange:
			response.ValidationError(c, err.Error())
		case service.ErrSubscriptionNotFound, service.ErrPlanNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrSameTier:
			response.InvalidStateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "tier changed", sub)
}

// Refund marks a completed transaction refunded
// POST /api/v1/admin/transactions/refund?id=
func (h *AdminHandler) Refund(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	transactionID, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid transaction id")
		return
	}

	var req dto.AdminRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	txn, err := h.adminService.Refund(adminID, transactionID, req.Reason, req.RefundAmount)
	if err != nil {
		switch err {
		case service.ErrReasonTooShort, service.ErrInvalidRefund, service.ErrRefundExceedsTotal:
			response.ValidationError(c, err.Error())
		case service.ErrTransactionNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrNotRefundable:
			response.InvalidStateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "transaction refunded", txn)
}
