package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sahaaya/sahaaya_server/internal/api/middleware"
	"github.com/sahaaya/sahaaya_server/internal/model/dto"
	"github.com/sahaaya/sahaaya_server/internal/pkg/response"
	"github.com/sahaaya/sahaaya_server/internal/service"
)

type SubscriptionHandler struct {
	subService *service.SubscriptionService
}

func NewSubscriptionHandler(subService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subService: subService}
}

// Current returns the caller's subscription state; with no subscription row
// this is the synthesized FREE floor
// GET /api/v1/subscriptions/current
func (h *SubscriptionHandler) Current(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	view, err := h.subService.GetCurrent(userID)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, view)
}

// Create handles trial starts and explicit FREE selection. Paid activation
// goes through the payment order flow
// POST /api/v1/subscriptions/create
func (h *SubscriptionHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	sub, err := h.subService.Create(userID, &req)
	if err != nil {
		switch err {
		case service.ErrPlanNotFound, service.ErrUserNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrTrialAlreadyUsed:
			response.DuplicateError(c, err.Error())
		case service.ErrTrialNotAvailable:
			response.ValidationError(c, err.Error())
		case service.ErrPaymentRequired:
			response.ValidationError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "subscription created", sub)
}

// Cancel cancels the caller's current subscription. Access continues until
// the period end
// POST /api/v1/subscriptions/cancel
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	sub, err := h.subService.SelfCancel(userID, req.Reason)
	if err != nil {
		switch err {
		case service.ErrSubscriptionNotFound, service.ErrUserNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrFreeNotCancellable:
			response.InvalidStateError(c, err.Error())
		case service.ErrAlreadyCancelled:
			response.InvalidStateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "subscription cancelled", sub)
}

// DowngradeToFree moves the caller back to the FREE floor immediately
// POST /api/v1/subscriptions/downgrade-to-free
func (h *SubscriptionHandler) DowngradeToFree(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	sub, err := h.subService.DowngradeToFree(userID, "user", "downgraded to free plan")
	if err != nil {
		switch err {
		case service.ErrUserNotFound, service.ErrPlanNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "downgraded to free plan", sub)
}
