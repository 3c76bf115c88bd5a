package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sahaaya/sahaaya_server/internal/api/middleware"
	"github.com/sahaaya/sahaaya_server/internal/model/dto"
	"github.com/sahaaya/sahaaya_server/internal/pkg/response"
	"github.com/sahaaya/sahaaya_server/internal/service"
)

type PaymentHandler struct {
	billingService *service.BillingService
}

func NewPaymentHandler(billingService *service.BillingService) *PaymentHandler {
	return &PaymentHandler{billingService: billingService}
}

// CreateOrder opens a checkout: gateway order plus pending ledger entry
// POST /api/v1/payments/create-order
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.billingService.CreateOrder(c.Request.Context(), userID, &req)
	if err != nil {
		switch err {
		case service.ErrPlanNotFound, service.ErrUserNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrFreePlanNotPayable:
			response.ValidationError(c, err.Error())
		case service.ErrGatewayUnavailable:
			response.GatewayError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}

// Verify confirms a payment and activates the subscription
// POST /api/v1/payments/verify
func (h *PaymentHandler) Verify(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.billingService.VerifyAndActivate(c.Request.Context(), userID, &req)
	if err != nil {
		switch err {
		case service.ErrTransactionNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrNotYourTransaction:
			response.PermissionError(c, err.Error())
		case service.ErrAlreadyProcessed:
			response.InvalidStateError(c, err.Error())
		case service.ErrOrderMismatch, service.ErrSignatureMismatch:
			response.GatewayError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "payment verified", resp)
}

// ReportFailure closes out an abandoned or failed checkout
// POST /api/v1/payments/failure
func (h *PaymentHandler) ReportFailure(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.PaymentFailureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	txn, err := h.billingService.ReportFailure(userID, req.TransactionID, req.Reason)
	if err != nil {
		switch err {
		case service.ErrTransactionNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrNotYourTransaction:
			response.PermissionError(c, err.Error())
		case service.ErrAlreadyProcessed:
			response.InvalidStateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, txn)
}

// TestComplete returns simulated gateway credentials for a pending order
// POST /api/v1/payments/test-complete
func (h *PaymentHandler) TestComplete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.TestCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.billingService.TestComplete(userID, req.TransactionID)
	if err != nil {
		switch err {
		case service.ErrTestModeOnly:
			response.PermissionError(c, err.Error())
		case service.ErrTransactionNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrNotYourTransaction:
			response.PermissionError(c, err.Error())
		case service.ErrAlreadyProcessed:
			response.InvalidStateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}

// Transactions lists the caller's payment history, newest first
// GET /api/v1/payments/transactions
func (h *PaymentHandler) Transactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	txns, err := h.billingService.ListTransactions(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, txns)
}
