package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sahaaya/sahaaya_server/config"
	"github.com/sahaaya/sahaaya_server/internal/api/middleware"
	"github.com/sahaaya/sahaaya_server/internal/model"
	"github.com/sahaaya/sahaaya_server/internal/model/dto"
	"github.com/sahaaya/sahaaya_server/internal/pkg/payment"
	"github.com/sahaaya/sahaaya_server/internal/pkg/response"
	"github.com/sahaaya/sahaaya_server/internal/repository"
	"github.com/sahaaya/sahaaya_server/internal/service"
	"github.com/sahaaya/sahaaya_server/internal/testutil"
)

// mockAuth injects an authenticated identity, standing in for the JWT
// middleware.
func mockAuth(userID int64, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.RoleKey, role)
		c.Next()
	}
}

func setupPaymentHandler(t *testing.T) (*PaymentHandler, *gorm.DB, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	planRepo := repository.NewPlanRepository(db)
	txnRepo := repository.NewTransactionRepository(db)

	cfg := &config.Config{}
	cfg.Payment.Mode = "test"
	cfg.Payment.KeyID = "rzp_test_key"
	cfg.Payment.KeySecret = "test_secret_key"
	cfg.Payment.Currency = "INR"
	cfg.Billing.GSTRate = 0.18

	gateway := payment.NewSimulatedGateway(cfg.Payment.KeySecret)
	subService := service.NewSubscriptionService(db, userRepo, subRepo, planRepo, nil, cfg)
	billing := service.NewBillingService(db, txnRepo, planRepo, userRepo, subService, gateway, nil, nil, nil, cfg)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return NewPaymentHandler(billing), db, cleanup
}

func paymentRouter(h *PaymentHandler, userID int64) *gin.Engine {
	r := gin.New()
	g := r.Group("/payments", mockAuth(userID, "ngo"))
	g.POST("/create-order", h.CreateOrder)
	g.POST("/verify", h.Verify)
	g.POST("/failure", h.ReportFailure)
	g.POST("/test-complete", h.TestComplete)
	g.GET("/transactions", h.Transactions)
	return r
}

func TestPaymentHandler_FullCheckout(t *testing.T) {
	h, db, cleanup := setupPaymentHandler(t)
	defer cleanup()

	plans := testutil.SeedPlans(t, db)
	user := testutil.TestUser(t, db)
	r := paymentRouter(h, user.ID)

	// Open the checkout.
	resp := parseResponse(t, performRequest(r, http.MethodPost, "/payments/create-order", dto.CreateOrderRequest{
		PlanID:       plans[model.TierSilver].ID,
		BillingCycle: model.CycleMonthly,
	}))
	require.Equal(t, response.CodeSuccess, resp.Code)

	var order dto.CreateOrderResponse
	decodeData(t, resp.Data, &order)
	assert.Equal(t, int64(117882), order.AmountPaise)
	assert.NotEmpty(t, order.OrderID)

	// Fetch simulated gateway credentials.
	resp = parseResponse(t, performRequest(r, http.MethodPost, "/payments/test-complete", dto.TestCompleteRequest{
		TransactionID: order.TransactionID,
	}))
	require.Equal(t, response.CodeSuccess, resp.Code)

	var creds dto.TestCompleteResponse
	decodeData(t, resp.Data, &creds)
	assert.Equal(t, order.OrderID, creds.GatewayOrderID)

	// Confirm the payment.
	resp = parseResponse(t, performRequest(r, http.MethodPost, "/payments/verify", dto.VerifyPaymentRequest{
		TransactionID:    order.TransactionID,
		GatewayOrderID:   creds.GatewayOrderID,
		GatewayPaymentID: creds.GatewayPaymentID,
		GatewaySignature: creds.GatewaySignature,
	}))
	require.Equal(t, response.CodeSuccess, resp.Code)

	var verified dto.VerifyPaymentResponse
	decodeData(t, resp.Data, &verified)
	require.NotNil(t, verified.Subscription)
	assert.Equal(t, model.SubStatusActive, verified.Subscription.Status)
	assert.Equal(t, model.TierSilver, verified.Subscription.Tier)
	assert.Equal(t, model.TxnStatusCompleted, verified.Transaction.Status)

	// A second confirmation of the same order is rejected.
	resp = parseResponse(t, performRequest(r, http.MethodPost, "/payments/verify", dto.VerifyPaymentRequest{
		TransactionID:    order.TransactionID,
		GatewayOrderID:   creds.GatewayOrderID,
		GatewayPaymentID: creds.GatewayPaymentID,
		GatewaySignature: creds.GatewaySignature,
	}))
	assert.Equal(t, response.CodeInvalidState, resp.Code)
}

func TestPaymentHandler_CreateOrder_FreePlan(t *testing.T) {
	h, db, cleanup := setupPaymentHandler(t)
	defer cleanup()

	plans := testutil.SeedPlans(t, db)
	user := testutil.TestUser(t, db)
	r := paymentRouter(h, user.ID)

	resp := parseResponse(t, performRequest(r, http.MethodPost, "/payments/create-order", dto.CreateOrderRequest{
		PlanID:       plans[model.TierFree].ID,
		BillingCycle: model.CycleMonthly,
	}))
	assert.Equal(t, response.CodeValidationFailed, resp.Code)
}

func TestPaymentHandler_Verify_TamperedSignature(t *testing.T) {
	h, db, cleanup := setupPaymentHandler(t)
	defer cleanup()

	plans := testutil.SeedPlans(t, db)
	user := testutil.TestUser(t, db)
	r := paymentRouter(h, user.ID)

	resp := parseResponse(t, performRequest(r, http.MethodPost, "/payments/create-order", dto.CreateOrderRequest{
		PlanID:       plans[model.TierBronze].ID,
		BillingCycle: model.CycleMonthly,
	}))
	require.Equal(t, response.CodeSuccess, resp.Code)

	var order dto.CreateOrderResponse
	decodeData(t, resp.Data, &order)

	resp = parseResponse(t, performRequest(r, http.MethodPost, "/payments/verify", dto.VerifyPaymentRequest{
		TransactionID:    order.TransactionID,
		GatewayOrderID:   order.OrderID,
		GatewayPaymentID: "pay_test_forged",
		GatewaySignature: "deadbeef",
	}))
	assert.Equal(t, response.CodeGatewayError, resp.Code)
}

func TestPaymentHandler_Verify_WrongOwner(t *testing.T) {
	h, db, cleanup := setupPaymentHandler(t)
	defer cleanup()

	plans := testutil.SeedPlans(t, db)
	owner := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)

	ownerRouter := paymentRouter(h, owner.ID)
	resp := parseResponse(t, performRequest(ownerRouter, http.MethodPost, "/payments/create-order", dto.CreateOrderRequest{
		PlanID:       plans[model.TierBronze].ID,
		BillingCycle: model.CycleMonthly,
	}))
	require.Equal(t, response.CodeSuccess, resp.Code)

	var order dto.CreateOrderResponse
	decodeData(t, resp.Data, &order)

	resp = parseResponse(t, performRequest(ownerRouter, http.MethodPost, "/payments/test-complete", dto.TestCompleteRequest{
		TransactionID: order.TransactionID,
	}))
	require.Equal(t, response.CodeSuccess, resp.Code)

	var creds dto.TestCompleteResponse
	decodeData(t, resp.Data, &creds)

	otherRouter := paymentRouter(h, other.ID)
	resp = parseResponse(t, performRequest(otherRouter, http.MethodPost, "/payments/verify", dto.VerifyPaymentRequest{
		TransactionID:    order.TransactionID,
		GatewayOrderID:   creds.GatewayOrderID,
		GatewayPaymentID: creds.GatewayPaymentID,
		GatewaySignature: creds.GatewaySignature,
	}))
	assert.Equal(t, response.CodePermissionDenied, resp.Code)
}

func TestPaymentHandler_ReportFailure(t *testing.T) {
	h, db, cleanup := setupPaymentHandler(t)
	defer cleanup()

	plans := testutil.SeedPlans(t, db)
	user := testutil.TestUser(t, db)
	r := paymentRouter(h, user.ID)

	resp := parseResponse(t, performRequest(r, http.MethodPost, "/payments/create-order", dto.CreateOrderRequest{
		PlanID:       plans[model.TierBronze].ID,
		BillingCycle: model.CycleMonthly,
	}))
	require.Equal(t, response.CodeSuccess, resp.Code)

	var order dto.CreateOrderResponse
	decodeData(t, resp.Data, &order)

	resp = parseResponse(t, performRequest(r, http.MethodPost, "/payments/failure", dto.PaymentFailureRequest{
		TransactionID: order.TransactionID,
		Reason:        "card declined",
	}))
	require.Equal(t, response.CodeSuccess, resp.Code)

	var txn model.Transaction
	decodeData(t, resp.Data, &txn)
	assert.Equal(t, model.TxnStatusFailed, txn.Status)
}

func TestPaymentHandler_Transactions(t *testing.T) {
	h, db, cleanup := setupPaymentHandler(t)
	defer cleanup()

	plans := testutil.SeedPlans(t, db)
	user := testutil.TestUser(t, db)
	testutil.TestTransaction(t, db, user, plans[model.TierBronze])
	testutil.TestTransaction(t, db, user, plans[model.TierSilver],
		testutil.WithTxnStatus(model.TxnStatusCompleted))

	r := paymentRouter(h, user.ID)
	resp := parseResponse(t, performRequest(r, http.MethodGet, "/payments/transactions", nil))
	require.Equal(t, response.CodeSuccess, resp.Code)

	var txns []model.Transaction
	decodeData(t, resp.Data, &txns)
	assert.Len(t, txns, 2)
}
