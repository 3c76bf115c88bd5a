package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sahaaya/sahaaya_server/config"
	"github.com/sahaaya/sahaaya_server/internal/model"
	"github.com/sahaaya/sahaaya_server/internal/model/dto"
	"github.com/sahaaya/sahaaya_server/internal/pkg/response"
	"github.com/sahaaya/sahaaya_server/internal/repository"
	"github.com/sahaaya/sahaaya_server/internal/service"
	"github.com/sahaaya/sahaaya_server/internal/testutil"
)

func setupSubscriptionHandler(t *testing.T) (*SubscriptionHandler, *gorm.DB, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	planRepo := repository.NewPlanRepository(db)

	cfg := &config.Config{}
	subService := service.NewSubscriptionService(db, userRepo, subRepo, planRepo, nil, cfg)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return NewSubscriptionHandler(subService), db, cleanup
}

func subscriptionRouter(h *SubscriptionHandler, userID int64) *gin.Engine {
	r := gin.New()
	g := r.Group("/subscriptions", mockAuth(userID, "ngo"))
	g.GET("/current", h.Current)
	g.POST("/create", h.Create)
	g.POST("/cancel", h.Cancel)
	g.POST("/downgrade-to-free", h.DowngradeToFree)
	return r
}

func TestSubscriptionHandler_Current_FreeFloor(t *testing.T) {
	h, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	r := subscriptionRouter(h, user.ID)

	resp := parseResponse(t, performRequest(r, http.MethodGet, "/subscriptions/current", nil))
	require.Equal(t, response.CodeSuccess, resp.Code)

	var view dto.CurrentSubscriptionView
	decodeData(t, resp.Data, &view)
	assert.Equal(t, model.TierFree, view.Tier)
	assert.Equal(t, "FREE", view.TierName)
	assert.Equal(t, model.SubStatusActive, view.Status)
	assert.Nil(t, view.Subscription)
	assert.Nil(t, view.ExpiresAt)
}

func TestSubscriptionHandler_Create_Trial(t *testing.T) {
	h, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	plans := testutil.SeedPlans(t, db)
	user := testutil.TestUser(t, db)
	r := subscriptionRouter(h, user.ID)

	resp := parseResponse(t, performRequest(r, http.MethodPost, "/subscriptions/create", dto.CreateSubscriptionRequest{
		PlanID:  plans[model.TierBronze].ID,
		IsTrial: true,
	}))
	require.Equal(t, response.CodeSuccess, resp.Code)

	var sub model.Subscription
	decodeData(t, resp.Data, &sub)
	assert.Equal(t, model.SubStatusTrial, sub.Status)
	assert.True(t, sub.IsTrial)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 14), sub.EndDate, time.Minute)

	// Second trial attempt is a duplicate action.
	resp = parseResponse(t, performRequest(r, http.MethodPost, "/subscriptions/create", dto.CreateSubscriptionRequest{
		PlanID:  plans[model.TierSilver].ID,
		IsTrial: true,
	}))
	assert.Equal(t, response.CodeDuplicateAction, resp.Code)
}

func TestSubscriptionHandler_Create_PaidWithoutCheckout(t *testing.T) {
	h, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	plans := testutil.SeedPlans(t, db)
	user := testutil.TestUser(t, db)
	r := subscriptionRouter(h, user.ID)

	resp := parseResponse(t, performRequest(r, http.MethodPost, "/subscriptions/create", dto.CreateSubscriptionRequest{
		PlanID:       plans[model.TierGold].ID,
		BillingCycle: model.CycleMonthly,
	}))
	assert.Equal(t, response.CodeValidationFailed, resp.Code)
}

func TestSubscriptionHandler_Cancel(t *testing.T) {
	h, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	plans := testutil.SeedPlans(t, db)
	user := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, user, plans[model.TierSilver])
	r := subscriptionRouter(h, user.ID)

	resp := parseResponse(t, performRequest(r, http.MethodPost, "/subscriptions/cancel", dto.CancelSubscriptionRequest{
		Reason: "too expensive",
	}))
	require.Equal(t, response.CodeSuccess, resp.Code)

	var sub model.Subscription
	decodeData(t, resp.Data, &sub)
	assert.Equal(t, model.SubStatusCancelled, sub.Status)
	assert.False(t, sub.AutoRenew)

	resp = parseResponse(t, performRequest(r, http.MethodPost, "/subscriptions/cancel", dto.CancelSubscriptionRequest{}))
	assert.Equal(t, response.CodeInvalidState, resp.Code)
}

func TestSubscriptionHandler_Cancel_FreeFloor(t *testing.T) {
	h, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	r := subscriptionRouter(h, user.ID)

	resp := parseResponse(t, performRequest(r, http.MethodPost, "/subscriptions/cancel", dto.CancelSubscriptionRequest{}))
	assert.Equal(t, response.CodeInvalidState, resp.Code)
}

func TestSubscriptionHandler_DowngradeToFree(t *testing.T) {
	h, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	plans := testutil.SeedPlans(t, db)
	user := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, user, plans[model.TierGold])
	r := subscriptionRouter(h, user.ID)

	resp := parseResponse(t, performRequest(r, http.MethodPost, "/subscriptions/downgrade-to-free", nil))
	require.Equal(t, response.CodeSuccess, resp.Code)

	var sub model.Subscription
	decodeData(t, resp.Data, &sub)
	assert.Equal(t, model.TierFree, sub.Tier)
	assert.Equal(t, model.SubStatusActive, sub.Status)
}
