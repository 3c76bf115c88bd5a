package api

import (
	"github.com/gin-gonic/gin"

	"github.com/sahaaya/sahaaya_server/config"
	"github.com/sahaaya/sahaaya_server/internal/api/handler"
	"github.com/sahaaya/sahaaya_server/internal/api/middleware"
)

type Router struct {
	authHandler         *handler.AuthHandler
	planHandler         *handler.PlanHandler
	subscriptionHandler *handler.SubscriptionHandler
	paymentHandler      *handler.PaymentHandler
	donationHandler     *handler.DonationHandler
	adminHandler        *handler.AdminHandler
	financeHandler      *handler.FinanceHandler
	websocketHandler    *handler.WebSocketHandler
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	planHandler *handler.PlanHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	paymentHandler *handler.PaymentHandler,
	donationHandler *handler.DonationHandler,
	adminHandler *handler.AdminHandler,
	financeHandler *handler.FinanceHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		planHandler:         planHandler,
		subscriptionHandler: subscriptionHandler,
		paymentHandler:      paymentHandler,
		donationHandler:     donationHandler,
		adminHandler:        adminHandler,
		financeHandler:      financeHandler,
		websocketHandler:    websocketHandler,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// Public
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
		}

		api.GET("/plans", r.planHandler.List)

		// Authenticated
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			subscriptions := authenticated.Group("/subscriptions")
			{
				subscriptions.GET("/current", r.subscriptionHandler.Current)
				subscriptions.POST("/create", r.subscriptionHandler.Create)
				subscriptions.POST("/cancel", r.subscriptionHandler.Cancel)
				subscriptions.POST("/downgrade-to-free", r.subscriptionHandler.DowngradeToFree)
			}

			payments := authenticated.Group("/payments")
			{
				payments.POST("/create-order", r.paymentHandler.CreateOrder)
				payments.POST("/verify", r.paymentHandler.Verify)
				payments.POST("/failure", r.paymentHandler.ReportFailure)
				payments.POST("/test-complete", r.paymentHandler.TestComplete)
				payments.GET("/transactions", r.paymentHandler.Transactions)
			}

			donations := authenticated.Group("/donations")
			{
				donations.POST("", r.donationHandler.Record)
				donations.GET("", r.donationHandler.List)
			}
		}

		// Admin
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret), middleware.AdminOnly())
		{
			admin.POST("/subscriptions/cancel", r.adminHandler.CancelSubscription)
			admin.POST("/subscriptions/change-tier", r.adminHandler.ChangeTier)
			admin.POST("/transactions/refund", r.adminHandler.Refund)
			admin.GET("/financials", r.financeHandler.Report)
		}
	}

	return engine
}
