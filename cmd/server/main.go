package main

import (
	"fmt"
	"log"
	"time"

	"github.com/sahaaya/sahaaya_server/config"
	"github.com/sahaaya/sahaaya_server/internal/api"
	"github.com/sahaaya/sahaaya_server/internal/api/handler"
	"github.com/sahaaya/sahaaya_server/internal/database"
	"github.com/sahaaya/sahaaya_server/internal/pkg/cron"
	"github.com/sahaaya/sahaaya_server/internal/pkg/oss"
	"github.com/sahaaya/sahaaya_server/internal/pkg/payment"
	"github.com/sahaaya/sahaaya_server/internal/pkg/queue"
	"github.com/sahaaya/sahaaya_server/internal/pkg/ws"
	"github.com/sahaaya/sahaaya_server/internal/repository"
	"github.com/sahaaya/sahaaya_server/internal/service"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	notificationQueue := queue.NewQueue(rdb, cfg.Queue.NotificationQueue)
	notifier := service.NewNotifier(notificationQueue)

	// OSS is optional; without it invoices are not uploaded.
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	var gateway payment.Gateway
	if cfg.Payment.Mode == "test" {
		gateway = payment.NewSimulatedGateway(cfg.Payment.KeySecret)
		log.Println("Payment gateway: simulated (test mode)")
	} else {
		gateway = payment.NewRazorpayGateway(cfg.Payment.KeyID, cfg.Payment.KeySecret, cfg.Payment.BaseURL)
	}

	wsHub := ws.NewHub()

	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	fundingRepo := repository.NewFundingRequestRepository(db)

	if err := planRepo.EnsureDefaults(); err != nil {
		log.Fatalf("Failed to seed plans: %v", err)
	}

	authService := service.NewAuthService(userRepo, cfg)
	planService := service.NewPlanService(planRepo)
	subService := service.NewSubscriptionService(db, userRepo, subRepo, planRepo, notifier, cfg)
	billingService := service.NewBillingService(db, txnRepo, planRepo, userRepo, subService, gateway, notifier, wsHub, ossClient, cfg)
	adminService := service.NewAdminService(db, userRepo, subRepo, planRepo, txnRepo, subService, notifier, cfg)
	financeService := service.NewFinanceService(txnRepo, donationRepo, fundingRepo)
	donationService := service.NewDonationService(donationRepo, userRepo, cfg)

	authHandler := handler.NewAuthHandler(authService)
	planHandler := handler.NewPlanHandler(planService)
	subscriptionHandler := handler.NewSubscriptionHandler(subService)
	paymentHandler := handler.NewPaymentHandler(billingService)
	donationHandler := handler.NewDonationHandler(donationService)
	adminHandler := handler.NewAdminHandler(adminService)
	financeHandler := handler.NewFinanceHandler(financeService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// Lifecycle sweeps run in-process alongside the API.
	pendingWindow := time.Duration(cfg.Payment.PendingExpireHours) * time.Hour
	sweeper := cron.NewSweeper(time.Hour,
		cron.Job{Name: "expire-lapsed-subscriptions", Run: subService.ExpireLapsed},
		cron.Job{Name: "expire-pending-payments", Run: func(now time.Time) (int, error) {
			return billingService.ExpirePending(now.Add(-pendingWindow))
		}},
	)
	sweeper.Start()
	defer sweeper.Stop()
	log.Println("Lifecycle sweeper started")

	router := api.NewRouter(
		authHandler,
		planHandler,
		subscriptionHandler,
		paymentHandler,
		donationHandler,
		adminHandler,
		financeHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
