package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/sahaaya/sahaaya_server/config"
	"github.com/sahaaya/sahaaya_server/internal/database"
	"github.com/sahaaya/sahaaya_server/internal/pkg/queue"
	"github.com/sahaaya/sahaaya_server/internal/repository"
	"github.com/sahaaya/sahaaya_server/internal/service"
)

var (
	expireSubs     = flag.Bool("expire-subs", true, "Expire lapsed subscriptions")
	expirePayments = flag.Bool("expire-payments", true, "Fail pending payments past the checkout window")
)

// One-shot sweep for deployments that prefer an external scheduler over the
// in-process ticker.
func main() {
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	// Notifications still go through redis when available.
	var notifier *service.Notifier
	if rdb, err := database.NewRedis(&cfg.Redis); err == nil {
		notifier = service.NewNotifier(queue.NewQueue(rdb, cfg.Queue.NotificationQueue))
	} else {
		log.Printf("Redis unavailable, notifications skipped: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	txnRepo := repository.NewTransactionRepository(db)

	subService := service.NewSubscriptionService(db, userRepo, subRepo, planRepo, notifier, cfg)
	billingService := service.NewBillingService(db, txnRepo, planRepo, userRepo, subService, nil, notifier, nil, nil, cfg)

	now := time.Now()

	if *expireSubs {
		n, err := subService.ExpireLapsed(now)
		if err != nil {
			log.Fatalf("Failed to expire subscriptions: %v", err)
		}
		log.Printf("Expired %d lapsed subscriptions", n)
	}

	if *expirePayments {
		cutoff := now.Add(-time.Duration(cfg.Payment.PendingExpireHours) * time.Hour)
		n, err := billingService.ExpirePending(cutoff)
		if err != nil {
			log.Fatalf("Failed to expire pending payments: %v", err)
		}
		log.Printf("Expired %d pending payments", n)
	}
}
