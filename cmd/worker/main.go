package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sahaaya/sahaaya_server/config"
	"github.com/sahaaya/sahaaya_server/internal/database"
	"github.com/sahaaya/sahaaya_server/internal/pkg/email"
	"github.com/sahaaya/sahaaya_server/internal/pkg/queue"
	"github.com/sahaaya/sahaaya_server/internal/worker"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	notificationQueue := queue.NewQueue(rdb, cfg.Queue.NotificationQueue)
	emailService := email.NewService(&cfg.Email)
	processor := worker.NewProcessor(emailService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	workers := cfg.Queue.MaxWorkers
	if workers <= 0 {
		workers = 2
	}
	log.Printf("Notification worker started, workers: %d", workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			processor.Run(ctx, notificationQueue)
		}()
	}
	wg.Wait()
	log.Println("Worker stopped")
}
