package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"podstore/internal/core/config"
	"podstore/internal/core/database"
	"podstore/internal/core/logger"
	"podstore/internal/core/queue"

	catalogadapters "podstore/internal/features/catalog/adapters"
	catalogservice "podstore/internal/features/catalog/service"
	ordersadapters "podstore/internal/features/orders/adapters"
	ordersservice "podstore/internal/features/orders/service"
	provideradapters "podstore/internal/features/providers/adapters"
	"podstore/internal/features/providers/registry"

	"go.uber.org/zap"
)

// The worker consumes the order fan-out and catalog sync queues. It shares
// the API's storage and provider wiring but serves no HTTP traffic.
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	jobQueue, err := queue.NewRedisQueue(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to create job queue", zap.Error(err))
	}
	defer jobQueue.Close()

	orderRepo := ordersadapters.NewPostgresOrderRepository(db)
	productRepo := catalogadapters.NewPostgresProductRepository(db)

	reg := registry.New(
		provideradapters.NewPrintroveAdapter(cfg.Providers.PrintroveAPIKey, cfg.Providers.PrintroveWebhookSecret, orderRepo),
		provideradapters.NewPrintfulAdapter(cfg.Providers.PrintfulAPIKey, cfg.Providers.PrintfulWebhookSecret, orderRepo),
		provideradapters.NewPrintifyAdapter(cfg.Providers.PrintifyAPIKey, cfg.Providers.PrintifyShopID, cfg.Providers.PrintifyWebhookSecret, orderRepo),
	)

	tracker := ordersadapters.NewGATracker(cfg.Analytics)
	fanout := ordersservice.NewFanoutService(orderRepo, reg, tracker)
	syncSvc := catalogservice.NewSyncService(reg, productRepo)

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumeOrders(ctx, jobQueue, fanout)
	}()
	go func() {
		defer wg.Done()
		consumeSync(ctx, jobQueue, syncSvc)
	}()

	log.Info("Worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Worker shutting down")
	cancel()
	wg.Wait()
}

func consumeOrders(ctx context.Context, q queue.Queue, fanout *ordersservice.FanoutService) {
	log := logger.Get()
	for {
		job, err := q.Dequeue(ctx, queue.OrderQueue)
		if errors.Is(err, context.Canceled) {
			return
		}
		if err != nil {
			log.Error("Order queue dequeue failed", zap.Error(err))
			continue
		}

		var payload ordersservice.OrderJob
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			log.Error("Malformed order job dropped",
				zap.String("job_id", job.ID), zap.Error(err))
			continue
		}

		if err := fanout.FanOut(ctx, payload.OrderID); err != nil {
			log.Error("Order fan-out failed",
				zap.String("job_id", job.ID),
				zap.String("order_id", payload.OrderID),
				zap.Error(err),
			)
		}
	}
}

func consumeSync(ctx context.Context, q queue.Queue, syncSvc *catalogservice.SyncService) {
	log := logger.Get()
	for {
		job, err := q.Dequeue(ctx, queue.SyncQueue)
		if errors.Is(err, context.Canceled) {
			return
		}
		if err != nil {
			log.Error("Sync queue dequeue failed", zap.Error(err))
			continue
		}

		var payload catalogservice.SyncJob
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			log.Error("Malformed sync job dropped",
				zap.String("job_id", job.ID), zap.Error(err))
			continue
		}

		if err := syncSvc.SyncProvider(ctx, payload.Provider); err != nil {
			log.Error("Catalog sync failed",
				zap.String("job_id", job.ID),
				zap.String("provider", string(payload.Provider)),
				zap.Error(err),
			)
		}
	}
}
