package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/assistant"
	"github.com/Nivash8098/E-Commerece-Website/internal/backend"
	"github.com/Nivash8098/E-Commerece-Website/internal/cache"
	"github.com/Nivash8098/E-Commerece-Website/internal/cart"
	"github.com/Nivash8098/E-Commerece-Website/internal/catalog"
	"github.com/Nivash8098/E-Commerece-Website/internal/checkout"
	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	apphttp "github.com/Nivash8098/E-Commerece-Website/internal/http"
	"github.com/Nivash8098/E-Commerece-Website/internal/journal"
	"github.com/Nivash8098/E-Commerece-Website/internal/publisher"
	"github.com/Nivash8098/E-Commerece-Website/internal/repository"
	"github.com/Nivash8098/E-Commerece-Website/internal/session"
	"github.com/Nivash8098/E-Commerece-Website/internal/storefront"
	"github.com/Nivash8098/E-Commerece-Website/internal/tracking"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	client := backend.NewClient(backend.Config{
		BaseURL:          cfg.Backend.BaseURL,
		Timeout:          cfg.Backend.Timeout,
		BreakerFailures:  cfg.Backend.BreakerFailures,
		BreakerOpenDelay: cfg.Backend.BreakerOpenDelay,
	}, log)

	identities, closeIdentities, err := openIdentities()
	if err != nil {
		return err
	}
	defer closeIdentities()

	persister, closePersister, err := openCartPersistence(ctx)
	if err != nil {
		return err
	}
	defer closePersister()

	orders, err := journal.Open(cfg.Storage.OrderStoreDriver, cfg.Storage.OrderStoreDSN, log)
	if err != nil {
		return err
	}
	defer orders.Close()
	if err := orders.RunMigrations(); err != nil {
		return err
	}

	tracker := tracking.NewScheduler(tracking.RealClock(), []tracking.Step{
		{Delay: cfg.Tracking.ShipAfter, Status: domain.OrderStatusShipped},
		{Delay: cfg.Tracking.DispatchAfter, Status: domain.OrderStatusOutForDelivery},
	}, orders, log)
	defer tracker.Stop()

	pollerDone := make(chan struct{})
	pollCtx, cancelPoll := context.WithCancel(ctx)
	if len(cfg.Kafka.Brokers) > 0 {
		poller := publisher.NewOutboxPoller(orders,
			publisher.NewKafkaWriter(cfg.Kafka.Topic, cfg.Kafka.Brokers...), cfg.Kafka.PollPeriod, log)
		go func() {
			defer close(pollerDone)
			poller.Run(pollCtx)
		}()
	} else {
		close(pollerDone)
	}
	defer func() {
		cancelPoll()
		<-pollerDone
	}()

	var gen assistant.Generator
	if g, err := assistant.NewGeminiGenerator(ctx, cfg.Assistant.APIKey, cfg.Assistant.Model); err != nil {
		log.Warn("assistant disabled", zap.Error(err))
	} else {
		gen = g
	}

	registry := storefront.NewRegistry(storefront.Deps{
		Submitter:      client,
		Authenticator:  client,
		Identities:     identities,
		Persister:      persister,
		OrderListeners: []checkout.OrderListener{orders, tracker},
		Describe:       client.Describe,
		Logger:         log,

		IdleTimeout:     cfg.Sessions.IdleTimeout,
		CleanupInterval: cfg.Sessions.CleanupInterval,
	})
	defer registry.Close()

	srv := &http.Server{
		Addr: ":" + cfg.HTTP.Port,
		Handler: apphttp.NewRouter(apphttp.RouterConfig{
			Sessions:           registry,
			Catalog:            catalog.NewService(client, client.Describe, log),
			Tracker:            tracker,
			Uploader:           client,
			Assistant:          assistant.New(gen, log),
			Describe:           client.Describe,
			Logger:             log,
			RequestTimeout:     cfg.HTTP.RequestTimeout,
			MaxRequestBodySize: cfg.HTTP.MaxRequestBodySize,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTP.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("storefront starting", zap.String("addr", srv.Addr), zap.String("backend", client.BaseURL()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}

func openIdentities() (session.Storage, func(), error) {
	if cfg.Storage.TokenDBPath == "" {
		return session.NewMemoryStorage(), func() {}, nil
	}
	store, err := session.OpenBoltStorage(cfg.Storage.TokenDBPath)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

// openCartPersistence connects whichever of Redis and MongoDB is configured.
// With neither, carts live only in memory.
func openCartPersistence(ctx context.Context) (*cart.Persister, func(), error) {
	var (
		repo    repository.CartRepository
		c       cache.CartCache
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Storage.MongoURI != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		db, err := repository.ConnectMongoDB(connectCtx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = db.Client().Disconnect(context.Background()) })

		mongoRepo := repository.NewMongoRepository(db)
		if err := mongoRepo.CreateIndexes(connectCtx); err != nil {
			closeAll()
			return nil, nil, err
		}
		repo = mongoRepo
	}

	if cfg.Storage.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Storage.RedisAddr})
		closers = append(closers, func() { _ = rdb.Close() })
		c = cache.NewRedisCache(rdb, cfg.Storage.CartCacheTTL)
	}

	if repo == nil && c == nil {
		return nil, func() {}, nil
	}
	return cart.NewPersister(repo, c, log), closeAll, nil
}

