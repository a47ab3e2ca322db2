package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/balazs-web/smoky-fish-sub000/internal/adapters/branding"
	"github.com/balazs-web/smoky-fish-sub000/internal/adapters/catalog"
	"github.com/balazs-web/smoky-fish-sub000/internal/adapters/events"
	"github.com/balazs-web/smoky-fish-sub000/internal/adapters/sessionstore"
	"github.com/balazs-web/smoky-fish-sub000/internal/adapters/storage"
	"github.com/balazs-web/smoky-fish-sub000/internal/basket"
	"github.com/balazs-web/smoky-fish-sub000/internal/config"
	"github.com/balazs-web/smoky-fish-sub000/internal/handlers/httphandlers"
	"github.com/balazs-web/smoky-fish-sub000/internal/metrics"
	"github.com/balazs-web/smoky-fish-sub000/internal/notify"
	"github.com/balazs-web/smoky-fish-sub000/internal/ports"
	"github.com/balazs-web/smoky-fish-sub000/internal/runner"
	"github.com/balazs-web/smoky-fish-sub000/internal/service"
	pkgkafka "github.com/balazs-web/smoky-fish-sub000/pkg/kafka"
	"github.com/balazs-web/smoky-fish-sub000/pkg/logger"
	"github.com/balazs-web/smoky-fish-sub000/pkg/postgres"
)

func main() {
	// .env is a local dev convenience, absence is fine
	_ = godotenv.Load()

	ctx := context.Background()

	// use OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	// put a new zap logger into context
	// from now on, all packages PURELY HOPE that the logger is there (otherwise the service explodes)
	ctx, _ = logger.New(ctx)

	cfg, err := config.TryRead()
	if err != nil {
		logger.GetLoggerFromCtx(ctx).Fatal(ctx, "failed to load config", zap.Error(err))
	}

	checkoutCfg := cfg.Checkout

	//region connections

	pool, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		logger.GetLoggerFromCtx(ctx).Fatal(ctx, "failed to connect to postgres", zap.Error(err))
	}
	logger.GetLoggerFromCtx(ctx).Info(ctx, "connected to postgres")

	if err = storage.Migrate(ctx, pool); err != nil {
		logger.GetLoggerFromCtx(ctx).Fatal(ctx, "failed to run migrations", zap.Error(err))
	}

	var eventPublisher ports.OrderEventPublisher
	var kafkaWriter *kafkago.Writer
	if len(cfg.Kafka.Brokers) > 0 {
		if err = pkgkafka.CreateTopicIfNotExists(cfg.Kafka, checkoutCfg.KafkaTopic, 1, 1); err != nil {
			logger.GetLoggerFromCtx(ctx).Fatal(ctx, "failed to create kafka topic", zap.Error(err))
		}
		writer := pkgkafka.NewWriter(cfg.Kafka, checkoutCfg.KafkaTopic)
		eventPublisher = events.NewKafkaPublisher(writer)
		kafkaWriter = writer
	} else {
		logger.GetLoggerFromCtx(ctx).Info(ctx, "no kafka brokers configured, order events disabled")
	}

	var sessionStore ports.SessionStore
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err = redisClient.Ping(ctx).Err(); err != nil {
			logger.GetLoggerFromCtx(ctx).Fatal(ctx, "failed to connect to redis", zap.Error(err))
		}
		sessionStore = sessionstore.NewRedis(redisClient, checkoutCfg.SessionTTL())
		logger.GetLoggerFromCtx(ctx).Info(ctx, "connected to redis")
	} else {
		sessionStore = sessionstore.NewMemory()
		logger.GetLoggerFromCtx(ctx).Info(ctx, "no redis configured, sessions kept in memory")
	}
	//endregion

	//region service
	catalogClient := catalog.NewHTTPClient(checkoutCfg.CatalogBaseURL, checkoutCfg.ClientTimeout())
	brandingClient := branding.NewHTTPClient(checkoutCfg.BrandingBaseURL, checkoutCfg.FallbackSiteName,
		checkoutCfg.ClientTimeout(), checkoutCfg.BrandingCacheTTL())

	dispatcher := notify.NewDispatcher(
		notify.NewSMTPTransport(cfg.SMTP),
		brandingClient,
		checkoutCfg.OperatorEmail,
		notify.DefaultRetryPolicy,
	)

	storageAdapter := storage.NewOrdersStoragePostgres(pool)
	orderService := service.NewOrderService(storageAdapter, dispatcher, eventPublisher,
		catalogClient, checkoutCfg.OrderIDPrefix)
	sessionService := service.NewSessionService(sessionStore, catalogClient, basket.Pricing{
		ShippingCost:          checkoutCfg.ShippingCost,
		FreeShippingThreshold: checkoutCfg.FreeShippingThreshold,
	})
	//endregion

	handler := httphandlers.NewHandler(orderService, sessionService, metrics.NewCheckoutMetrics())

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", checkoutCfg.HTTPPort),
		Handler: httphandlers.NewRouter(handler, logger.GetLoggerFromCtx(ctx)),
	}
	go runner.RunHTTP(ctx, httpServer)

	<-ctx.Done()

	var shutdownWg sync.WaitGroup
	shutdownWg.Add(2)

	// shutdowns don't include wg itself, so I wrap them in unnamed goroutines
	go func() {
		defer shutdownWg.Done()
		runner.ShutdownHTTP(ctx, httpServer)
		logger.GetLoggerFromCtx(ctx).Info(ctx, "server stopped")
	}()
	go func() {
		defer shutdownWg.Done()
		pool.Close()
		logger.GetLoggerFromCtx(ctx).Info(ctx, "postgres pool stopped")
	}()
	if kafkaWriter != nil {
		shutdownWg.Add(1)
		go func() {
			defer shutdownWg.Done()
			if err := kafkaWriter.Close(); err != nil {
				logger.GetLoggerFromCtx(ctx).Error(ctx, "error while closing kafka writer", zap.Error(err))
			}
			logger.GetLoggerFromCtx(ctx).Info(ctx, "kafka writer stopped")
		}()
	}
	if redisClient != nil {
		shutdownWg.Add(1)
		go func() {
			defer shutdownWg.Done()
			if err := redisClient.Close(); err != nil {
				logger.GetLoggerFromCtx(ctx).Error(ctx, "error while closing redis client", zap.Error(err))
			}
			logger.GetLoggerFromCtx(ctx).Info(ctx, "redis client stopped")
		}()
	}

	shutdownWg.Wait()
}
