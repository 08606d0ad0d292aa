package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"odilusta/pkg/logger"
	"odilusta/workshop-service/internal/app/workshop/config"
	"odilusta/workshop-service/internal/app/workshop/entity"
	"odilusta/workshop-service/internal/app/workshop/handler"
	"odilusta/workshop-service/internal/app/workshop/infrastructure/messaging"
	"odilusta/workshop-service/internal/app/workshop/repository"
	"odilusta/workshop-service/internal/app/workshop/service"
	"odilusta/workshop-service/internal/app/workshop/session"
	"odilusta/workshop-service/internal/app/workshop/state"
	"odilusta/workshop-service/internal/app/workshop/store"
)

func main() {
	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	cfg := config.Load()

	logger.Init("workshop-service", cfg.LogLevel)

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Кеш списка товаров внешнего хранилища
	redisCache, err := store.NewRedisClient(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB, cfg.Store.CacheTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisCache.Close()
	logger.Info().Msg("Successfully connected to Redis")

	// === ПОДКЛЮЧЕНИЕ К MONGODB ===
	// Архив оформленных заказов
	mongoClient, err := connectMongo(context.Background(), cfg.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to disconnect from MongoDB")
		}
	}()
	logger.Info().Msg("Successfully connected to MongoDB")

	// === ИНИЦИАЛИЗАЦИЯ KAFKA PRODUCER ===
	// Событие ORDER_PLACED в топик order-events
	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().Msg("Successfully initialized Kafka producer")

	// === СЛОИ ПРИЛОЖЕНИЯ ===
	storeClient := store.NewClient(cfg.Store.BaseURL, cfg.Store.Timeout)
	cachedStore := store.NewCachedStore(storeClient, redisCache)
	catalog := state.NewCatalogState(cachedStore)
	catalog.Subscribe(func(products []entity.Product) {
		logger.Debug().Int("products", len(products)).Msg("Catalog snapshot replaced")
	})
	sessions := session.NewManager(cfg.Session.IdleTTL)

	orderRepo := repository.NewOrderRepository(mongoClient.Database(cfg.Mongo.Database))
	workshopService := service.NewWorkshopService(catalog, sessions, orderRepo, kafkaProducer)
	workshopHandler := handler.NewWorkshopHandler(workshopService)
	router := handler.SetupRoutes(workshopHandler, sessions)

	// === ПЕРВИЧНАЯ ЗАГРУЗКА КАТАЛОГА ===
	// Отказ хранилища на старте не фатален: сервис поднимается
	// с пустым каталогом, обновление можно повторить позже
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := workshopService.RefreshCatalog(startupCtx); err != nil {
		logger.Warn().Err(err).Msg("Initial catalog load failed, starting with empty catalog")
	} else {
		logger.Info().Int("products", catalog.Len()).Msg("Catalog loaded")
	}
	startupCancel()

	// === ЧИСТКА ПРОСТАИВАЮЩИХ СЕССИЙ ===
	janitor := session.NewJanitor(sessions)
	if err := janitor.Start(cfg.Session.SweepSchedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start session janitor")
	}
	defer janitor.Stop()

	// === НАСТРОЙКА HTTP СЕРВЕРА ===
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// === ЗАПУСК HTTP СЕРВЕРА ===
	go func() {
		logger.Info().Str("addr", cfg.Server.Address()).Msg("Starting Workshop Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Workshop Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Workshop Service stopped gracefully")
}

// connectMongo устанавливает соединение с MongoDB
// Retry logic с 10 попытками для устойчивости при запуске в Docker
func connectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(50).
		SetServerSelectionTimeout(5 * time.Second)

	var client *mongo.Client
	var err error
	for i := 0; i < 10; i++ {
		client, err = mongo.Connect(ctx, opts)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = client.Ping(pingCtx, nil)
			cancel()
			if err == nil {
				return client, nil
			}
			client.Disconnect(ctx)
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to MongoDB, retrying")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
