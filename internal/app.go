package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	token_adapter "listings-service/internal/adapters/jwt"
	logger_adapter "listings-service/internal/adapters/logger"
	postgres_adapter "listings-service/internal/adapters/postgres"
	rabbitmq_adapter "listings-service/internal/adapters/rabbitmq"
	"listings-service/internal/adapters/redis_cache"
	"listings-service/internal/adapters/rest"
	"listings-service/internal/configs"
	"listings-service/internal/constants"
	"listings-service/internal/contracts"
	"listings-service/internal/core/port"
	"listings-service/internal/core/usecase"
	fluentlogger "listings-service/pkg/fluent_logger"
	"listings-service/pkg/postgres"
	"listings-service/pkg/rabbitmq/rabbitmq_common"
	"listings-service/pkg/rabbitmq/rabbitmq_producer"
	"listings-service/pkg/redisclient"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 15 * time.Second

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	redisClient    *redis.Client
	connManager    *rabbitmq_common.ConnectionManager
	eventsProducer *rabbitmq_producer.Publisher
}

// NewApp создает приложение и связывает все зависимости
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- логгеры ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.StdoutLogger.JSON,
		UseColor: !appConfig.StdoutLogger.JSON,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		if fluentClient != nil {
			fluentClient.Close()
		}
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	application := &App{config: appConfig, fluentClient: fluentClient, logger: appLogger}

	// --- хранилище ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{
		DatabaseURL:     appConfig.Database.URL,
		MaxConns:        appConfig.Database.MaxConns,
		MaxConnLifetime: appConfig.Database.MaxConnLifetime,
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		application.closeResources()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	application.dbPool = dbPool
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	listingRepository, err := postgres_adapter.NewPostgresListingRepository(dbPool)
	if err != nil {
		appLogger.Error("Failed to create postgres listing repository", err, nil)
		application.closeResources()
		return nil, fmt.Errorf("failed to create postgres listing repository: %w", err)
	}

	var listingStorage port.ListingStoragePort = listingRepository
	if appConfig.Redis.Enabled {
		redisClient, err := redisclient.NewClient(context.Background(), redisclient.Config{
			Addr:     appConfig.Redis.Addr,
			Password: appConfig.Redis.Password,
			DB:       appConfig.Redis.DB,
		})
		if err != nil {
			appLogger.Error("Failed to connect to Redis", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		application.redisClient = redisClient

		cachedStorage, err := redis_cache.NewCachedListingStorage(listingRepository, redisClient, appConfig.Redis.TTL)
		if err != nil {
			application.closeResources()
			return nil, err
		}
		listingStorage = cachedStorage
		appLogger.Info("Redis search cache enabled.", port.Fields{"ttl": appConfig.Redis.TTL.String()})
	}

	// --- события ---
	var listingEvents port.ListingEventsPort = rabbitmq_adapter.NewNoopListingEventsAdapter()
	if appConfig.RabbitMQ.Enabled {
		if err := contracts.Load(); err != nil {
			appLogger.Error("Failed to compile event schemas", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to compile event schemas: %w", err)
		}

		connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
		connManager, err := rabbitmq_common.NewManager(rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL}, connManagerBridge)
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		application.connManager = connManager

		eventsProducer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			ExchangeName:             constants.ListingsExchange,
			ExchangeType:             constants.ListingsExchangeType,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
		}, connManager)
		if err != nil {
			appLogger.Error("Failed to create event producer", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to create event producer: %w", err)
		}
		application.eventsProducer = eventsProducer

		rabbitEvents, err := rabbitmq_adapter.NewRabbitMQListingEventsAdapter(eventsProducer)
		if err != nil {
			application.closeResources()
			return nil, err
		}
		listingEvents = rabbitEvents
		appLogger.Info("RabbitMQ listing events producer initialized.", nil)
	} else {
		appLogger.Warn("RabbitMQ is disabled, listing events will not be published", nil)
	}

	sessionService, err := token_adapter.NewSessionService(appConfig.Auth.JWTSecret, appConfig.Auth.Issuer)
	if err != nil {
		application.closeResources()
		return nil, fmt.Errorf("failed to create session service: %w", err)
	}

	// --- use cases ---
	findListingsUC := usecase.NewFindListingsUseCase(listingStorage)
	getListingUC := usecase.NewGetListingUseCase(listingStorage)
	createListingUC := usecase.NewCreateListingUseCase(listingStorage, listingEvents)
	updateListingUC := usecase.NewUpdateListingUseCase(listingStorage, listingEvents)
	deleteListingUC := usecase.NewDeleteListingUseCase(listingStorage, listingEvents)
	addImageUC := usecase.NewAddListingImageUseCase(listingStorage)
	getDictionariesUC := usecase.NewGetDictionariesUseCase()
	appLogger.Info("All use cases initialized.", nil)

	// --- REST ---
	listingsHandler := rest.NewListingsHandler(findListingsUC, getListingUC, createListingUC, updateListingUC, deleteListingUC, addImageUC)
	dictionariesHandler := rest.NewDictionariesHandler(getDictionariesUC)
	authMiddleware := rest.NewAuthMiddleware(sessionService, appConfig.Auth.SignInURL)

	router := rest.NewRouter(listingsHandler, dictionariesHandler, authMiddleware, appConfig.AllowedOrigins, baseLogger)
	application.apiServer = rest.NewServer(appConfig.Port, router, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return application, nil
}

// Run запускает HTTP-сервер и ждет сигнала на завершение
func (a *App) Run() error {
	defer a.shutdown()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", port.Fields{"port": a.config.Port})
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
		return nil
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
		return err
	}
}

func (a *App) shutdown() {
	a.logger.Info("Shutdown sequence initiated...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.apiServer != nil {
		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}
	}

	a.logger.Info("Application shut down gracefully.", nil)
	a.closeResources()
}

// closeResources закрывает внешние соединения в обратном порядке создания
func (a *App) closeResources() {
	if a.eventsProducer != nil {
		if err := a.eventsProducer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
		a.eventsProducer = nil
	}

	if a.connManager != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.connManager.Close(ctx); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
		cancel()
		a.connManager = nil
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Error closing Redis client", err, nil)
		}
		a.redisClient = nil
	}

	if a.dbPool != nil {
		a.dbPool.Close()
		a.dbPool = nil
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	// fluent закрывается последним: до этого момента в него еще пишут логи
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent уже может быть недоступен
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
		a.fluentClient = nil
	}
}
