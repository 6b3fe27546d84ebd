package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wms-platform/productivity-service/internal/api/handlers"
	"github.com/wms-platform/productivity-service/internal/application"
	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/internal/infrastructure/memory"
	mongoRepo "github.com/wms-platform/productivity-service/internal/infrastructure/mongodb"
	"github.com/wms-platform/productivity-service/internal/ingestion"
	"github.com/wms-platform/productivity-service/pkg/cloudevents"
	"github.com/wms-platform/productivity-service/pkg/contracts/asyncapi"
	"github.com/wms-platform/productivity-service/pkg/kafka"
	"github.com/wms-platform/productivity-service/pkg/logging"
	"github.com/wms-platform/productivity-service/pkg/metrics"
	"github.com/wms-platform/productivity-service/pkg/middleware"
	"github.com/wms-platform/productivity-service/pkg/mongodb"
	"github.com/wms-platform/productivity-service/pkg/tracing"
)

const serviceName = "productivity-service"

const (
	storeBackendMongo  = "mongodb"
	storeBackendMemory = "memory"
)

type mongoClient interface {
	Database() *mongo.Database
	Close(context.Context) error
	HealthCheck(context.Context) error
}

var newInstrumentedMongoClient = func(ctx context.Context, cfg *mongodb.Config, m *metrics.Metrics, logger *logging.Logger) (mongoClient, error) {
	client, err := mongodb.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return mongodb.NewInstrumentedClient(client, m, logger), nil
}

var newEventValidator = asyncapi.NewEventValidator

var newMetrics = metrics.New

var initTracing = tracing.Initialize

var startHTTPServer = func(srv *http.Server) error {
	return srv.ListenAndServe()
}

var startConsumer = func(ctx context.Context, consumer *kafka.InstrumentedConsumer) error {
	return consumer.Start(ctx)
}

func main() {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	if err := run(context.Background(), signalCh); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, signalCh <-chan os.Signal) error {
	// Setup enhanced logger
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting productivity-service API")

	// Load configuration
	config := loadConfig()

	// Initialize OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	tracingConfig.Environment = getEnv("ENVIRONMENT", "development")
	tracingConfig.Enabled = getEnv("TRACING_ENABLED", "true") == "true"

	tracerProvider, err := initTracing(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", tracingConfig.OTLPEndpoint)
	}

	// Initialize Prometheus metrics
	metricsConfig := metrics.DefaultConfig(serviceName)
	m := newMetrics(metricsConfig)
	logger.Info("Metrics initialized")

	// Initialize the event store and catalog repositories for the selected
	// backend. Mongo is the production path; memory backs local runs.
	var (
		workerRepo   domain.WorkerRepository
		zoneRepo     domain.ZoneRepository
		locationRepo domain.LocationRepository
		itemRepo     domain.ItemRepository
		orderRepo    domain.OrderRepository
		catalog      domain.Catalog
		eventStore   domain.EventStore
		readiness    = func() error { return nil }
	)

	switch config.StoreBackend {
	case storeBackendMongo:
		instrumentedMongo, err := newInstrumentedMongoClient(ctx, config.MongoDB, m, logger)
		if err != nil {
			logger.WithError(err).Error("Failed to connect to MongoDB")
			return err
		}
		defer instrumentedMongo.Close(ctx)

		db := instrumentedMongo.Database()
		workers := mongoRepo.NewWorkerRepository(db, m, logger)
		zones := mongoRepo.NewZoneRepository(db, m, logger)
		locations := mongoRepo.NewLocationRepository(db, m, logger)
		items := mongoRepo.NewItemRepository(db, m, logger)
		orders := mongoRepo.NewOrderRepository(db, m, logger)
		cat := mongoRepo.NewCatalog(workers, orders, items, locations)

		workerRepo, zoneRepo, locationRepo, itemRepo, orderRepo = workers, zones, locations, items, orders
		catalog = cat
		eventStore = mongoRepo.NewEventRepository(db, cat, m, logger)
		readiness = func() error { return instrumentedMongo.HealthCheck(ctx) }
		logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	case storeBackendMemory:
		workers := memory.NewWorkerStore()
		zones := memory.NewZoneStore()
		locations := memory.NewLocationStore()
		items := memory.NewItemStore()
		orders := memory.NewOrderStore()
		cat := memory.NewCatalog(workers, orders, items, locations)

		workerRepo, zoneRepo, locationRepo, itemRepo, orderRepo = workers, zones, locations, items, orders
		catalog = cat
		eventStore = memory.NewEventStore(cat)
		logger.Info("Using in-memory store")

	default:
		err := fmt.Errorf("unsupported store backend %q", config.StoreBackend)
		logger.WithError(err).Error("Invalid configuration")
		return err
	}

	// Initialize Kafka producer with instrumentation
	kafkaProducer := kafka.NewProducer(config.Kafka)
	instrumentedProducer := kafka.NewInstrumentedProducer(kafkaProducer, m, logger)
	defer instrumentedProducer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	// Initialize CloudEvents factory
	eventFactory := cloudevents.NewEventFactory(cloudevents.SourceProductivity)

	// Load the AsyncAPI contract the ingestion path validates against
	validator, err := newEventValidator(config.AsyncAPISpecPath)
	if err != nil {
		logger.WithError(err).Error("Failed to load AsyncAPI contract")
		return err
	}
	logger.Info("AsyncAPI contract loaded", "path", config.AsyncAPISpecPath)

	// Initialize application services
	reportConfig := application.DefaultReportConfig()
	if config.PicksBaseline > 0 {
		reportConfig.WorkerPicksBaseline = config.PicksBaseline
	}

	catalogService := application.NewCatalogService(workerRepo, zoneRepo, locationRepo, itemRepo, orderRepo, logger)
	pickService := application.NewPickService(eventStore, instrumentedProducer, eventFactory, m, logger, config.PublishTopic)
	reportService := application.NewReportService(eventStore, workerRepo, zoneRepo, itemRepo, catalog, reportConfig, m, logger)

	// Initialize and start the picking event consumer
	consumer := kafka.NewProductionConsumer(config.Kafka, m, logger)
	defer consumer.Close()

	ingestionHandler := ingestion.NewHandler(ingestion.Config{
		Store:        eventStore,
		Workers:      workerRepo,
		Items:        itemRepo,
		Locations:    locationRepo,
		Orders:       orderRepo,
		Validator:    validator,
		Publisher:    instrumentedProducer,
		EventFactory: eventFactory,
		Metrics:      m,
		Logger:       logger,
		ConsumeTopic: config.ConsumeTopic,
		PublishTopic: config.PublishTopic,
	})
	ingestionHandler.Register(consumer)

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	go func() {
		if err := startConsumer(consumerCtx, consumer); err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("Kafka consumer stopped")
		}
	}()
	logger.Info("Kafka consumer started", "topic", config.ConsumeTopic, "group", config.Kafka.ConsumerGroup)

	// Setup Gin router with middleware
	router := gin.New()

	// Apply standard middleware
	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middleware.Setup(router, middlewareConfig)

	// Add metrics middleware
	router.Use(middleware.MetricsMiddleware(m))

	// Add tracing middleware
	router.Use(middleware.SimpleTracingMiddleware(serviceName))

	// Handle 404 and 405 errors
	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	// Health check endpoints
	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, readiness))

	// Metrics endpoint
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	// API v1 routes
	v1 := router.Group("/api/v1")
	handlers.NewCatalogHandlers(catalogService, logger).RegisterRoutes(v1)
	handlers.NewPickHandlers(pickService, logger).RegisterRoutes(v1)
	handlers.NewReportHandlers(reportService, logger).RegisterRoutes(v1)

	// Start server
	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := startHTTPServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Server error")
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	// Wait for interrupt signal
	<-signalCh
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
	return nil
}

// Config holds application configuration
type Config struct {
	ServerAddr       string
	StoreBackend     string
	AsyncAPISpecPath string
	ConsumeTopic     string
	PublishTopic     string
	PicksBaseline    float64
	MongoDB          *mongodb.Config
	Kafka            *kafka.Config
}

func loadConfig() *Config {
	baseline, _ := strconv.ParseFloat(getEnv("WORKER_PICKS_BASELINE", "0"), 64)
	return &Config{
		ServerAddr:       getEnv("SERVER_ADDR", ":8020"),
		StoreBackend:     getEnv("STORE_BACKEND", storeBackendMongo),
		AsyncAPISpecPath: getEnv("ASYNCAPI_SPEC_PATH", "docs/asyncapi.yaml"),
		ConsumeTopic:     getEnv("PICKING_EVENTS_TOPIC", kafka.Topics.PickingEvents),
		PublishTopic:     getEnv("PRODUCTIVITY_EVENTS_TOPIC", kafka.Topics.ProductivityEvents),
		PicksBaseline:    baseline,
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "productivity_db"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: &kafka.Config{
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			ConsumerGroup: serviceName,
			ClientID:      serviceName,
			BatchSize:     100,
			BatchTimeout:  10 * time.Millisecond,
			RequiredAcks:  -1,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
