package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	awspkg "github.com/ovaldezb/aws-microservices/pkg/aws"
	ddbpkg "github.com/ovaldezb/aws-microservices/pkg/dynamodb"
	"github.com/ovaldezb/aws-microservices/pkg/errs"
	"github.com/ovaldezb/aws-microservices/pkg/logger"
	"github.com/ovaldezb/aws-microservices/services/basket/config"
	"github.com/ovaldezb/aws-microservices/services/basket/controllers"
	"github.com/ovaldezb/aws-microservices/services/basket/repository"
	"github.com/ovaldezb/aws-microservices/services/basket/routes"
	"github.com/ovaldezb/aws-microservices/services/basket/services"
	"github.com/ovaldezb/aws-microservices/services/events"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	awsCfg, err := awspkg.LoadAWSConfig(context.Background())
	if err != nil {
		log.Fatalf("failed to load AWS config: %v", err)
	}

	cwWriter, err := awspkg.NewCloudWatchLogsClient(context.Background(), awsCfg, "basket-service")
	if err != nil {
		log.Fatalf("failed to init CloudWatch logs: %v", err)
	}
	var zlog *zap.Logger
	if cwWriter.IsEnabled() {
		zlog = logger.InitializeWithWriter(cfg.Env, cwWriter)
	} else {
		zlog = logger.Initialize(cfg.Env)
	}
	defer zlog.Sync()

	ddbClient := ddbpkg.NewClientFromConfig(awsCfg)
	repo := repository.NewDynamoBasketRepository(ddbClient, cfg.BasketTable)
	metrics := awspkg.NewMetricsClient(awsCfg)

	// In local mode checkout events route in-process straight into the
	// order queue; in AWS the bus rule does the same matching externally.
	var publisher events.Publisher
	if cfg.LocalBus {
		orderQueue := awspkg.NewQueue(awsCfg, cfg.OrderQueueURL)
		publisher = events.NewRouter(zlog, metrics, events.Rule{
			Source:     cfg.EventSource,
			DetailType: cfg.EventDetailType,
			Destinations: []events.Destination{
				events.NewQueueDestination("order-queue", orderQueue),
			},
		})
	} else {
		busClient := awspkg.NewEventBusClient(awsCfg, cfg.EventBusName)
		publisher = events.NewEventBridgePublisher(busClient)
	}

	checkout := services.NewCheckoutService(repo, publisher, metrics, zlog, cfg.EventSource, cfg.EventDetailType)
	controller := controllers.NewBasketController(repo, checkout, zlog)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestLogger(zlog), errs.ErrorMiddleware())
	routes.RegisterBasketRoutes(router, controller)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("basket service listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zlog.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("shutdown error", zap.Error(err))
	}
}
