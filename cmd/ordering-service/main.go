package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	awspkg "github.com/ovaldezb/aws-microservices/pkg/aws"
	ddbpkg "github.com/ovaldezb/aws-microservices/pkg/dynamodb"
	"github.com/ovaldezb/aws-microservices/pkg/logger"
	"github.com/ovaldezb/aws-microservices/services/ordering/config"
	"github.com/ovaldezb/aws-microservices/services/ordering/consumer"
	"github.com/ovaldezb/aws-microservices/services/ordering/controllers"
	"github.com/ovaldezb/aws-microservices/services/ordering/repository"
	"github.com/ovaldezb/aws-microservices/services/ordering/routes"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	awsCfg, err := awspkg.LoadAWSConfig(context.Background())
	if err != nil {
		log.Fatalf("failed to load AWS config: %v", err)
	}

	cwWriter, err := awspkg.NewCloudWatchLogsClient(context.Background(), awsCfg, "ordering-service")
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

	if cfg.OrderQueueURL == "" {
		zlog.Fatal("ORDER_QUEUE_URL is required")
	}
	if cfg.DeadLetterURL == "" {
		zlog.Fatal("ORDER_DLQ_URL is required")
	}

	ddbClient := ddbpkg.NewClientFromConfig(awsCfg)
	repo := repository.NewDynamoOrderRepository(ddbClient, cfg.OrderTable)
	metrics := awspkg.NewMetricsClient(awsCfg)

	sqsClient := sqs.NewFromConfig(awsCfg)
	orderQueue := awspkg.NewQueueWithClient(sqsClient, cfg.OrderQueueURL)
	deadLetter := awspkg.NewQueueWithClient(sqsClient, cfg.DeadLetterURL)
	alerts := awspkg.NewSNSClient(awsCfg)

	orderConsumer := consumer.NewSQSOrderConsumer(
		orderQueue,
		deadLetter,
		repo,
		alerts,
		cfg.AlertTopicARN,
		metrics,
		zlog,
		consumer.Options{
			MaxMessages:     cfg.MaxMessages,
			WaitTime:        cfg.WaitTime,
			Visibility:      cfg.Visibility,
			MaxReceiveCount: cfg.MaxReceiveCount,
		},
	)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	go orderConsumer.Start(consumerCtx)

	controller := controllers.NewOrderController(repo, zlog)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestLogger(zlog))
	routes.RegisterOrderRoutes(router, controller)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("ordering service listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zlog.Info("shutting down gracefully")
	stopConsumer()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("shutdown error", zap.Error(err))
	}
}
