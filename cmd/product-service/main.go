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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	awspkg "github.com/ovaldezb/aws-microservices/pkg/aws"
	ddbpkg "github.com/ovaldezb/aws-microservices/pkg/dynamodb"
	"github.com/ovaldezb/aws-microservices/pkg/logger"
	"github.com/ovaldezb/aws-microservices/services/product/cache"
	"github.com/ovaldezb/aws-microservices/services/product/config"
	"github.com/ovaldezb/aws-microservices/services/product/controllers"
	"github.com/ovaldezb/aws-microservices/services/product/repository"
	"github.com/ovaldezb/aws-microservices/services/product/routes"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	zlog := logger.Initialize(cfg.Env)
	defer zlog.Sync()

	awsCfg, err := awspkg.LoadAWSConfig(context.Background())
	if err != nil {
		log.Fatalf("failed to load AWS config: %v", err)
	}

	ddbClient := ddbpkg.NewClientFromConfig(awsCfg)
	repo := repository.NewDynamoProductRepository(ddbClient, cfg.ProductTable)

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zlog.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		redisClient = redis.NewClient(opts)
	}
	productCache := cache.NewProductCache(redisClient, cfg.CacheTTL, zlog)

	s3Client := awspkg.NewS3Client(awsCfg)
	controller := controllers.NewProductController(repo, productCache, s3Client, cfg.ImageBucket, zlog)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestLogger(zlog))
	routes.RegisterProductRoutes(router, controller)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("product service listening", zap.String("port", cfg.Port))
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
