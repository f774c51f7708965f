package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/stylofitness/storefront-api/internal/broker"
	"github.com/stylofitness/storefront-api/internal/config"
	"github.com/stylofitness/storefront-api/internal/handler"
	"github.com/stylofitness/storefront-api/internal/repository"
	"github.com/stylofitness/storefront-api/internal/repository/memory"
	"github.com/stylofitness/storefront-api/internal/seed"
	"github.com/stylofitness/storefront-api/internal/service"
	"github.com/stylofitness/storefront-api/internal/telemetry"
	"github.com/stylofitness/storefront-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("load config", "error", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	gin.SetMode(gin.ReleaseMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry.Endpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		log.Error("init tracing", "error", err)
		os.Exit(1)
	}

	// Storage
	var (
		store  *repository.Store
		dbPool *pgxpool.Pool
	)
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
		if err != nil {
			log.Error("parse db config", "error", err)
			os.Exit(1)
		}
		poolCfg.MaxConns = cfg.DB.MaxConns

		dbPool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			log.Error("connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		if err := dbPool.Ping(ctx); err != nil {
			log.Error("ping database", "error", err)
			os.Exit(1)
		}
		if err := repository.Migrate(ctx, dbPool); err != nil {
			log.Error("migrate database", "error", err)
			os.Exit(1)
		}
		store = repository.NewPostgresStore(dbPool)
		log.Info("connected to PostgreSQL")
	default:
		store = memory.NewStore()
		log.Info("using in-memory storage")
	}

	if cfg.Storage.Seed {
		if err := seed.Run(ctx, store, log); err != nil {
			log.Error("seed store", "error", err)
			os.Exit(1)
		}
	}

	// Redis
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Error("connect to Redis", "error", err)
			os.Exit(1)
		}
		log.Info("connected to Redis")
	}

	// RabbitMQ
	var (
		amqpConn  *amqp.Connection
		amqpCh    *amqp.Channel
		publisher service.EventPublisher
	)
	if cfg.RabbitMQ.Enabled {
		amqpConn, err = amqp.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			log.Error("connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer amqpConn.Close()

		amqpCh, err = amqpConn.Channel()
		if err != nil {
			log.Error("open RabbitMQ channel", "error", err)
			os.Exit(1)
		}
		defer amqpCh.Close()

		if err := broker.Setup(amqpCh, cfg.RabbitMQ.Exchange, service.EventOrderStatusChanged); err != nil {
			log.Error("setup RabbitMQ", "error", err)
			os.Exit(1)
		}
		publisher = broker.NewPublisher(amqpCh, cfg.RabbitMQ.Exchange)
		log.Info("connected to RabbitMQ")
	}

	// Services
	cache := service.NewProductCache(redisClient)
	authSvc := service.NewAuthService(store.Users, cfg.JWT.Secret, cfg.JWT.Expiration)
	productSvc := service.NewProductService(store.Products, cache)
	stockSvc := service.NewStockService(store.Stock, store.Products, cache, publisher, log)
	cartSvc := service.NewCartService(store.Carts, store.Products)
	orderSvc := service.NewOrderService(store.Orders, store.Carts, store.Products, publisher,
		service.DeliveryETA{Pickup: cfg.Orders.PickupETA, Delivery: cfg.Orders.DeliveryETA}, log)

	router := handler.NewRouter(handler.RouterConfig{
		Products:     handler.NewProductHandler(productSvc, stockSvc, log),
		Orders:       handler.NewOrderHandler(orderSvc, log),
		Stock:        handler.NewStockHandler(stockSvc, log),
		Carts:        handler.NewCartHandler(cartSvc, log),
		Auth:         handler.NewAuthHandler(authSvc, log),
		Health:       handler.NewHealthHandler(dbPool, redisClient, amqpConn),
		JWTSecret:    cfg.JWT.Secret,
		AuthRequired: cfg.Auth.Required,
		Log:          log,
		Middleware:   []gin.HandlerFunc{telemetry.Middleware()},
	})

	// Worker
	var fulfillment *worker.FulfillmentWorker
	if amqpCh != nil {
		fulfillment = worker.NewFulfillmentWorker(amqpCh, store.Orders, stockSvc, redisClient, log)
		if err := fulfillment.Start(ctx); err != nil {
			log.Error("start fulfillment worker", "error", err)
			os.Exit(1)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	if fulfillment != nil {
		fulfillment.Stop()
		time.Sleep(500 * time.Millisecond)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown", "error", err)
	}
	cancel()
	log.Info("server stopped")
}
