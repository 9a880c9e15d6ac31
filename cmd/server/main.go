package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/R0llcre/promotions/internal/api"
	"github.com/R0llcre/promotions/internal/clock"
	"github.com/R0llcre/promotions/internal/config"
	"github.com/R0llcre/promotions/internal/database"
	"github.com/R0llcre/promotions/internal/kafka"
	"github.com/R0llcre/promotions/internal/logging"
	"github.com/R0llcre/promotions/internal/metrics"
	"github.com/R0llcre/promotions/internal/repository"
	"github.com/R0llcre/promotions/internal/service"
	"github.com/R0llcre/promotions/internal/types"
)

func main() {
	logging.Init()
	defer logging.Logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := connectWithRetry(cfg.DatabaseURL)
	if err != nil {
		logging.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		logging.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repo := repository.NewPromotionRepository(db)

	// Event publishing is optional: without brokers the service simply
	// skips it.
	var eventPublisher types.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logging.Logger.Fatal("Failed to create Kafka producer", zap.Error(err))
		}
		defer producer.Close()
		eventPublisher = producer

		auditConsumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logging.Logger.Fatal("Failed to create Kafka consumer", zap.Error(err))
		}
		go func() {
			if err := auditConsumer.Start(); err != nil {
				logging.Logger.Error("Kafka consumer error", zap.Error(err))
			}
		}()
	}

	promotionService := service.NewPromotionService(repo, eventPublisher, clock.Real{})

	router := mux.NewRouter()
	router.Use(metrics.Middleware)
	router.Use(api.Recover)
	api.RegisterHandlers(router, promotionService)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logging.Logger.Info("Starting server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logging.Logger.Info("Server exiting")
}

func connectWithRetry(dbURL string) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 5; i++ {
		db, err = sql.Open("postgres", dbURL)
		if err == nil {
			if err = db.Ping(); err == nil {
				return db, nil
			}
		}
		logging.Logger.Warn("Failed to connect to database, retrying...", zap.Error(err), zap.Int("attempt", i+1))
		time.Sleep(5 * time.Second)
	}
	return nil, err
}
