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
	"go.uber.org/zap"

	"docisn-pharmacy/config"
	"docisn-pharmacy/internal/database"
	"docisn-pharmacy/internal/gateway/handlers"
	"docisn-pharmacy/internal/realtime"
	"docisn-pharmacy/internal/services/inventory"
	"docisn-pharmacy/internal/services/orders"
	"docisn-pharmacy/internal/services/reports"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := newLogger(cfg.Server.AppEnv)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	mongoClient := config.NewMongoClient(cfg.Mongo)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()
	db := mongoClient.Database(cfg.Mongo.Database)

	redisClient := config.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	hub := realtime.NewHub(logger)

	inventoryStore := database.NewMongoCollection(db, "inventories")
	orderStore := database.NewMongoCollection(db, "patients")

	inventoryService := inventory.NewService(inventoryStore, redisClient, hub, logger)
	orderService := orders.NewService(orderStore, logger)
	reportService := reports.NewService(orderStore, logger)

	timeout := time.Duration(cfg.Server.RequestTimeout) * time.Second
	inventoryHandler := handlers.NewInventoryHTTPHandler(inventoryService, timeout)
	orderHandler := handlers.NewOrderHTTPHandler(orderService, timeout)
	reportHandler := handlers.NewReportHTTPHandler(reportService, timeout)
	wsHandler := handlers.NewWSHandler(hub, logger)

	if cfg.Server.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	registerRoutes(r, inventoryHandler, orderHandler, reportHandler, wsHandler, cfg.Server.RateLimit)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func newLogger(appEnv string) (*zap.Logger, error) {
	if appEnv == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
