package main

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mfourati/ordersync/config"
	"github.com/mfourati/ordersync/internal/auth"
	"github.com/mfourati/ordersync/internal/board"
	"github.com/mfourati/ordersync/internal/dedup"
	handler "github.com/mfourati/ordersync/internal/handler/http"
	"github.com/mfourati/ordersync/internal/logger"
	"github.com/mfourati/ordersync/internal/middleware"
	"github.com/mfourati/ordersync/internal/notify"
	"github.com/mfourati/ordersync/internal/repository"
	"github.com/mfourati/ordersync/internal/repository/postgres"
	"github.com/mfourati/ordersync/internal/service"
	"go.uber.org/zap"
)

const authTokenKey = "9c1185a5c5e9fc54612808977ee8f548"

const (
	dedupTTL      = 5 * time.Minute
	notifyTimeout = 5 * time.Second
)

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	tokenKey, err := hex.DecodeString(authTokenKey)
	if err != nil {
		logger.Log.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey)

	// external collaborators
	boardClient := board.NewClient(cfg.BoardAPIURL, cfg.BoardAPIToken, cfg.BoardID)
	dispatcher := notify.NewDispatcher(notifyTimeout,
		notify.NewWhatsAppChannel(cfg.MessageAPIURL, cfg.MessageAPIToken))
	go dispatcher.Run(ctx)

	// dependency injection
	// auth
	authService := service.NewAuthService(cfg.AdminLogin, cfg.AdminPasswordHash, token)
	authHandler := handler.NewAuthHandler(authService)

	// orders
	orderRepo := repository.NewOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	trackingRepo := repository.NewTrackingRepository(db)
	seen := dedup.New(dedupTTL)
	orderService := service.NewOrderService(orderRepo, customerRepo, productRepo, trackingRepo,
		boardClient, dispatcher, seen, cfg.BoardStatusColumn)
	orderHandler := handler.NewOrderHandler(orderService)
	webhookHandler := handler.NewWebhookHandler(orderService)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger.Log))

	router.Post("/api/webhook/board", webhookHandler.HandleBoardEvent())
	router.Post("/api/admin/login", authHandler.LoginAdmin())
	router.Get("/api/track/{code}", orderHandler.TrackOrder())

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(middleware.Auth(token))
		group.Post("/api/admin/customers", orderHandler.CreateCustomer())
		group.Post("/api/admin/orders", orderHandler.CreateOrder())
		group.Get("/api/admin/orders/{number}", orderHandler.GetOrder())
		group.Post("/api/admin/orders/{number}/status", orderHandler.UpdateStatus())
		group.Post("/api/admin/orders/{number}/cancel", orderHandler.CancelOrder())
	})

	logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}
