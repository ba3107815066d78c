package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fundwatch/fund-monitor-backend/internal/api"
	"github.com/fundwatch/fund-monitor-backend/internal/cache"
	"github.com/fundwatch/fund-monitor-backend/internal/config"
	"github.com/fundwatch/fund-monitor-backend/internal/database"
	"github.com/fundwatch/fund-monitor-backend/internal/eastmoney"
	"github.com/fundwatch/fund-monitor-backend/internal/gateway"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
	"github.com/fundwatch/fund-monitor-backend/internal/repository"
	"github.com/fundwatch/fund-monitor-backend/internal/scheduler"
	"github.com/fundwatch/fund-monitor-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Shared TTL cache: fund directory and gateway tokens
	memCache := cache.New()

	// Upstream clients
	fundClient := eastmoney.NewFundClient(cfg.Upstream.DirectoryURL, cfg.Upstream.NavURLTemplate)
	gatewayClient := gateway.NewHTTPClient(cfg.Gateway, memCache)

	// Webhook cipher. Without a configured key, stored webhooks do not
	// survive a restart.
	cipher, err := newCipher(cfg.FernetKey)
	if err != nil {
		log.Fatalf("Failed to initialize webhook cipher: %v", err)
	}

	// Create repositories
	favoriteRepo := repository.NewLinkRepository(db, model.LinkFavorite)
	monitorRepo := repository.NewLinkRepository(db, model.LinkMonitor)
	ruleRepo := repository.NewRuleRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	fundService := service.NewFundService(
		fundClient,
		gatewayClient,
		memCache,
		favoriteRepo,
		monitorRepo,
	)
	linkService := service.NewLinkService(favoriteRepo, monitorRepo)
	ruleService := service.NewRuleService(ruleRepo)
	alertService := service.NewAlertService(
		gatewayClient,
		ruleRepo,
		notificationRepo,
		cipher,
	)
	notificationService := service.NewNotificationService(notificationRepo, cipher)

	// Create router
	router := api.NewRouter(systemService, fundService, linkService, ruleService, alertService, notificationService, cfg)

	// Scheduled rule pushes
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(ruleRepo, alertService)
		if err := sched.Register(); err != nil {
			log.Fatalf("Failed to register scheduled tasks: %v", err)
		}
		sched.Start()
	} else {
		log.Println("Scheduler disabled by configuration")
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// newCipher builds the webhook cipher from the configured fernet key, or a
// throwaway key when none is configured.
func newCipher(encodedKey string) (*service.SecretCipher, error) {
	if encodedKey == "" {
		log.Println("FERNET_KEY not set; using an ephemeral key, stored webhooks will not survive restart")
		return service.NewRandomSecretCipher()
	}
	return service.NewSecretCipher(encodedKey)
}
