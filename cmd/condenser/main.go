package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/steemit/condenser/internal/backend"
	"github.com/steemit/condenser/internal/cache"
	"github.com/steemit/condenser/internal/session"
	"github.com/steemit/condenser/internal/store"
	"github.com/steemit/condenser/internal/views"
	"github.com/steemit/condenser/pkg/config"
	"github.com/steemit/condenser/pkg/logging"
	"github.com/steemit/condenser/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Condenser Client Gateway")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Redis, used for session persistence and the feed projection cache.
	// A nil cache is valid and behaves as disabled.
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	// Session owns the credential; the backend client reads it per request
	sess := session.NewManager(&cfg.Session, redisCache)

	client, err := backend.New(&cfg.Backend, sess)
	if err != nil {
		logger.Fatal("Failed to create backend client", zap.Error(err))
	}

	// Stores, wired through the event bus. Like changes flow into analytics
	// through the bus, never through a direct cross-store call.
	bus := store.NewBus()
	likes := store.NewLikeStore(client, sess, bus)
	analytics := store.NewAnalyticsStore(client, sess, bus)
	notifications := store.NewNotificationStore(client, sess, cfg.Notifications.PageSize)
	follows := store.NewFollowStore(client, sess)

	// Sign-out or account switch drops every piece of optimistic state
	sess.OnReset(likes.Reset)
	sess.OnReset(analytics.Reset)
	sess.OnReset(notifications.Reset)
	sess.OnReset(follows.Reset)

	poller := store.NewPoller(notifications, sess, cfg.Notifications.PollInterval)
	defer poller.Stop()

	// Restore a persisted session; if one exists the poller starts now
	if err := sess.Restore(); err != nil {
		logger.Warn("Failed to restore session", zap.Error(err))
	}
	if sess.SignedIn() {
		poller.Start()
	}

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	v := views.New(client, sess, likes, analytics, notifications, follows, poller, bus, redisCache)
	v.SetupRoutes(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
