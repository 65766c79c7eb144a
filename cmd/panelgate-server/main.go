package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hostbay/panelgate/internal/accesskey"
	internalhttp "github.com/hostbay/panelgate/internal/api/http"
	"github.com/hostbay/panelgate/internal/api/http/handler"
	"github.com/hostbay/panelgate/internal/db"
	"github.com/hostbay/panelgate/internal/notify"
	"github.com/hostbay/panelgate/internal/observability"
	"github.com/hostbay/panelgate/internal/panelconfig"
	"github.com/hostbay/panelgate/internal/provisioning"
	"github.com/hostbay/panelgate/internal/pterodactyl"
	"github.com/hostbay/panelgate/internal/status"
)

var AppVersion string

func main() {
	InitConfig()

	slog.Info("PanelGate Server", "version", AppVersion)

	ctx := context.Background()

	if err := db.RunMigrations(config.Database.Url, config.Database.Schema); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	pool, err := db.InitDB(ctx, config.Database.Url, config.Database.Schema)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	metrics := observability.NewMetrics()

	keyStore := accesskey.NewPGStore(pool)
	configStore := panelconfig.NewStore(pool)
	panelClient := pterodactyl.NewClient(config.Pterodactyl.CreateURL)
	notifier := notify.NewWebhookNotifier(config.Notify.WebhookURL)

	keyService := accesskey.NewService(keyStore)
	provisioner := provisioning.NewService(keyService, configStore, panelClient, notifier, metrics)
	statusService := status.NewService(configStore, panelClient, metrics)

	services := &internalhttp.Services{
		Keys:        handler.NewAccessKeyHandler(keyService, metrics),
		Panels:      handler.NewPanelHandler(provisioner),
		Status:      handler.NewStatusHandler(statusService, configStore),
		Admin:       handler.NewAdminHandler(configStore),
		Metrics:     metrics,
		AdminAPIKey: config.Http.AdminAPIKey,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"PUT", "PATCH", "GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(gin.Recovery())
	internalhttp.SetupRoute(engine, services)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Http.Port),
		Handler: engine,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		slog.Error("Server error", "error", err)
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig)
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}
