package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/camden-git/hockeycoach/config"
	"github.com/camden-git/hockeycoach/database"
	"github.com/camden-git/hockeycoach/handlers"
	"github.com/camden-git/hockeycoach/logger"
	"github.com/camden-git/hockeycoach/realtime"
	"github.com/camden-git/hockeycoach/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()
	for _, warning := range cfg.Warnings {
		appLog.Warn("configuration", "warning", warning)
	}

	dataDir := filepath.Dir(cfg.DatabasePath)
	appLog.Info("ensuring data directory exists", "path", dataDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		appLog.Fatal("failed to create data directory", "path", dataDir, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenStore(ctx, cfg.DatabasePath, appLog, cfg.SQLLogLevel)
	if err != nil {
		appLog.Fatal("failed to initialize database", "path", cfg.DatabasePath, "error", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		appLog.Fatal("failed to get underlying sql.DB", "error", err)
	}
	defer sqlDB.Close()
	appLog.Info("using database", "path", cfg.DatabasePath)

	hub := realtime.NewHub(appLog)
	svc := services.NewCoachService(services.NewRepositories(db), sqlDB, hub, appLog)

	router := handlers.NewRouter(handlers.Deps{
		Service:        svc,
		Hub:            hub,
		Log:            appLog,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 70 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     appLog.Std(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		appLog.Info("server listening", "addr", cfg.ListenAddr, "origins", cfg.AllowedOrigins)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		appLog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}
