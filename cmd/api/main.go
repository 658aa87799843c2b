package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/workday-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/workday-backend-go/internal/repository/postgresql"
	reportService "github.com/cmlabs-hris/workday-backend-go/internal/service/report"
	workdayService "github.com/cmlabs-hris/workday-backend-go/internal/service/workday"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := appHTTP.NewLogger(cfg.App, version)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	workdayRepo := postgresql.NewWorkdayRepository(db)
	workdayEventRepo := postgresql.NewWorkdayEventRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()
	loc := cfg.Location()

	workdaySvc := workdayService.NewWorkdayService(
		db,
		workdayRepo,
		workdayEventRepo,
		hub,
		cfg.Workday,
		workdayService.WithLocation(loc),
	)
	reportSvc := reportService.NewReportService(workdayRepo, cfg.Workday, reportService.WithLocation(loc))

	workdayHandler := appHTTP.NewWorkdayHandler(workdaySvc, hub, cfg.Workday.LiveTickInterval)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(cfg.App, logger, JWTService, workdayHandler, reportHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
