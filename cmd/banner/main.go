package main

import (
	"bannerwindow/internal/config"
	"bannerwindow/internal/database/driver"
	"bannerwindow/internal/database/repository/sqlstore"
	"bannerwindow/internal/http-server/router"
	"bannerwindow/internal/metrics"
	"bannerwindow/internal/service/display"
	"bannerwindow/pkg/lib/logger/slogpretty"
	"bannerwindow/pkg/lib/sl"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg, scr := config.MustLoad()
	log := setupLogger(cfg.Env)

	log.Info("starting app", slog.String("env", cfg.Env))

	log.Debug("debug messages are enabled")

	sqlxConfig := &driver.SQLXConfig{
		DriverName:     cfg.DriverName,
		DataSourceName: dataSourceName(cfg, scr),
		MaxOpenConns:   cfg.MaxOpenConns,
		MaxIdleConns:   cfg.MaxIdleConns,
		MaxLifetime:    cfg.MaxLifetime,
	}

	db, err := sqlxConfig.NewSQLXDatabase(log)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	registrationZone, err := cfg.Location()
	if err != nil {
		log.Error("invalid registration zone", sl.Err(err))
		os.Exit(1)
	}

	m := metrics.New()
	bannerService := display.New(
		log,
		sqlstore.NewBannerRepository(db),
		display.NewAllowlist(cfg.AllowedIPs),
		display.WithRegistrationZone(registrationZone),
		display.WithRecorder(m),
	)

	if err := bannerService.Init(context.Background()); err != nil {
		log.Error("failed to create banner table", sl.Err(err))
		os.Exit(1)
	}

	log.Info("display rules",
		slog.Any("allowed_ips", cfg.AllowedIPs),
		slog.String("registration_zone", registrationZone.String()),
	)

	handler := router.New(log, bannerService, router.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		TrustedProxies: cfg.TrustedProxies,
		Metrics:        m.Handler(),
	})

	log.Info("starting server", slog.String("address", cfg.Address))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("shutting server", sl.Err(err))
				return
			}
			log.Error("failed to start server", sl.Err(err))
		}
	}()

	log.Info("server started")
	sign := <-done
	log.Info("stopping server", slog.String("signal", sign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to stop server", sl.Err(err))
		return
	}

	if err := db.Close(); err != nil {
		log.Error("failed to close storage", sl.Err(err))
		return
	}

	log.Info("server stopped")
}

func dataSourceName(cfg *config.Config, scr *config.Secret) string {
	if cfg.DriverName == driver.DriverSQLite {
		return cfg.Path
	}

	return driver.PostgresDSN(cfg.Host, cfg.Port, cfg.Username, scr.PostgresPassword, cfg.DBname, cfg.SSLmode)
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettyLogger()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}
	return log
}

func setupPrettyLogger() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
