package router

import (
	"bannerwindow/internal/http-server/handler/banner"
	"bannerwindow/internal/http-server/handler/banner/create"
	"bannerwindow/internal/http-server/handler/banner/delete"
	"bannerwindow/internal/http-server/handler/banner/display"
	"bannerwindow/internal/http-server/handler/banner/get"
	"bannerwindow/internal/http-server/middleware/logger"
	"bannerwindow/internal/http-server/middleware/proxy"
	"bannerwindow/internal/http-server/middleware/validator"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type BannerService interface {
	banner.BannerProvider
	create.BannerCreator
	delete.BannerDeleter
	display.BannerDisplayer
	get.BannerGetter
}

type Options struct {
	AllowedOrigins []string
	// TrustedProxies may set the client address through forwarding headers.
	TrustedProxies []string
	Metrics        http.Handler
}

func New(log *slog.Logger, service BannerService, opts Options) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(proxy.TrustedRealIP(opts.TrustedProxies))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Timezone"},
		MaxAge:         300,
	}))
	router.Use(logger.New(log))

	router.Get("/banner", banner.New(log, service))
	router.With(validator.PostBanner(log)).Post("/banner", create.New(log, service))
	router.With(validator.WithID(log)).Get("/banner/{id}", get.New(log, service))
	router.With(validator.WithID(log)).Delete("/banner/{id}", delete.New(log, service))
	router.With(validator.DisplayBanner(log)).Get("/banner/{id}/display", display.New(log, service))

	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	return router
}
