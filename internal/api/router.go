package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ndewijer/selic-correction-backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/selic-correction-backend/internal/api/middleware"
	"github.com/ndewijer/selic-correction-backend/internal/config"
	"github.com/ndewijer/selic-correction-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	correctionService *service.CorrectionService,
	rateService *service.RateService,
	cfg *config.Config,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/selic", func(r chi.Router) {
			selicHandler := handlers.NewSelicHandler(correctionService, rateService, cfg.Selic.SeriesFloor)
			r.Post("/correction", selicHandler.Correction)
			r.Post("/fine-correction", selicHandler.FineCorrection)
			r.Get("/business-day", selicHandler.BusinessDay)
			r.Get("/series", selicHandler.Series)
		})
	})

	return r
}
