package main

import (
	"crypto/tls"
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/config"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/handlers"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/logger"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/parsers/extracto"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/processors"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/services"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

func proxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

var limiter *rate.Limiter

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

var allowedOrigins map[string]bool

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-Requested-With, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Indicadores Cooperativa backend server starting...")

	limiter = rate.NewLimiter(rate.Every(config.Cfg.RateLimitInterval), config.Cfg.RateLimitBurst)
	allowedOrigins = make(map[string]bool)
	for _, origin := range config.Cfg.CORSAllowedOrigins {
		allowedOrigins[origin] = true
	}

	reportCache := cache.New(config.Cfg.CacheExpiration, config.Cfg.CacheCleanupInterval)

	parser := extracto.NewParser(config.Cfg.AmountColumn)
	validationProcessor := processors.NewValidationProcessor()
	metricsProcessor := processors.NewMetricsProcessor()
	periodProcessor := processors.NewPeriodProcessor()

	datasetService := services.NewDatasetService(parser, validationProcessor, reportCache, config.Cfg.PeriodOrder)
	indicatorService := services.NewIndicatorService(datasetService, metricsProcessor, periodProcessor, reportCache)
	exportService := services.NewExportService()

	if config.Cfg.DataDir != "" {
		logger.L.Info("Loading extracts from data directory...", "dir", config.Cfg.DataDir)
		if loaded, err := datasetService.LoadFromDir(config.Cfg.DataDir); err != nil {
			logger.L.Warn("Failed to load extract directory, continuing with uploads only", "dir", config.Cfg.DataDir, "error", err)
		} else {
			logger.L.Info("Extracts loaded", "count", loaded)
		}
	}

	datasetHandler := handlers.NewDatasetHandler(datasetService)
	indicatorHandler := handlers.NewIndicatorHandler(indicatorService)
	exportHandler := handlers.NewExportHandler(indicatorService, exportService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(proxyHeadersMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Indicadores Cooperativa backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"status":          "ok",
				"periods":         len(datasetService.Periods()),
				"referencePeriod": config.Cfg.ReferencePeriod,
			})
		})

		r.Get("/periods", datasetHandler.HandleGetPeriods)
		r.Post("/upload", datasetHandler.HandleUpload)
		r.Get("/datasets/status", datasetHandler.HandleGetStatus)
		r.Get("/datasets/{period}/validation", datasetHandler.HandleGetValidation)

		r.Get("/indicators/summary", indicatorHandler.HandleGetSummary)
		r.Get("/indicators/roa", indicatorHandler.HandleGetROA)
		r.Get("/indicators/roa/comparison", indicatorHandler.HandleGetComparison)
		r.Get("/indicators/roa/quarter", indicatorHandler.HandleGetQuarter)
		r.Get("/indicators/efficiency", indicatorHandler.HandleGetEfficiency)
		r.Get("/indicators/solvency", indicatorHandler.HandleGetSolvency)
		r.Get("/evolution/annual", indicatorHandler.HandleGetEvolution)

		r.Get("/export/{report}.csv", exportHandler.HandleExportCSV)
		r.Get("/export/{report}.xlsx", exportHandler.HandleExportXLSX)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			utils.SendJSONError(w, "not found", http.StatusNotFound)
			return
		}
		http.NotFound(w, r)
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
