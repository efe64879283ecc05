package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/yair/showfinder/pkg/collectors"
	"github.com/yair/showfinder/pkg/config"
	"github.com/yair/showfinder/pkg/domain"
	"github.com/yair/showfinder/pkg/integrations"
	"github.com/yair/showfinder/pkg/interfaces"
	"github.com/yair/showfinder/pkg/logger"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.String("err", err.Error()))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	log := logger.SetupLogger(cfg.Logger.Level, cfg.Logger.Format, "showfinder")
	log.Info("starting showfinder")

	if cfg.Ticketmaster.APIKey == "" {
		log.Warn("no ticketmaster API key configured; searches need the " + interfaces.APIKeyHeader + " header")
	}
	if !cfg.Access.PasswordConfigured() {
		log.Warn("no access password configured; any non-empty password opens the gate")
	}

	// Initialize database
	db, err := collectors.NewSQLiteDB(cfg.Database.Path)
	if err != nil {
		log.Error("failed to open database", slog.String("path", cfg.Database.Path), slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	var searchLog domain.SearchLogRepository
	searchLogRepo, err := collectors.NewSearchLogRepository(db)
	if err != nil {
		log.Warn("search log disabled", slog.String("err", err.Error()))
	} else {
		searchLog = searchLogRepo
	}

	// Initialize integrations
	ticketmaster, err := integrations.NewTicketmasterClient(integrations.TicketmasterConfig{
		BaseURL: cfg.Ticketmaster.BaseURL,
		Timeout: cfg.Ticketmaster.Timeout(),
		Logger:  log,
	})
	if err != nil {
		log.Error("failed to create ticketmaster client", slog.String("err", err.Error()))
		os.Exit(1)
	}

	// Initialize services
	searchService := interfaces.NewSearchService(&cfg.Ticketmaster, ticketmaster, searchLog, log)

	gate, err := interfaces.NewAccessGate(cfg.Access)
	if err != nil {
		log.Error("failed to create access gate", slog.String("err", err.Error()))
		os.Exit(1)
	}

	// Initialize HTTP handlers
	sessionHandler := interfaces.NewSessionHandler(gate, log)
	searchHandler := interfaces.NewSearchHandler(searchService, log)
	rateLimiter := interfaces.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)

	// Setup router
	router := mux.NewRouter()
	router.Use(interfaces.Recoverer(log), interfaces.RequestLogger(log))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	sessionHandler.RegisterRoutes(router)
	searchHandler.RegisterRoutes(router, interfaces.RequireSession(gate), rateLimiter.Limit)

	router.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, _ := route.GetMethods()
		log.Debug("route", slog.String("methods", strings.Join(methods, ",")), slog.String("path", path))
		return nil
	})

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Authorization", interfaces.APIKeyHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}).Handler(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("server listening", slog.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", slog.String("err", err.Error()))
	}

	log.Info("server stopped")
}
