// Package main is the entry point for the catalogd browse server.
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"kvcatalog/internal/api"
	"kvcatalog/internal/catalog"
	"kvcatalog/internal/config"
	"kvcatalog/internal/description"
	"kvcatalog/internal/domain"
)

func main() {
	if err := run(); err != nil {
		slog.Error("catalogd failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	source := description.NewFileSource(cfg.TableDescriptionDir, cfg.DefaultSchema, logger)
	supplier := description.NewSupplier(source)
	resolver := catalog.NewResolver(
		cfg.ConnectorID,
		supplier,
		domain.InternalFields(),
		cfg.HideInternalColumns,
		logger,
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Mount("/", api.NewHandler(resolver, logger).Routes())

	logger.Info("catalogd listening",
		"addr", cfg.ListenAddr,
		"descriptions", cfg.TableDescriptionDir,
		"connector", cfg.ConnectorID,
	)
	return http.ListenAndServe(cfg.ListenAddr, r)
}
