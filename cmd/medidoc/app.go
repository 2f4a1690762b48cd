package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"medidoc/internal/config"
	"medidoc/internal/domain"
	"medidoc/internal/domain/services"
	"medidoc/internal/repository/localstore"
	"medidoc/internal/service/docsystem"
	"medidoc/internal/service/llm"
	"medidoc/internal/service/llm/providers/gemini"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// app holds the wired services a command works with.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry services.TemplateRegistry
	store    services.DocumentStore
	importer services.ImportService
	gateway  services.AssistantGateway
}

// initApp wires configuration, storage and services, restoring the
// persisted document collection. A corrupt blob degrades to a warning;
// the session continues with whatever loaded.
func initApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	logger := slog.Default()

	analyzer := docsystem.NewContentAnalyzer()

	registry, err := docsystem.NewTemplateRegistry(analyzer)
	if err != nil {
		return nil, fmt.Errorf("load template catalog: %w", err)
	}

	blobs, err := localstore.NewBlobRepository(cfg.DataDir, logger)
	if err != nil {
		return nil, err
	}

	store := docsystem.NewDocumentStore(blobs, registry, analyzer, logger)
	if _, err := store.Load(ctx); err != nil {
		if !errors.Is(err, domain.ErrPersistence) {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "%s⚠ Failed to load saved documents; starting with an empty set%s\n",
			colorYellow, colorReset)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		store:    store,
		importer: docsystem.NewImportService(store, analyzer, logger),
	}, nil
}

// initAppWithAssistant wires everything plus the AI gateway. A missing
// credential is the one fatal configuration error.
func initAppWithAssistant(ctx context.Context) (*app, error) {
	a, err := initApp(ctx)
	if err != nil {
		return nil, err
	}

	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := gemini.NewClient(
		a.cfg.GeminiBaseURL,
		a.cfg.GeminiModel,
		a.cfg.GeminiAPIKey,
		a.cfg.RequestTimeout,
		a.logger,
	)
	if err != nil {
		return nil, &domain.ConfigurationError{Message: err.Error()}
	}

	a.gateway = llm.NewGateway(client, a.logger)
	return a, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s✗ %v%s\n", colorRed, err, colorReset)
	os.Exit(1)
}
