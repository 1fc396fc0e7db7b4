package main

import (
	"log/slog"
	"os"

	"github.com/Kim2783/Kidstodolist/internal/catalog"
	"github.com/Kim2783/Kidstodolist/internal/config"
	"github.com/Kim2783/Kidstodolist/internal/database"
	"github.com/Kim2783/Kidstodolist/internal/models"
	"github.com/Kim2783/Kidstodolist/internal/repository"
	"github.com/Kim2783/Kidstodolist/internal/server"
	"github.com/Kim2783/Kidstodolist/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	children := make([]models.Child, len(cfg.Children))
	for i, name := range cfg.Children {
		children[i] = models.Child(name)
	}

	completionRepo := repository.NewCompletionRepository(db)
	watermarkRepo := repository.NewWatermarkRepository(db)
	earningsRepo := repository.NewEarningsRepository(db)
	checklistService := services.NewChecklistService(completionRepo, watermarkRepo, earningsRepo)

	sessions := services.NewSessionManager(children, bootstrapCatalog(cfg, children))

	srv := server.New(cfg, checklistService, sessions)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// bootstrapCatalog loads the initial catalog from the configured file or
// URL. A failed load is a warning, never fatal: the built-in default keeps
// the checklist usable.
func bootstrapCatalog(cfg config.Config, children []models.Child) models.Catalog {
	var (
		loaded   models.Catalog
		warnings []string
		err      error
	)

	switch {
	case cfg.CatalogPath != "":
		loaded, warnings, err = catalog.LoadFile(cfg.CatalogPath, children)
		if err != nil {
			slog.Warn("loading catalog file, falling back to built-in default", "path", cfg.CatalogPath, "error", err)
			return catalog.Default(children)
		}
	case cfg.CatalogURL != "":
		loaded, warnings, err = catalog.LoadURL(cfg.CatalogURL, children)
		if err != nil {
			slog.Warn("fetching catalog, falling back to built-in default", "url", cfg.CatalogURL, "error", err)
			return catalog.Default(children)
		}
	default:
		return catalog.Default(children)
	}

	for _, warning := range warnings {
		slog.Warn("catalog record", "warning", warning)
	}
	slog.Info("loaded catalog", "tasks", len(loaded.Tasks))
	return loaded
}
