package app

import (
	"log/slog"
	"os"

	routerApp "github.com/GintGld/media-engine/internal/app/router"
	"github.com/GintGld/media-engine/internal/config"
	"github.com/GintGld/media-engine/internal/lib/logger/sl"
	"github.com/GintGld/media-engine/internal/storage/sqlite"
)

type App struct {
	Router routerApp.App
}

func New(
	log *slog.Logger,
	cfg *config.Config,
	secret []byte,
	staticToken []byte,
) *App {
	storage, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	routerApp := routerApp.New(
		log,
		storage,
		cfg,
		secret,
		staticToken,
	)

	return &App{
		Router: *routerApp,
	}
}
