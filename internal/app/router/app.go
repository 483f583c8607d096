package router

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/valyala/fasthttp"

	"github.com/GintGld/media-engine/internal/config"
	"github.com/GintGld/media-engine/internal/storage/sqlite"

	linkSrv "github.com/GintGld/media-engine/internal/service/link"
	mediaSrv "github.com/GintGld/media-engine/internal/service/media"
	mergeSrv "github.com/GintGld/media-engine/internal/service/merge"
	probeSrv "github.com/GintGld/media-engine/internal/service/probe"
	trimSrv "github.com/GintGld/media-engine/internal/service/trim"

	authCtr "github.com/GintGld/media-engine/internal/controller/auth"
	shareCtr "github.com/GintGld/media-engine/internal/controller/share"
	videoCtr "github.com/GintGld/media-engine/internal/controller/video"

	resp "github.com/GintGld/media-engine/internal/lib/api/response"
	"github.com/GintGld/media-engine/internal/models"
)

type App struct {
	log     *slog.Logger
	address string
	app     *fiber.App
}

// New returns configured router.App
func New(
	log *slog.Logger,
	storage *sqlite.Storage,
	cfg *config.Config,
	secret []byte,
	staticToken []byte,
) *App {
	// Create services
	probe := probeSrv.New(log, cfg.TmpDir)

	trim := trimSrv.New(log, cfg.TmpDir, cfg.TrimDir, cfg.OutputCodec)

	merge := mergeSrv.New(log, cfg.TmpDir, cfg.MergeDir, cfg.OutputCodec)

	signer := linkSrv.New(secret)

	media := mediaSrv.New(
		log,
		storage,
		probe,
		trim,
		merge,
		probeSrv.Validate,
		models.MediaPolicy{
			MaxSizeMB:      cfg.MaxSizeMB,
			MinDurationSec: cfg.MinDurationSec,
			MaxDurationSec: cfg.MaxDurationSec,
		},
		cfg.SourceDir,
	)

	// Create controller helper
	auth := authCtr.New(staticToken)

	app := fiber.New(fiber.Config{
		IdleTimeout:  cfg.IdleTimeout,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
	})
	app.Post("/auth-check", auth.Required(), func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(
			resp.Success("This is a response from the static token authenticated view", nil),
		)
	})

	// Mount controllers to an app
	app.Mount("/videos", videoCtr.New(media, auth, cfg.TmpDir, cfg.Timeout))
	app.Mount("/share", shareCtr.New(media, signer, cfg.SiteURL, cfg.LinkTTL, cfg.Timeout))

	return &App{
		log:     log,
		address: cfg.Address,
		app:     app,
	}
}

// Handler exposes the fasthttp handler for in-process tests.
func (a *App) Handler() fasthttp.RequestHandler {
	return a.app.Handler()
}

func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

func (a *App) Run() error {
	return a.app.Listen(a.address)
}

func (a *App) Stop() {
	a.app.Shutdown()
}

// errorHandler keeps uncaught faults generic for the client.
func errorHandler(c *fiber.Ctx, err error) error {
	var e *fiber.Error
	if errors.As(err, &e) && e.Code != fiber.StatusInternalServerError {
		return c.Status(e.Code).JSON(resp.Failure(e.Message))
	}

	return c.Status(fiber.StatusInternalServerError).JSON(
		resp.Failure("An unexpected error occurred."),
	)
}
