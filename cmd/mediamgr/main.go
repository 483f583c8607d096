package main

import (
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/joho/godotenv"

	"github.com/GintGld/media-engine/internal/app"
	"github.com/GintGld/media-engine/internal/config"
	"github.com/GintGld/media-engine/internal/lib/ffmpeg"
	"github.com/GintGld/media-engine/internal/lib/logger/slogpretty"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	godotenv.Load()

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting media engine", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	if err := ffmpeg.CheckFFmpeg(); err != nil {
		panic(err)
	}

	if err := os.MkdirAll(cfg.TmpDir, 0777); err != nil {
		panic("cannot create tmp dir: " + err.Error())
	}

	application := app.New(
		log,
		cfg,
		getSecret(),
		getStaticToken(),
	)

	// Run server
	go func() {
		application.Router.MustRun()
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	<-stop

	application.Router.Stop()
	log.Info("Gracefully stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

func getSecret() []byte {
	secret := os.Getenv("SECRET")

	if secret == "" {
		panic("secret not specified")
	}

	return []byte(secret)
}

func getStaticToken() []byte {
	token := os.Getenv("API_STATIC_TOKEN")

	if token == "" {
		panic("api static token is not specified")
	}

	return []byte(token)
}
