// main is the entry point of the students terminal client.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the local session store (SQLite)
//  4. Build the API gateway and the authentication manager
//  5. Assemble the controller and the terminal UI
//  6. Run the interactive loop until quit or Ctrl+C
//
// RUNNING THE CLIENT:
//
//	go run ./cmd/students-client --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/students-client
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/aanand-mishra/students-client/internal/api"
	"github.com/aanand-mishra/students-client/internal/app"
	"github.com/aanand-mishra/students-client/internal/auth"
	"github.com/aanand-mishra/students-client/internal/config"
	"github.com/aanand-mishra/students-client/internal/editor"
	"github.com/aanand-mishra/students-client/internal/roster"
	"github.com/aanand-mishra/students-client/internal/storage/sqlite"
	"github.com/aanand-mishra/students-client/internal/ui"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad reads the YAML config and exits if anything is wrong.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Logs go to stderr so they never interleave with the interactive
	// prompt on stdout.
	log := setupLogger(cfg.Env)

	log.Info("starting students-client",
		slog.String("env", cfg.Env),
		slog.String("api", cfg.API.BaseURL),
	)

	// ── 3. Open Session Store ─────────────────────────────────────────────
	// The SQLite file keeps the signed-in session between runs. We hold it
	// as the storage.Storage interface; the auth manager never knows which
	// backend it talks to.
	store, err := sqlite.New(cfg.SessionPath)
	if err != nil {
		log.Error("failed to open session store",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	// ── 4. Gateway and Auth Manager ───────────────────────────────────────
	client := api.New(cfg.API.BaseURL, cfg.API.Timeout, log)
	sessions := auth.New(client, store, log)

	// ── 5. Assemble Controller + UI ───────────────────────────────────────
	// The terminal doubles as the app's Navigator (redirect-to-login) and
	// Confirmer (delete gate), so it exists before the app and is bound
	// afterwards.
	terminal := ui.New(os.Stdin, os.Stdout)

	controller := app.New(
		sessions,
		client,
		roster.New(client, log),
		editor.New(),
		terminal,
		terminal,
		log,
	)
	terminal.Bind(controller, sessions)

	// ── 6. Run Until Quit or Signal ───────────────────────────────────────
	// Ctrl+C / SIGTERM cancels the root context; in-flight API calls are
	// abandoned and the loop winds down.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := terminal.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("client stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("goodbye")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): colored, human-readable output at DEBUG level.
// Staging/production: machine-readable JSON at INFO level and up.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			tint.NewHandler(os.Stderr, &tint.Options{
				Level:      slog.LevelDebug,
				TimeFormat: time.Kitchen,
			}),
		)
	}
}
