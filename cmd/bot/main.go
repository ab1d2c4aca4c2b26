// Package main contains the entrypoint for the menu bot.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/villani/menubot/internal/bot"
	"github.com/villani/menubot/internal/bot/handlers"
	"github.com/villani/menubot/internal/bot/tasks"
	"github.com/villani/menubot/internal/config"
	"github.com/villani/menubot/internal/database"
	apperrors "github.com/villani/menubot/internal/errors"
	"github.com/villani/menubot/internal/health"
	"github.com/villani/menubot/internal/logger"
	"github.com/villani/menubot/internal/session"
	"github.com/villani/menubot/internal/telegram"
	"github.com/villani/menubot/internal/whatsapp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := exitCode(newRootCmd().ExecuteContext(ctx))
	stop()
	os.Exit(code)
}

// exitCode maps the run result to the process status: 1 for startup
// failures (configuration, backend or session setup), 2 for anything that
// stopped a running bot.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case apperrors.IsFatal(err):
		return 1
	default:
		return 2
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		envFile    string
	)

	cmd := &cobra.Command{
		Use:           "menubot",
		Short:         "WhatsApp menu auto-responder",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				slog.Warn("Failed to load env file", "path", envFile, "error", err)
			}
			return run(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "./config.yaml", "Path to configuration file")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Path to an optional .env file")

	return cmd
}

// run initializes every component, runs the bot until ctx is cancelled and
// reports whether it stopped cleanly.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", configPath, "error", err)
		return err
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	store, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	sess, err := newSession(ctx, cfg.Session, log)
	if err != nil {
		log.Error("Failed to create messaging session", "kind", cfg.Session.Kind, "error", err)
		return apperrors.NewConnectionError("failed to create messaging session", err)
	}

	router, err := handlers.NewRouter(handlers.HandlerDeps{
		Logger:  log,
		Config:  cfg,
		Store:   store,
		Session: sess,
	})
	if err != nil {
		_ = sess.Close()
		log.Error("Failed to create message router", "error", err)
		return apperrors.NewConfigError("failed to create message router", err)
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tasks.TaskDeps{Logger: log, Store: store}))
	if err != nil {
		_ = sess.Close()
		log.Error("Failed to create scheduler", "error", err)
		return apperrors.NewConfigError("failed to create scheduler", err)
	}

	var healthServer *health.Server
	if cfg.HTTP.Enabled {
		healthServer = health.NewServer(cfg.HTTP, log)
	}

	app := bot.NewBot(log, cfg, sess, router, sched, healthServer)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return apperrors.NewTransportError("bot stopped", runErr)
	}

	log.Info("Bot stopped gracefully")
	return nil
}

func newSession(ctx context.Context, cfg config.SessionConfig, log *slog.Logger) (session.Session, error) {
	switch cfg.Kind {
	case config.SessionWhatsApp:
		return whatsapp.New(ctx, cfg, log)
	case config.SessionTelegram:
		return telegram.New(cfg, log)
	default:
		return nil, apperrors.NewConfigError(fmt.Sprintf("unknown session kind %q", cfg.Kind), nil)
	}
}
