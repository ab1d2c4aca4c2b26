// Package bot wires the messaging session, the message router, the scheduler
// and the status endpoint together and manages their lifecycle.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/villani/menubot/internal/bot/handlers"
	"github.com/villani/menubot/internal/config"
	"github.com/villani/menubot/internal/health"
	"github.com/villani/menubot/internal/logger"
	"github.com/villani/menubot/internal/session"
)

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	cfg       *config.Config
	session   session.Session
	router    *handlers.Router
	scheduler *Scheduler
	health    *health.Server
}

// NewBot creates the orchestrator. health may be nil when the status
// endpoint is disabled.
func NewBot(
	log *slog.Logger,
	cfg *config.Config,
	sess session.Session,
	router *handlers.Router,
	scheduler *Scheduler,
	healthServer *health.Server,
) *Bot {
	if log == nil {
		log = logger.Discard()
	}
	return &Bot{
		logger:    log.With("component", "bot_orchestrator"),
		cfg:       cfg,
		session:   sess,
		router:    router,
		scheduler: scheduler,
		health:    healthServer,
	}
}

// Run starts every component and blocks until ctx is cancelled or one of
// them fails. The session is closed before returning, which waits for
// in-flight replies.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...", "session_kind", b.cfg.Session.Kind)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting messaging session...")
		if err := b.session.Start(gCtx, b.router.Handle); err != nil {
			return fmt.Errorf("messaging session failed: %w", err)
		}
		if gCtx.Err() == nil {
			return errors.New("messaging session stopped unexpectedly")
		}
		b.logger.Info("Messaging session stopped")
		return nil
	})

	g.Go(func() error {
		if err := b.scheduler.Start(gCtx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")

		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	if b.health != nil {
		g.Go(func() error {
			return b.health.Run(gCtx)
		})
	}

	err := g.Wait()

	if closeErr := b.session.Close(); closeErr != nil {
		b.logger.Error("Failed to close messaging session", "error", closeErr)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully")
	return nil
}
