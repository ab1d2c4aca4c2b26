package handlers

import (
	"log/slog"

	"github.com/villani/menubot/internal/config"
	"github.com/villani/menubot/internal/database"
	"github.com/villani/menubot/internal/session"
)

// HandlerDeps provides dependencies for the message router.
type HandlerDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Store   database.Store
	Session session.Session
}
