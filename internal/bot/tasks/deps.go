// Package tasks implements the bot's scheduled housekeeping tasks.
package tasks

import (
	"log/slog"

	"github.com/villani/menubot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
}
