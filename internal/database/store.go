package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	apperrors "github.com/villani/menubot/internal/errors"
	"github.com/villani/menubot/internal/logger"
)

// Store defines the interface for message persistence.
// Methods accept context.Context for cancellation.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveMessage persists one inbound message with the current time as its date.
	// Failures are returned as PersistenceError.
	SaveMessage(ctx context.Context, number, message string) (*StoredMessage, error)

	// CountMessages returns the number of stored messages.
	CountMessages(ctx context.Context) (int64, error)

	// RunMaintenance performs backend housekeeping such as VACUUM.
	RunMaintenance(ctx context.Context) error

	// Close releases the connection.
	Close() error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, log *slog.Logger) Store {
	if log == nil {
		log = logger.Discard()
	}
	return &sqlxStore{
		db:     db,
		logger: log.With("component", "store", "backend", "sqlite"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveMessage inserts a new message record.
func (s *sqlxStore) SaveMessage(ctx context.Context, number, message string) (*StoredMessage, error) {
	if number == "" {
		return nil, apperrors.NewPersistenceError("cannot save message", errors.New("number is required"))
	}

	msg := &StoredMessage{
		Number:  number,
		Message: message,
		Date:    s.now(),
	}

	query := `INSERT INTO messages (number, message, date) VALUES (:number, :message, :date);`

	result, err := s.db.NamedExecContext(ctx, query, msg)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving message", "number", number, "error", err)
		return nil, apperrors.NewPersistenceError(fmt.Sprintf("failed to save message from %s", number), err)
	}

	if id, err := result.LastInsertId(); err == nil {
		msg.ID = strconv.FormatInt(id, 10)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving message", "number", number, "error", err)
	}

	s.logger.DebugContext(ctx, "Message saved successfully", "number", number, "message_id", msg.ID)
	return msg, nil
}

func (s *sqlxStore) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages;`); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// RunMaintenance refreshes query planner statistics and compacts the file.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Running SQL maintenance")
	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
		return fmt.Errorf("failed to optimize database: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

func (s *sqlxStore) Close() error {
	return s.db.Close()
}
