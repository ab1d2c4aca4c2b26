package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	apperrors "github.com/villani/menubot/internal/errors"
	"github.com/villani/menubot/internal/logger"
)

const (
	messagesCollection  = "messages"
	mongoConnectTimeout = 10 * time.Second
)

// mongoMessage mirrors StoredMessage in the messages collection.
// __v keeps documents readable by Mongoose-based tooling sharing the collection.
type mongoMessage struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Number  string             `bson:"number"`
	Message string             `bson:"message"`
	Date    time.Time          `bson:"date"`
	Version int                `bson:"__v"`
}

func (m mongoMessage) toStored() StoredMessage {
	return StoredMessage{
		ID:      m.ID.Hex(),
		Number:  m.Number,
		Message: m.Message,
		Date:    m.Date,
	}
}

type mongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *slog.Logger
	now    func() time.Time
}

// NewMongoStore connects to uri and verifies the deployment is reachable.
// The database named in the URI path wins over fallbackDB.
func NewMongoStore(ctx context.Context, uri, fallbackDB string, log *slog.Logger) (Store, error) {
	if log == nil {
		log = logger.Discard()
	}

	dbName, err := MongoDatabaseName(uri, fallbackDB)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("Connected to MongoDB", "database", dbName)

	return &mongoStore{
		client: client,
		coll:   client.Database(dbName).Collection(messagesCollection),
		logger: log.With("component", "store", "backend", "mongodb"),
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// MongoDatabaseName resolves the database to use from the connection string.
func MongoDatabaseName(uri, fallback string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("invalid MongoDB uri: %w", err)
	}
	if cs.Database != "" {
		return cs.Database, nil
	}
	if fallback == "" {
		return "", errors.New("no MongoDB database name configured")
	}
	return fallback, nil
}

func (s *mongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *mongoStore) SaveMessage(ctx context.Context, number, message string) (*StoredMessage, error) {
	if number == "" {
		return nil, apperrors.NewPersistenceError("cannot save message", errors.New("number is required"))
	}

	doc := mongoMessage{
		Number:  number,
		Message: message,
		Date:    s.now(),
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving message", "number", number, "error", err)
		return nil, apperrors.NewPersistenceError(fmt.Sprintf("failed to save message from %s", number), err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}

	stored := doc.toStored()
	s.logger.DebugContext(ctx, "Message saved successfully", "number", number, "message_id", stored.ID)
	return &stored, nil
}

func (s *mongoStore) CountMessages(ctx context.Context) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// RunMaintenance only verifies connectivity; MongoDB compacts on its own.
func (s *mongoStore) RunMaintenance(ctx context.Context) error {
	if err := s.Ping(ctx); err != nil {
		return fmt.Errorf("mongodb maintenance ping failed: %w", err)
	}
	return nil
}

func (s *mongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
