// Package mongo is a ResultStore on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
	"github.com/tjfontaine/interview-coach/internal/storage"
)

const collectionName = "session_results"

type resultDoc struct {
	SessionID   string             `bson:"session_id"`
	UserID      string             `bson:"user_id"`
	CompletedAt time.Time          `bson:"completed_at"`
	Report      domain.FinalReport `bson:"report"`
	Transcript  *domain.Session    `bson:"transcript,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
}

// Store is a MongoDB implementation of ResultStore
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ storage.ResultStore = (*Store)(nil)

// New connects to uri, selects database, and ensures indexes exist.
func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := &Store{
		client:     client,
		collection: client.Database(database).Collection(collectionName),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "completed_at", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Save inserts a completed session; the unique index rejects duplicates.
func (s *Store) Save(ctx context.Context, result *domain.SessionResult) error {
	if err := storage.Validate(result); err != nil {
		return err
	}

	doc := resultDoc{
		SessionID:   result.SessionID,
		UserID:      result.UserID,
		CompletedAt: result.Report.CompletedAt.UTC(),
		Report:      *result.Report,
		Transcript:  result.Transcript,
		CreatedAt:   result.CreatedAt.UTC(),
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("session %s: %w", result.SessionID, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to insert session result: %w", err)
	}
	return nil
}

// Get loads a stored session result.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.SessionResult, error) {
	var doc resultDoc
	err := s.collection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session result: %w", err)
	}

	report := doc.Report
	return &domain.SessionResult{
		SessionID:  doc.SessionID,
		UserID:     doc.UserID,
		Report:     &report,
		Transcript: doc.Transcript,
		CreatedAt:  doc.CreatedAt,
	}, nil
}

// ListByUser returns the user's reports, most recent first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]domain.FinalReport, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "completed_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(bson.M{"report": 1})

	cursor, err := s.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reports: %w", err)
	}
	defer cursor.Close(ctx)

	reports := []domain.FinalReport{}
	for cursor.Next(ctx) {
		var doc resultDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode report: %w", err)
		}
		reports = append(reports, doc.Report)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return reports, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
