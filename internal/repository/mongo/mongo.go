// Package mongo implements the repository interfaces on MongoDB.
//
// Layout:
//
//	users   { _id: ObjectId, email, name, password, createdAt }
//	entries { _id: ObjectId, userId: string, title, content, createdAt, updatedAt }
//
// Ids leave this package as 24-char hex strings. A string that is not valid
// hex can never match a document, so it is reported as not found.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/journal-api/internal/repository"
)

const (
	usersCollection   = "users"
	entriesCollection = "entries"

	connectTimeout = 30 * time.Second
	pingTimeout    = 10 * time.Second
)

var _ repository.Store = (*Store)(nil)

// Store holds one client and the two collections the API uses.
type Store struct {
	client  *mongo.Client
	users   *mongo.Collection
	entries *mongo.Collection
}

// Connect dials uri, verifies the connection and ensures indexes on dbName.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, pingTimeout)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: pinging: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client:  client,
		users:   db.Collection(usersCollection),
		entries: db.Collection(entriesCollection),
	}

	if err := s.ensureIndexes(connectCtx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	return s, nil
}

// ensureIndexes is idempotent: creating an identical index is a no-op.
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_email_unique").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo: creating users.email index: %w", err)
	}

	_, err = s.entries.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("idx_user_created"),
	})
	if err != nil {
		return fmt.Errorf("mongo: creating entries index: %w", err)
	}

	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// drop removes both collections. Tests only.
func (s *Store) drop(ctx context.Context) error {
	if err := s.users.Drop(ctx); err != nil {
		return err
	}
	return s.entries.Drop(ctx)
}

// objectID parses a hex id. ok is false for anything that is not a valid ObjectID.
func objectID(hex string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(hex)
	return oid, err == nil
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
