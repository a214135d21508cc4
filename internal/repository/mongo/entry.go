package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/journal-api/internal/apperror"
	"github.com/sakif/journal-api/internal/model"
)

type entryDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *entryDoc) toModel() model.Entry {
	return model.Entry{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Title:     d.Title,
		Content:   d.Content,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func errEntryMissing() error {
	return apperror.NotFound("Entry not found")
}

// ownedFilter matches an entry by id AND owner. ok is false when id is
// malformed, in which case nothing can match.
func ownedFilter(id, ownerID string) (bson.M, bool) {
	oid, ok := objectID(id)
	if !ok {
		return nil, false
	}
	return bson.M{"_id": oid, "userId": ownerID}, true
}

func (s *Store) CreateEntry(ctx context.Context, entry *model.Entry) error {
	doc := entryDoc{
		ID:        primitive.NewObjectID(),
		UserID:    entry.UserID,
		Title:     entry.Title,
		Content:   entry.Content,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
	if _, err := s.entries.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: creating entry: %w", err)
	}

	entry.ID = doc.ID.Hex()
	return nil
}

// ListEntriesByOwner sorts by createdAt then _id, both descending. ObjectIDs
// grow with insertion time, so ties keep insertion order.
func (s *Store) ListEntriesByOwner(ctx context.Context, ownerID string) ([]model.Entry, error) {
	entries := make([]model.Entry, 0)

	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	})
	cursor, err := s.entries.Find(ctx, bson.M{"userId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: listing entries: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc entryDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decoding entry: %w", err)
		}
		entries = append(entries, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo: iterating entries: %w", err)
	}

	return entries, nil
}

func (s *Store) GetOwnedEntry(ctx context.Context, id, ownerID string) (*model.Entry, error) {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return nil, errEntryMissing()
	}

	var doc entryDoc
	if err := s.entries.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, errEntryMissing()
		}
		return nil, fmt.Errorf("mongo: getting entry %s: %w", id, err)
	}

	e := doc.toModel()
	return &e, nil
}

func (s *Store) UpdateEntry(ctx context.Context, entry *model.Entry) error {
	filter, ok := ownedFilter(entry.ID, entry.UserID)
	if !ok {
		return errEntryMissing()
	}

	res, err := s.entries.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"title":     entry.Title,
		"content":   entry.Content,
		"updatedAt": entry.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("mongo: updating entry %s: %w", entry.ID, err)
	}
	if res.MatchedCount == 0 {
		return errEntryMissing()
	}
	return nil
}

func (s *Store) DeleteOwnedEntry(ctx context.Context, id, ownerID string) error {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return errEntryMissing()
	}

	res, err := s.entries.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongo: deleting entry %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return errEntryMissing()
	}
	return nil
}
