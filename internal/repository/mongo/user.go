package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sakif/journal-api/internal/apperror"
	"github.com/sakif/journal-api/internal/model"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *userDoc) toModel() *model.User {
	return &model.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

func errUserMissing() error {
	return apperror.NotFound("User not found")
}

// CreateUser inserts the user. The unique email index turns a lost
// registration race into apperror.DuplicateEmail.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	doc := userDoc{
		ID:        primitive.NewObjectID(),
		Email:     user.Email,
		Name:      user.Name,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
	}

	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.DuplicateEmail()
		}
		return fmt.Errorf("mongo: inserting user: %w", err)
	}

	user.ID = doc.ID.Hex()
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, errUserMissing()
	}
	return s.findUser(ctx, bson.M{"_id": oid})
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, errUserMissing()
		}
		return nil, fmt.Errorf("mongo: finding user: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Store) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	oid, ok := objectID(id)
	if !ok {
		return errUserMissing()
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"password": passwordHash}},
	)
	if err != nil {
		return fmt.Errorf("mongo: updating password for user %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return errUserMissing()
	}
	return nil
}
