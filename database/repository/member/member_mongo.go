package memberRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goldengeneration/models"
	"goldengeneration/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoMemberRepo implements MemberRepository using MongoDB.
type MongoMemberRepo struct {
	coll *mongo.Collection
}

// NewMongoMemberRepo creates a MemberRepository backed by the members collection.
func NewMongoMemberRepo(db *mongo.Database) MemberRepository {
	repo := &MongoMemberRepo{coll: db.Collection("members")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to create member indexes", zap.Error(err))
	}
	return repo
}

// newContext derives a bounded context from the caller's.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func (r *MongoMemberRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "registeredAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Upsert replaces the member document, keeping the first registration time.
func (r *MongoMemberRepo) Upsert(ctx context.Context, member *models.Member) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	member.UpdatedAt = time.Now()
	if member.RegisteredAt.IsZero() {
		member.RegisteredAt = member.UpdatedAt
	}

	set := bson.M{
		"userId":    member.UserID,
		"email":     member.Email,
		"locale":    member.Locale,
		"sessionId": member.SessionID,
		"personal":  member.Personal,
		"community": member.Community,
		"updatedAt": member.UpdatedAt,
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"registeredAt": member.RegisteredAt},
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"userId": member.UserID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert member %s: %w", member.UserID, err)
	}
	return nil
}

func (r *MongoMemberRepo) GetByUserID(ctx context.Context, userID string) (*models.Member, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var member models.Member
	if err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&member); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to fetch member %s: %w", userID, err)
	}
	return &member, nil
}

func (r *MongoMemberRepo) Delete(ctx context.Context, userID string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete member %s: %w", userID, err)
	}
	if result.DeletedCount == 0 {
		return ErrMemberNotFound
	}
	return nil
}
