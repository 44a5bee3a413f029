package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nutritionnest/coaching-api/internal/core/domain"
)

const postsCollection = "posts"

type PostRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{coll: db.Collection(postsCollection)}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	created := *post
	created.ID = uuid.NewString()
	if created.LikedBy == nil {
		created.LikedBy = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, created); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return &created, nil
}

func (r *PostRepository) FindRecent(ctx context.Context, limit int) ([]domain.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	var posts []domain.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

// ToggleLike flips userID's like atomically: the filters on liked_by make the
// two updates mutually exclusive even under concurrent toggles.
func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	// Try to remove an existing like first.
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": postID, "liked_by": userID},
		bson.M{"$pull": bson.M{"liked_by": userID}, "$inc": bson.M{"likes": -1}},
	)
	if err != nil {
		return false, fmt.Errorf("unlike post: %w", err)
	}
	if res.ModifiedCount > 0 {
		return false, nil
	}

	res, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": postID, "liked_by": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"liked_by": userID}, "$inc": bson.M{"likes": 1}},
	)
	if err != nil {
		return false, fmt.Errorf("like post: %w", err)
	}
	if res.MatchedCount == 0 {
		// Neither update matched: the post does not exist.
		if exists, err := r.exists(ctx, postID); err != nil {
			return false, err
		} else if !exists {
			return false, domain.ErrPostNotFound
		}
		// Concurrent toggle won the race; report the current state as liked.
		return true, nil
	}
	return true, nil
}

func (r *PostRepository) exists(ctx context.Context, postID string) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{"_id": postID}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check post: %w", err)
	}
	return true, nil
}
