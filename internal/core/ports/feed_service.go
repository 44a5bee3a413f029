package ports

import (
	"context"

	"github.com/nutritionnest/coaching-api/internal/core/domain"
)

// PostView is a post enriched with whether the requesting user liked it.
type PostView struct {
	domain.Post
	Liked bool `json:"liked"`
}

// FeedService exposes the community feed to authenticated users.
type FeedService interface {
	ListPosts(ctx context.Context, viewerID string, limit int) ([]PostView, error)
	CreatePost(ctx context.Context, author *domain.User, content string) (*domain.Post, error)
	// LikePost toggles the viewer's like; it returns the new liked state.
	LikePost(ctx context.Context, viewerID, postID string) (bool, error)
}

// PostRepository is the persistence port for feed posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindRecent(ctx context.Context, limit int) ([]domain.Post, error)
	// ToggleLike flips userID's like on the post and returns the new state.
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)
}
