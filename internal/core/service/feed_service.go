package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nutritionnest/coaching-api/internal/core/domain"
	"github.com/nutritionnest/coaching-api/internal/core/ports"
)

const defaultFeedLimit = 50

// FeedService serves the community progress feed.
type FeedService struct {
	repo ports.PostRepository
	log  zerolog.Logger
}

func NewFeedService(repo ports.PostRepository, log zerolog.Logger) *FeedService {
	return &FeedService{repo: repo, log: log}
}

// ListPosts returns the most recent posts, newest first, marking the ones the
// viewer has liked.
func (s *FeedService) ListPosts(ctx context.Context, viewerID string, limit int) ([]ports.PostView, error) {
	if limit <= 0 || limit > defaultFeedLimit {
		limit = defaultFeedLimit
	}

	posts, err := s.repo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	views := make([]ports.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, ports.PostView{Post: p, Liked: p.LikedByUser(viewerID)})
	}
	return views, nil
}

func (s *FeedService) CreatePost(ctx context.Context, author *domain.User, content string) (*domain.Post, error) {
	if author == nil {
		return nil, domain.ErrPermissionDenied
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrValidation
	}

	post := &domain.Post{
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	created, err := s.repo.Create(ctx, post)
	if err != nil {
		s.log.Error().Err(err).Str("author_id", author.ID).Msg("post creation failed")
		return nil, err
	}
	return created, nil
}

func (s *FeedService) LikePost(ctx context.Context, viewerID, postID string) (bool, error) {
	liked, err := s.repo.ToggleLike(ctx, postID, viewerID)
	if err != nil {
		s.log.Error().Err(err).Str("post_id", postID).Msg("like toggle failed")
		return false, err
	}
	return liked, nil
}
