package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nutritionnest/coaching-api/internal/core/domain"
)

type stubPostRepo struct {
	posts  []*domain.Post
	nextID int
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	r.nextID++
	stored := *post
	stored.ID = fmt.Sprintf("post%d", r.nextID)
	r.posts = append(r.posts, &stored)
	clone := stored
	return &clone, nil
}

func (r *stubPostRepo) FindRecent(_ context.Context, limit int) ([]domain.Post, error) {
	out := make([]domain.Post, 0, limit)
	for i := len(r.posts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.posts[i])
	}
	return out, nil
}

func (r *stubPostRepo) ToggleLike(_ context.Context, postID, userID string) (bool, error) {
	for _, p := range r.posts {
		if p.ID != postID {
			continue
		}
		for i, id := range p.LikedBy {
			if id == userID {
				p.LikedBy = append(p.LikedBy[:i], p.LikedBy[i+1:]...)
				p.Likes--
				return false, nil
			}
		}
		p.LikedBy = append(p.LikedBy, userID)
		p.Likes++
		return true, nil
	}
	return false, domain.ErrPostNotFound
}

func TestFeedService_CreatePost(t *testing.T) {
	repo := &stubPostRepo{}
	svc := NewFeedService(repo, zerolog.Nop())
	author := &domain.User{ID: "u1", Name: "John", Role: domain.RoleMember}

	post, err := svc.CreatePost(context.Background(), author, "  Down 2kg this month!  ")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if post.Content != "Down 2kg this month!" {
		t.Fatalf("expected trimmed content, got %q", post.Content)
	}
	if post.AuthorName != "John" {
		t.Fatalf("expected author name denormalised, got %q", post.AuthorName)
	}
}

func TestFeedService_CreatePost_EmptyContent(t *testing.T) {
	svc := NewFeedService(&stubPostRepo{}, zerolog.Nop())
	author := &domain.User{ID: "u1", Name: "John"}

	if _, err := svc.CreatePost(context.Background(), author, "   "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestFeedService_ListMarksViewerLikes(t *testing.T) {
	repo := &stubPostRepo{}
	svc := NewFeedService(repo, zerolog.Nop())
	ctx := context.Background()
	author := &domain.User{ID: "u1", Name: "John"}

	first, _ := svc.CreatePost(ctx, author, "first")
	_, _ = svc.CreatePost(ctx, author, "second")

	if liked, err := svc.LikePost(ctx, "u2", first.ID); err != nil || !liked {
		t.Fatalf("expected like toggled on, got liked=%v err=%v", liked, err)
	}

	views, err := svc.ListPosts(ctx, "u2", 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(views))
	}
	// Newest first.
	if views[0].Content != "second" {
		t.Fatalf("expected newest post first, got %q", views[0].Content)
	}
	if !views[1].Liked || views[1].Likes != 1 {
		t.Fatalf("expected first post marked liked with 1 like, got %+v", views[1])
	}

	// Second toggle removes the like.
	if liked, err := svc.LikePost(ctx, "u2", first.ID); err != nil || liked {
		t.Fatalf("expected like toggled off, got liked=%v err=%v", liked, err)
	}
}

func TestFeedService_LikeMissingPost(t *testing.T) {
	svc := NewFeedService(&stubPostRepo{}, zerolog.Nop())

	if _, err := svc.LikePost(context.Background(), "u1", "ghost"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}
