package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nutritionnest/coaching-api/internal/core/ports"
)

type FeedHandler struct {
	feed ports.FeedService
}

func NewFeedHandler(feed ports.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// List handles GET /community/posts.
func (h *FeedHandler) List(c echo.Context) error {
	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
	}

	posts, err := h.feed.ListPosts(c.Request().Context(), user.ID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// Create handles POST /community/posts.
func (h *FeedHandler) Create(c echo.Context) error {
	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.feed.CreatePost(c.Request().Context(), user, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// Like handles POST /community/posts/:id/like. The like is a toggle.
func (h *FeedHandler) Like(c echo.Context) error {
	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	liked, err := h.feed.LikePost(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likeResponse{Liked: liked})
}
