package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusconnect/alumni-api/internal/core/ports"
)

// PostHandler exposes the forum operations.
type PostHandler struct {
	posts ports.PostService
}

func NewPostHandler(posts ports.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

type createPostRequest struct {
	Title   string `json:"title"   validate:"required"`
	Content string `json:"content" validate:"required"`
}

type addCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(c echo.Context) error {
	self, err := ctxIdentity(c)
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

	view, err := h.posts.Create(c.Request().Context(), self, req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

// List handles GET /api/posts — all posts, newest first.
func (h *PostHandler) List(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	views, err := h.posts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// AddComment handles POST /api/posts/:postID/comments.
func (h *PostHandler) AddComment(c echo.Context) error {
	self, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req addCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.posts.AddComment(c.Request().Context(), self, c.Param("postID"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// ToggleLike handles POST /api/posts/:postID/like. Present removes, absent
// adds; calling it twice is an undo, not a no-op.
func (h *PostHandler) ToggleLike(c echo.Context) error {
	self, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	view, err := h.posts.ToggleLike(c.Request().Context(), self, c.Param("postID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
