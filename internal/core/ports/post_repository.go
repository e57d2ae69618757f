package ports

import (
	"context"

	"github.com/campusconnect/alumni-api/internal/core/domain"
)

// PostRepository persists forum posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)

	// FindByID returns the post or domain.ErrPostNotFound.
	FindByID(ctx context.Context, id string) (*domain.Post, error)

	// List returns all posts newest-first.
	List(ctx context.Context) ([]*domain.Post, error)

	AddComment(ctx context.Context, postID string, comment domain.Comment) (*domain.Post, error)

	AddLike(ctx context.Context, postID string, liker domain.Ref) (*domain.Post, error)
	RemoveLike(ctx context.Context, postID string, likerID string) (*domain.Post, error)
}
