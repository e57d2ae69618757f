package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusconnect/alumni-api/internal/api/metrics"
	"github.com/campusconnect/alumni-api/internal/core/domain"
	"github.com/campusconnect/alumni-api/internal/core/ports"
)

// PostService implements the forum operations: create, list, comment, and
// toggle-like. Author identity always comes from the authenticated caller.
type PostService struct {
	ids    ports.IdentityRepository
	posts  ports.PostRepository
	logger zerolog.Logger
}

func NewPostService(ids ports.IdentityRepository, posts ports.PostRepository, logger zerolog.Logger) *PostService {
	return &PostService{ids: ids, posts: posts, logger: logger}
}

func (s *PostService) Create(ctx context.Context, author *domain.Identity, title, content string) (*domain.PostView, error) {
	now := time.Now().UTC()
	created, err := s.posts.Create(ctx, &domain.Post{
		Title:     title,
		Content:   content,
		Author:    author.Ref(),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("author", author.ID).Msg("failed to create post")
		return nil, err
	}

	metrics.PostsCreatedTotal.Inc()
	s.logger.Info().Str("post", created.ID).Str("author", author.ID).Msg("post created")
	return s.expand(ctx, created)
}

// List returns all posts newest-first with display fields expanded.
func (s *PostService) List(ctx context.Context) ([]*domain.PostView, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries, err := s.authorSummaries(ctx, posts)
	if err != nil {
		return nil, err
	}

	views := make([]*domain.PostView, len(posts))
	for i, p := range posts {
		views[i] = expandPost(p, summaries)
	}
	return views, nil
}

func (s *PostService) AddComment(ctx context.Context, author *domain.Identity, postID, content string) (*domain.PostView, error) {
	updated, err := s.posts.AddComment(ctx, postID, domain.Comment{
		Content:   content,
		Author:    author.Ref(),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, updated)
}

// ToggleLike flips the caller's membership in the post's like set: present
// removes, absent adds. Double invocation alternates state by design.
func (s *PostService) ToggleLike(ctx context.Context, actor *domain.Identity, postID string) (*domain.PostView, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Post
	if post.LikedBy(actor.ID) {
		updated, err = s.posts.RemoveLike(ctx, postID, actor.ID)
	} else {
		updated, err = s.posts.AddLike(ctx, postID, actor.Ref())
	}
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, updated)
}

// expand resolves display fields for a single post.
func (s *PostService) expand(ctx context.Context, post *domain.Post) (*domain.PostView, error) {
	summaries, err := s.authorSummaries(ctx, []*domain.Post{post})
	if err != nil {
		return nil, err
	}
	return expandPost(post, summaries), nil
}

// authorSummaries batch-resolves every author referenced by the posts or
// their comments.
func (s *PostService) authorSummaries(ctx context.Context, posts []*domain.Post) (map[string]domain.IdentitySummary, error) {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, p := range posts {
		add(p.Author.ID)
		for _, c := range p.Comments {
			add(c.Author.ID)
		}
	}
	if len(ids) == 0 {
		return map[string]domain.IdentitySummary{}, nil
	}
	return s.ids.Summaries(ctx, ids)
}

func expandPost(p *domain.Post, summaries map[string]domain.IdentitySummary) *domain.PostView {
	view := &domain.PostView{Post: *p}
	if a, ok := summaries[p.Author.ID]; ok {
		view.AuthorName = a.FullName
		view.AuthorEmail = a.CollegeEmail
	}
	view.Comments = make([]domain.CommentView, len(p.Comments))
	for i, c := range p.Comments {
		cv := domain.CommentView{Comment: c}
		if a, ok := summaries[c.Author.ID]; ok {
			cv.AuthorName = a.FullName
			cv.AuthorEmail = a.CollegeEmail
		}
		view.Comments[i] = cv
	}
	return view
}
