package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "agencysite/internal/errors"
	"agencysite/internal/model"
	"agencysite/internal/repository"
)

// BlogPostInput is the full body of a new blog post. An omitted slug is derived from the
// title and an omitted readTime from the content.
type BlogPostInput struct {
	Title         string     `json:"title" validate:"required,max=255"`
	Slug          string     `json:"slug" validate:"omitempty,max=255,slug"`
	Excerpt       string     `json:"excerpt" validate:"required,min=10"`
	Content       string     `json:"content" validate:"required,min=50"`
	FeaturedImage *string    `json:"featuredImage" validate:"omitempty,url|datauri"`
	Author        string     `json:"author" validate:"required,max=255"`
	Category      string     `json:"category" validate:"required,max=100"`
	Tags          []string   `json:"tags" validate:"omitempty,dive,required,max=50"`
	ReadTime      string     `json:"readTime" validate:"omitempty,max=50"`
	IsPublished   bool       `json:"isPublished"`
	PublishedAt   *time.Time `json:"publishedAt"`
}

// BlogPostPatch is a partial update of a blog post.
type BlogPostPatch struct {
	Title         *string    `json:"title" validate:"omitnil,min=1,max=255"`
	Slug          *string    `json:"slug" validate:"omitnil,max=255,slug"`
	Excerpt       *string    `json:"excerpt" validate:"omitnil,min=10"`
	Content       *string    `json:"content" validate:"omitnil,min=50"`
	FeaturedImage *string    `json:"featuredImage" validate:"omitempty,url|datauri"`
	Author        *string    `json:"author" validate:"omitnil,min=1,max=255"`
	Category      *string    `json:"category" validate:"omitnil,min=1,max=100"`
	Tags          *[]string  `json:"tags" validate:"omitnil,dive,required,max=50"`
	ReadTime      *string    `json:"readTime" validate:"omitnil,max=50"`
	IsPublished   *bool      `json:"isPublished"`
	PublishedAt   *time.Time `json:"publishedAt"`
}

// BlogService manages blog posts. Public readers only ever see published posts.
type BlogService interface {
	ListPosts(ctx context.Context) ([]model.BlogPost, error)
	ListPublishedPosts(ctx context.Context) ([]model.BlogPost, error)
	GetPublishedPost(ctx context.Context, slug string) (*model.BlogPost, error)
	GetPost(ctx context.Context, id uuid.UUID) (*model.BlogPost, error)
	CreatePost(ctx context.Context, in BlogPostInput) (*model.BlogPost, error)
	UpdatePost(ctx context.Context, id uuid.UUID, in BlogPostPatch) (*model.BlogPost, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
}

type blogService struct {
	store repository.BlogPostRepository
	now   func() time.Time
}

// NewBlogService creates a new blog service.
func NewBlogService(store repository.BlogPostRepository) BlogService {
	return &blogService{store: store, now: time.Now}
}

func (s *blogService) ListPosts(ctx context.Context) ([]model.BlogPost, error) {
	posts, err := s.store.ListBlogPosts(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *blogService) ListPublishedPosts(ctx context.Context) ([]model.BlogPost, error) {
	posts, err := s.store.ListBlogPosts(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return posts, nil
}

// GetPublishedPost returns the post with slug. Drafts are reported as not found.
func (s *blogService) GetPublishedPost(ctx context.Context, slug string) (*model.BlogPost, error) {
	post, err := s.store.FindBlogPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished {
		return nil, apperrors.NotFound("blog post")
	}
	return post, nil
}

func (s *blogService) GetPost(ctx context.Context, id uuid.UUID) (*model.BlogPost, error) {
	return s.store.FindBlogPostByID(ctx, id)
}

// MinContentLength is the shortest post body accepted, counted after sanitization.
const MinContentLength = 50

// cleanContent sanitizes a post body and checks what is left is still long enough to store.
func cleanContent(raw string) (string, error) {
	content := SanitizeContent(raw)
	if utf8.RuneCountInString(strings.TrimSpace(content)) < MinContentLength {
		return "", apperrors.NewValidationError("content",
			fmt.Sprintf("content must be at least %d characters after removing unsafe markup", MinContentLength))
	}
	return content, nil
}

// ensureSlugFree reports a conflict when another post already uses slug. The unique index
// still decides races between concurrent writers.
func (s *blogService) ensureSlugFree(ctx context.Context, slug string, self uuid.UUID) error {
	existing, err := s.store.FindBlogPostBySlug(ctx, slug)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check slug: %w", err)
	case existing.ID != self:
		return apperrors.Conflict("slug")
	default:
		return nil
	}
}

func (s *blogService) CreatePost(ctx context.Context, in BlogPostInput) (*model.BlogPost, error) {
	slug := in.Slug
	if slug == "" {
		slug = Slugify(in.Title)
		if slug == "" {
			return nil, apperrors.NewValidationError("slug", "slug could not be derived from title")
		}
	} else if !ValidSlug(slug) {
		return nil, apperrors.NewValidationError("slug", "slug may only contain lowercase letters, numbers and hyphens")
	}
	content, err := cleanContent(in.Content)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, slug, uuid.Nil); err != nil {
		return nil, err
	}

	readTime := strings.TrimSpace(in.ReadTime)
	if readTime == "" {
		readTime = ReadTime(content)
	}

	post := &model.BlogPost{
		Title:         strings.TrimSpace(in.Title),
		Slug:          slug,
		Excerpt:       in.Excerpt,
		Content:       content,
		FeaturedImage: blankToNil(in.FeaturedImage),
		Author:        strings.TrimSpace(in.Author),
		Category:      strings.TrimSpace(in.Category),
		Tags:          append([]string{}, in.Tags...),
		ReadTime:      readTime,
		IsPublished:   in.IsPublished,
		PublishedAt:   in.PublishedAt,
	}
	if post.IsPublished && post.PublishedAt == nil {
		now := s.now()
		post.PublishedAt = &now
	}

	if err := s.store.CreateBlogPost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost applies a partial update. Publishing a post that was never published stamps
// publishedAt; unpublishing keeps it.
func (s *blogService) UpdatePost(ctx context.Context, id uuid.UUID, in BlogPostPatch) (*model.BlogPost, error) {
	post, err := s.store.FindBlogPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Slug != nil && *in.Slug != post.Slug {
		if !ValidSlug(*in.Slug) {
			return nil, apperrors.NewValidationError("slug", "slug may only contain lowercase letters, numbers and hyphens")
		}
		if err := s.ensureSlugFree(ctx, *in.Slug, post.ID); err != nil {
			return nil, err
		}
		post.Slug = *in.Slug
	}
	if in.Title != nil {
		post.Title = strings.TrimSpace(*in.Title)
	}
	if in.Excerpt != nil {
		post.Excerpt = *in.Excerpt
	}
	if in.Content != nil {
		content, err := cleanContent(*in.Content)
		if err != nil {
			return nil, err
		}
		post.Content = content
		if in.ReadTime == nil {
			post.ReadTime = ReadTime(content)
		}
	}
	if in.ReadTime != nil {
		post.ReadTime = strings.TrimSpace(*in.ReadTime)
		if post.ReadTime == "" {
			post.ReadTime = ReadTime(post.Content)
		}
	}
	if in.FeaturedImage != nil {
		post.FeaturedImage = blankToNil(in.FeaturedImage)
	}
	if in.Author != nil {
		post.Author = strings.TrimSpace(*in.Author)
	}
	if in.Category != nil {
		post.Category = strings.TrimSpace(*in.Category)
	}
	if in.Tags != nil {
		post.Tags = append([]string{}, (*in.Tags)...)
	}

	wasPublished := post.IsPublished
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}
	switch {
	case in.PublishedAt != nil:
		post.PublishedAt = in.PublishedAt
	case post.IsPublished && !wasPublished && post.PublishedAt == nil:
		now := s.now()
		post.PublishedAt = &now
	}

	if err := s.store.UpdateBlogPost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *blogService) DeletePost(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteBlogPost(ctx, id)
}
