package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agencysite/internal/model"
)

const (
	postEntity    = "blog post"
	postUniqueKey = "slug"
)

type blogPostRepository struct {
	db *gorm.DB
}

// NewBlogPostRepository creates a new blog post repository.
func NewBlogPostRepository(db *gorm.DB) BlogPostRepository {
	return &blogPostRepository{db: db}
}

// CreateBlogPost inserts a post; the slug unique index is the authoritative duplicate check.
func (r *blogPostRepository) CreateBlogPost(ctx context.Context, post *model.BlogPost) error {
	return translate(r.db.WithContext(ctx).Create(post).Error, postEntity, postUniqueKey)
}

// FindBlogPostByID finds a post by ID regardless of publish state.
func (r *blogPostRepository) FindBlogPostByID(ctx context.Context, id uuid.UUID) (*model.BlogPost, error) {
	var post model.BlogPost
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, translate(err, postEntity, postUniqueKey)
	}
	return &post, nil
}

// FindBlogPostBySlug finds a post by slug regardless of publish state.
func (r *blogPostRepository) FindBlogPostBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	var post model.BlogPost
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, translate(err, postEntity, postUniqueKey)
	}
	return &post, nil
}

// ListBlogPosts lists posts newest first, optionally only published ones.
func (r *blogPostRepository) ListBlogPosts(ctx context.Context, publishedOnly bool) ([]model.BlogPost, error) {
	var posts []model.BlogPost
	query := r.db.WithContext(ctx).Model(&model.BlogPost{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if err := query.Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdateBlogPost saves the editable columns of post.
func (r *blogPostRepository) UpdateBlogPost(ctx context.Context, post *model.BlogPost) error {
	res := r.db.WithContext(ctx).Model(post).
		Select("title", "slug", "excerpt", "content", "featured_image", "author", "category",
			"tags", "read_time", "is_published", "published_at", "updated_at").
		Updates(post)
	if res.Error != nil {
		return translate(res.Error, postEntity, postUniqueKey)
	}
	return rowsOrNotFound(res, postEntity)
}

// DeleteBlogPost removes a post permanently.
func (r *blogPostRepository) DeleteBlogPost(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.BlogPost{})
	return rowsOrNotFound(res, postEntity)
}
