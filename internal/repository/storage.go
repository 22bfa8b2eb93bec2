package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "agencysite/internal/errors"
	"agencysite/internal/model"
)

// UserRepository defines persistence operations for site users.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	FindUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// AdminUserRepository defines persistence operations for admin accounts.
type AdminUserRepository interface {
	CreateAdminUser(ctx context.Context, admin *model.AdminUser) error
	FindAdminUserByID(ctx context.Context, id uuid.UUID) (*model.AdminUser, error)
	FindAdminUserByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	ListAdminUsers(ctx context.Context) ([]model.AdminUser, error)
	CountAdminUsers(ctx context.Context) (int64, error)
	// CreateFirstAdminUser inserts admin only if no admin exists yet. Exactly one concurrent
	// caller wins; the others get ErrAdminsExist.
	CreateFirstAdminUser(ctx context.Context, admin *model.AdminUser) error
	UpdateAdminUser(ctx context.Context, admin *model.AdminUser) error
	UpdateAdminPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	TouchAdminLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteAdminUser(ctx context.Context, id uuid.UUID) error
}

// FormConfigRepository defines persistence operations for form configurations.
type FormConfigRepository interface {
	CreateFormConfig(ctx context.Context, cfg *model.FormConfig) error
	FindFormConfigByID(ctx context.Context, id uuid.UUID) (*model.FormConfig, error)
	FindFormConfigByName(ctx context.Context, formName string) (*model.FormConfig, error)
	ListFormConfigs(ctx context.Context) ([]model.FormConfig, error)
	UpdateFormConfig(ctx context.Context, cfg *model.FormConfig) error
	DeleteFormConfig(ctx context.Context, id uuid.UUID) error
}

// BlogPostRepository defines persistence operations for blog posts.
type BlogPostRepository interface {
	CreateBlogPost(ctx context.Context, post *model.BlogPost) error
	FindBlogPostByID(ctx context.Context, id uuid.UUID) (*model.BlogPost, error)
	FindBlogPostBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
	ListBlogPosts(ctx context.Context, publishedOnly bool) ([]model.BlogPost, error)
	UpdateBlogPost(ctx context.Context, post *model.BlogPost) error
	DeleteBlogPost(ctx context.Context, id uuid.UUID) error
}

// SubmissionRepository defines persistence operations for lead form submissions.
// Submissions are append-only.
type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, submission model.Submission) error
	SubmissionStats(ctx context.Context, recentSince time.Time) (*model.SubmissionStats, error)
}

// PasswordResetRepository defines persistence operations for password reset tokens.
type PasswordResetRepository interface {
	CreateResetToken(ctx context.Context, token *model.PasswordResetToken) error
	FindResetToken(ctx context.Context, token string) (*model.PasswordResetToken, error)
	// ConsumeResetToken marks token used if it is unused and unexpired at now. Exactly one
	// concurrent caller wins; the others get ErrNotFound.
	ConsumeResetToken(ctx context.Context, token string, now time.Time) (*model.PasswordResetToken, error)
}

// ErrAdminsExist is returned by CreateFirstAdminUser once an admin account exists.
var ErrAdminsExist = errors.New("admin users already exist")

// Storage is the persistence seam the services depend on. Implementations report missing
// rows with errors.ErrNotFound and unique key violations with errors.ErrConflict.
type Storage interface {
	UserRepository
	AdminUserRepository
	FormConfigRepository
	BlogPostRepository
	SubmissionRepository
	PasswordResetRepository

	// WithTransaction runs fn against a Storage bound to a single transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Storage) error) error
}

// Models lists every table managed by the gorm storage, for migrations.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.AdminUser{},
		&model.AdminBootstrap{},
		&model.FormConfig{},
		&model.BlogPost{},
		&model.ContactSubmission{},
		&model.DiscoveryCallSubmission{},
		&model.TalkGrowthSubmission{},
		&model.PasswordResetToken{},
	}
}

type gormStorage struct {
	UserRepository
	AdminUserRepository
	FormConfigRepository
	BlogPostRepository
	SubmissionRepository
	PasswordResetRepository

	db *gorm.DB
}

// NewGormStorage builds a Storage over a relational database.
func NewGormStorage(db *gorm.DB) Storage {
	return &gormStorage{
		UserRepository:          NewUserRepository(db),
		AdminUserRepository:     NewAdminUserRepository(db),
		FormConfigRepository:    NewFormConfigRepository(db),
		BlogPostRepository:      NewBlogPostRepository(db),
		SubmissionRepository:    NewSubmissionRepository(db),
		PasswordResetRepository: NewPasswordResetRepository(db),
		db:                      db,
	}
}

// WithTransaction executes fn within a database transaction.
func (s *gormStorage) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Storage) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewGormStorage(tx))
	})
}

// translate converts gorm errors into the storage error contract.
func translate(err error, entity, uniqueKey string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict(uniqueKey)
	default:
		return err
	}
}

// rowsOrNotFound returns NotFound when a write touched no rows.
func rowsOrNotFound(res *gorm.DB, entity string) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(entity)
	}
	return nil
}
