package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "agencysite/internal/errors"
	"agencysite/internal/model"
)

// MemoryStorage is a map-backed Storage for tests and local development. Unique keys are
// enforced under the same lock as the write, mirroring the database indexes.
type MemoryStorage struct {
	mu sync.RWMutex

	users      map[uuid.UUID]model.User
	userOrder  []uuid.UUID
	admins     map[uuid.UUID]model.AdminUser
	adminOrder []uuid.UUID
	forms      map[uuid.UUID]model.FormConfig
	formOrder  []uuid.UUID
	posts      map[uuid.UUID]model.BlogPost
	postOrder  []uuid.UUID
	resets     map[string]model.PasswordResetToken

	contacts   []model.ContactSubmission
	discovery  []model.DiscoveryCallSubmission
	talkGrowth []model.TalkGrowthSubmission

	now func() time.Time
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage returns an empty in-memory Storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:  make(map[uuid.UUID]model.User),
		admins: make(map[uuid.UUID]model.AdminUser),
		forms:  make(map[uuid.UUID]model.FormConfig),
		posts:  make(map[uuid.UUID]model.BlogPost),
		resets: make(map[string]model.PasswordResetToken),
		now:    time.Now,
	}
}

// WithTransaction runs fn against s. Individual writes are atomic, but only reset token
// consumption is undone when fn fails; other writes made by fn stay in place.
func (s *MemoryStorage) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Storage) error) error {
	tx := &memoryTx{MemoryStorage: s}
	if err := fn(ctx, tx); err != nil {
		s.releaseResetTokens(tx.consumed)
		return err
	}
	return nil
}

// memoryTx records the reset tokens consumed inside a transaction so they can be released
// on rollback.
type memoryTx struct {
	*MemoryStorage
	consumed []string
}

func (t *memoryTx) ConsumeResetToken(ctx context.Context, token string, now time.Time) (*model.PasswordResetToken, error) {
	row, err := t.MemoryStorage.ConsumeResetToken(ctx, token, now)
	if err == nil {
		t.consumed = append(t.consumed, token)
	}
	return row, err
}

// WithTransaction joins the enclosing transaction.
func (t *memoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Storage) error) error {
	return fn(ctx, t)
}

func (s *MemoryStorage) stamp(id *uuid.UUID, createdAt, updatedAt *time.Time) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	now := s.now()
	if createdAt != nil && createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt != nil {
		*updatedAt = now
	}
}

func remove(order []uuid.UUID, id uuid.UUID) []uuid.UUID {
	return slices.DeleteFunc(order, func(v uuid.UUID) bool { return v == id })
}

// Users

func (s *MemoryStorage) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return apperrors.Conflict("username")
		}
	}
	s.stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	s.users[user.ID] = *user
	s.userOrder = append(s.userOrder, user.ID)
	return nil
}

func (s *MemoryStorage) FindUserByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	return &u, nil
}

func (s *MemoryStorage) FindUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (s *MemoryStorage) UpdateUserPassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return apperrors.NotFound("user")
	}
	u.Password = passwordHash
	u.UpdatedAt = s.now()
	s.users[id] = u
	return nil
}

// Admin users

func (s *MemoryStorage) adminEmailTaken(email string, except uuid.UUID) bool {
	for id, a := range s.admins {
		if id != except && a.Email == email {
			return true
		}
	}
	return false
}

func (s *MemoryStorage) CreateAdminUser(_ context.Context, admin *model.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertAdmin(admin)
}

func (s *MemoryStorage) CreateFirstAdminUser(_ context.Context, admin *model.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.admins) > 0 {
		return ErrAdminsExist
	}
	return s.insertAdmin(admin)
}

// insertAdmin must be called with s.mu held.
func (s *MemoryStorage) insertAdmin(admin *model.AdminUser) error {
	if s.adminEmailTaken(admin.Email, uuid.Nil) {
		return apperrors.Conflict(adminUniqueKey)
	}
	s.stamp(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)
	s.admins[admin.ID] = *admin
	s.adminOrder = append(s.adminOrder, admin.ID)
	return nil
}

func (s *MemoryStorage) FindAdminUserByID(_ context.Context, id uuid.UUID) (*model.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.admins[id]
	if !ok {
		return nil, apperrors.NotFound(adminEntity)
	}
	return &a, nil
}

func (s *MemoryStorage) FindAdminUserByEmail(_ context.Context, email string) (*model.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, apperrors.NotFound(adminEntity)
}

func (s *MemoryStorage) ListAdminUsers(_ context.Context) ([]model.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.AdminUser, 0, len(s.adminOrder))
	for _, id := range s.adminOrder {
		out = append(out, s.admins[id])
	}
	return out, nil
}

func (s *MemoryStorage) CountAdminUsers(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.admins)), nil
}

func (s *MemoryStorage) UpdateAdminUser(_ context.Context, admin *model.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.admins[admin.ID]
	if !ok {
		return apperrors.NotFound(adminEntity)
	}
	if s.adminEmailTaken(admin.Email, admin.ID) {
		return apperrors.Conflict(adminUniqueKey)
	}
	cur.Email = admin.Email
	cur.Role = admin.Role
	cur.FirstName = admin.FirstName
	cur.LastName = admin.LastName
	cur.IsActive = admin.IsActive
	cur.UpdatedAt = s.now()
	s.admins[admin.ID] = cur
	*admin = cur
	return nil
}

func (s *MemoryStorage) UpdateAdminPassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[id]
	if !ok {
		return apperrors.NotFound(adminEntity)
	}
	a.Password = passwordHash
	a.UpdatedAt = s.now()
	s.admins[id] = a
	return nil
}

func (s *MemoryStorage) TouchAdminLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[id]
	if !ok {
		return apperrors.NotFound(adminEntity)
	}
	a.LastLoginAt = &at
	s.admins[id] = a
	return nil
}

func (s *MemoryStorage) DeleteAdminUser(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[id]; !ok {
		return apperrors.NotFound(adminEntity)
	}
	delete(s.admins, id)
	s.adminOrder = remove(s.adminOrder, id)
	return nil
}

// Form configs

func cloneFormConfig(f model.FormConfig) model.FormConfig {
	f.RecipientEmails = slices.Clone(f.RecipientEmails)
	return f
}

func (s *MemoryStorage) formNameTaken(name string, except uuid.UUID) bool {
	for id, f := range s.forms {
		if id != except && f.FormName == name {
			return true
		}
	}
	return false
}

func (s *MemoryStorage) CreateFormConfig(_ context.Context, cfg *model.FormConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.formNameTaken(cfg.FormName, uuid.Nil) {
		return apperrors.Conflict(formUniqueKey)
	}
	s.stamp(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt)
	s.forms[cfg.ID] = cloneFormConfig(*cfg)
	s.formOrder = append(s.formOrder, cfg.ID)
	return nil
}

func (s *MemoryStorage) FindFormConfigByID(_ context.Context, id uuid.UUID) (*model.FormConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.forms[id]
	if !ok {
		return nil, apperrors.NotFound(formEntity)
	}
	f = cloneFormConfig(f)
	return &f, nil
}

func (s *MemoryStorage) FindFormConfigByName(_ context.Context, formName string) (*model.FormConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.forms {
		if f.FormName == formName {
			f = cloneFormConfig(f)
			return &f, nil
		}
	}
	return nil, apperrors.NotFound(formEntity)
}

func (s *MemoryStorage) ListFormConfigs(_ context.Context) ([]model.FormConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.FormConfig, 0, len(s.formOrder))
	for _, id := range s.formOrder {
		out = append(out, cloneFormConfig(s.forms[id]))
	}
	return out, nil
}

func (s *MemoryStorage) UpdateFormConfig(_ context.Context, cfg *model.FormConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.forms[cfg.ID]
	if !ok {
		return apperrors.NotFound(formEntity)
	}
	if s.formNameTaken(cfg.FormName, cfg.ID) {
		return apperrors.Conflict(formUniqueKey)
	}
	next := cloneFormConfig(*cfg)
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = s.now()
	s.forms[cfg.ID] = next
	cfg.UpdatedAt = next.UpdatedAt
	return nil
}

func (s *MemoryStorage) DeleteFormConfig(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.forms[id]; !ok {
		return apperrors.NotFound(formEntity)
	}
	delete(s.forms, id)
	s.formOrder = remove(s.formOrder, id)
	return nil
}

// Blog posts

func cloneBlogPost(p model.BlogPost) model.BlogPost {
	p.Tags = slices.Clone(p.Tags)
	return p
}

func (s *MemoryStorage) slugTaken(slug string, except uuid.UUID) bool {
	for id, p := range s.posts {
		if id != except && p.Slug == slug {
			return true
		}
	}
	return false
}

func (s *MemoryStorage) CreateBlogPost(_ context.Context, post *model.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slugTaken(post.Slug, uuid.Nil) {
		return apperrors.Conflict(postUniqueKey)
	}
	s.stamp(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	s.posts[post.ID] = cloneBlogPost(*post)
	s.postOrder = append(s.postOrder, post.ID)
	return nil
}

func (s *MemoryStorage) FindBlogPostByID(_ context.Context, id uuid.UUID) (*model.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, apperrors.NotFound(postEntity)
	}
	p = cloneBlogPost(p)
	return &p, nil
}

func (s *MemoryStorage) FindBlogPostBySlug(_ context.Context, slug string) (*model.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.Slug == slug {
			p = cloneBlogPost(p)
			return &p, nil
		}
	}
	return nil, apperrors.NotFound(postEntity)
}

// ListBlogPosts returns posts newest first, like the gorm implementation.
func (s *MemoryStorage) ListBlogPosts(_ context.Context, publishedOnly bool) ([]model.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.BlogPost, 0, len(s.postOrder))
	for i := len(s.postOrder) - 1; i >= 0; i-- {
		p := s.posts[s.postOrder[i]]
		if publishedOnly && !p.IsPublished {
			continue
		}
		out = append(out, cloneBlogPost(p))
	}
	return out, nil
}

func (s *MemoryStorage) UpdateBlogPost(_ context.Context, post *model.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.posts[post.ID]
	if !ok {
		return apperrors.NotFound(postEntity)
	}
	if s.slugTaken(post.Slug, post.ID) {
		return apperrors.Conflict(postUniqueKey)
	}
	next := cloneBlogPost(*post)
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = s.now()
	s.posts[post.ID] = next
	post.UpdatedAt = next.UpdatedAt
	return nil
}

func (s *MemoryStorage) DeleteBlogPost(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return apperrors.NotFound(postEntity)
	}
	delete(s.posts, id)
	s.postOrder = remove(s.postOrder, id)
	return nil
}

// Submissions

func (s *MemoryStorage) CreateSubmission(_ context.Context, submission model.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := submission.Base()
	s.stamp(&base.ID, &base.CreatedAt, nil)

	switch sub := submission.(type) {
	case *model.ContactSubmission:
		c := *sub
		c.Services = slices.Clone(sub.Services)
		s.contacts = append(s.contacts, c)
	case *model.DiscoveryCallSubmission:
		s.discovery = append(s.discovery, *sub)
	case *model.TalkGrowthSubmission:
		t := *sub
		t.SocialPlatforms = slices.Clone(sub.SocialPlatforms)
		s.talkGrowth = append(s.talkGrowth, t)
	default:
		return fmt.Errorf("unsupported submission type %T", submission)
	}
	return nil
}

func (s *MemoryStorage) SubmissionStats(_ context.Context, recentSince time.Time) (*model.SubmissionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var bases = map[model.SubmissionKind][]*model.SubmissionBase{}
	for i := range s.contacts {
		bases[model.SubmissionContact] = append(bases[model.SubmissionContact], &s.contacts[i].SubmissionBase)
	}
	for i := range s.discovery {
		bases[model.SubmissionDiscoveryCall] = append(bases[model.SubmissionDiscoveryCall], &s.discovery[i].SubmissionBase)
	}
	for i := range s.talkGrowth {
		bases[model.SubmissionTalkGrowth] = append(bases[model.SubmissionTalkGrowth], &s.talkGrowth[i].SubmissionBase)
	}

	stats := &model.SubmissionStats{SubmissionsByForm: make(map[model.SubmissionKind]int64, 3)}
	for _, kind := range model.SubmissionKinds() {
		rows := bases[kind]
		stats.SubmissionsByForm[kind] = int64(len(rows))
		stats.TotalSubmissions += int64(len(rows))
		for _, b := range rows {
			if !b.CreatedAt.Before(recentSince) {
				stats.RecentSubmissions++
			}
		}
	}
	return stats, nil
}

// Password reset tokens

func (s *MemoryStorage) CreateResetToken(_ context.Context, token *model.PasswordResetToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resets[token.Token]; ok {
		return apperrors.Conflict(resetUniqueKey)
	}
	s.stamp(&token.ID, &token.CreatedAt, nil)
	s.resets[token.Token] = *token
	return nil
}

func (s *MemoryStorage) FindResetToken(_ context.Context, token string) (*model.PasswordResetToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.resets[token]
	if !ok {
		return nil, apperrors.NotFound(resetEntity)
	}
	return &t, nil
}

func (s *MemoryStorage) releaseResetTokens(tokens []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, token := range tokens {
		if t, ok := s.resets[token]; ok {
			t.UsedAt = nil
			s.resets[token] = t
		}
	}
}

func (s *MemoryStorage) ConsumeResetToken(_ context.Context, token string, now time.Time) (*model.PasswordResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.resets[token]
	if !ok || !t.Redeemable(now) {
		return nil, apperrors.NotFound(resetEntity)
	}
	t.UsedAt = &now
	s.resets[token] = t
	return &t, nil
}
