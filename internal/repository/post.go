// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"yatube/internal/models"
	"yatube/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations.
// List methods return the page of posts together with the total row count
// for the underlying filter, newest first.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByAuthorAndID(ctx context.Context, authorID, id uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, int64, error)
	ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]*models.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, int64, error)
	ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer func(start time.Time) { observability.ObserveQuery("insert", "posts", start) }(time.Now())
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.withDetails(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// GetByAuthorAndID fetches a post only when it belongs to the given author.
// A mismatched author/post pair reads as not found.
func (r *postRepository) GetByAuthorAndID(ctx context.Context, authorID, id uint) (*models.Post, error) {
	var post models.Post
	err := r.withDetails(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Group").
		Where("posts.id = ? AND posts.author_id = ?", id, authorID).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, int64, error) {
	defer func(start time.Time) { observability.ObserveQuery("select", "posts", start) }(time.Now())
	return r.listWhere(ctx, nil, limit, offset)
}

func (r *postRepository) ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]*models.Post, int64, error) {
	cond := func(db *gorm.DB) *gorm.DB { return db.Where("posts.group_id = ?", groupID) }
	return r.listWhere(ctx, cond, limit, offset)
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, int64, error) {
	cond := func(db *gorm.DB) *gorm.DB { return db.Where("posts.author_id = ?", authorID) }
	return r.listWhere(ctx, cond, limit, offset)
}

// ListFeed returns posts authored by users the given user follows.
func (r *postRepository) ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, int64, error) {
	cond := func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN follows ON follows.author_id = posts.author_id").
			Where("follows.user_id = ?", userID)
	}
	return r.listWhere(ctx, cond, limit, offset)
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer func(start time.Time) { observability.ObserveQuery("update", "posts", start) }(time.Now())
	// Posts arrive here with Author and Group preloaded; only the post row changes.
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// withDetails adds the comments_count subquery so list and detail pages get
// the count in a single query.
func (r *postRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count")
}

func (r *postRepository) listWhere(ctx context.Context, cond func(*gorm.DB) *gorm.DB, limit, offset int) ([]*models.Post, int64, error) {
	countQuery := r.db.WithContext(ctx).Model(&models.Post{})
	if cond != nil {
		countQuery = cond(countQuery)
	}
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	listQuery := r.withDetails(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Group")
	if cond != nil {
		listQuery = cond(listQuery)
	}

	var posts []*models.Post
	err := listQuery.
		Order("posts.pub_date DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}
