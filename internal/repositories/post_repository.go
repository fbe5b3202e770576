package repositories

import (
	"context"

	"github.com/anonto42/userposts/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostsByUserID(ctx context.Context, userID uint) ([]models.Post, error)
	CountPosts(ctx context.Context) (int64, error)
}

// GormPostRepository implements PostRepository on top of gorm
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// CreatePost inserts post without touching its User association. An unknown
// UserID yields an error wrapping ErrForeignKeyViolated and nothing is stored.
func (r *GormPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error)
}

// GetPostsByUserID returns the posts owned by userID, oldest first. The
// result is empty, not nil, when the user has no posts.
func (r *GormPostRepository) GetPostsByUserID(ctx context.Context, userID uint) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *GormPostRepository) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&n).Error
	return n, err
}
