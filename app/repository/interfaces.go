package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/newsfeed/app/models"
	"gorm.io/gorm"
)

// NewsfeedRepository defines the data access of the news feed: public
// listings, the moderation view and news/tag mutations.
type NewsfeedRepository interface {
	IndexFront(ctx context.Context, p Pagination) (*Page[models.News], error)
	IndexTag(ctx context.Context, p Pagination, tagID uint) (*Page[models.News], error)
	Search(ctx context.Context, p Pagination, text string) (*Page[models.News], error)
	Index(ctx context.Context, p Pagination, filter IndexFilter) (*Page[AdminNewsRow], error)
	Show(ctx context.Context, slug string) (*NewsWithComments, error)
	Edit(ctx context.Context, news *models.News) (*NewsWithTagLabels, error)
	GetByID(ctx context.Context, id uint) (*models.News, error)
	GetByIDWithTags(ctx context.Context, id uint) (*models.News, error)
	Store(ctx context.Context, in NewsInput, ownerID uint) (*models.News, error)
	Update(ctx context.Context, in NewsInput, news *models.News) error
	UpdateSeen(ctx context.Context, in SeenInput, id uint) error
	UpdateActive(ctx context.Context, in ActiveInput, id uint) error
	Destroy(ctx context.Context, news *models.News) error
	GetSlug(ctx context.Context, commentID uint) (string, error)
	GetTagByID(ctx context.Context, tagID uint) (string, error)
	Count(ctx context.Context) (int64, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	SlugExistsExceptID(ctx context.Context, slug string, id uint) (bool, error)
	PurgeOrphanTags(ctx context.Context) (int64, error)
}

// LabelCache caches tag labels by tag id. Implementations must be safe for
// concurrent use.
type LabelCache interface {
	GetLabel(ctx context.Context, tagID uint) (label string, ok bool, err error)
	SetLabel(ctx context.Context, tagID uint, label string) error
	DeleteLabels(ctx context.Context, tagIDs ...uint) error
}

// IndexFilter narrows and orders the moderation listing. UserID 0 lists every
// owner. OrderBy and Direction default to created_at / desc.
type IndexFilter struct {
	UserID    uint
	OrderBy   string
	Direction string
}

// AdminNewsRow is one line of the moderation listing.
type AdminNewsRow struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Seen      bool      `json:"seen"`
	Active    bool      `json:"active"`
	UserID    uint      `json:"user_id"`
	Slug      string    `json:"slug"`
	Username  string    `json:"username"`
}

// NewsWithComments is a news article with its owner and tags loaded and the
// comments written by valid users, each with its author.
type NewsWithComments struct {
	News     models.News      `json:"news"`
	Comments []models.Comment `json:"comments"`
}

// NewsWithTagLabels is the edit form view of a news article.
type NewsWithTagLabels struct {
	News models.News `json:"news"`
	Tags []string    `json:"tags"`
}

// Repositories struct holds all repository instances
type Repositories struct {
	Newsfeed NewsfeedRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB, opts ...Option) *Repositories {
	return &Repositories{
		Newsfeed: NewNewsfeedRepository(db, opts...),
	}
}
