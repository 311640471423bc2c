package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/newsfeed/app/models"
	"github.com/ManuelReschke/newsfeed/internal/pkg/apperr"
)

// feedColumns is the projection of the public listings.
var feedColumns = []string{
	"news.id", "news.created_at", "news.updated_at", "news.title",
	"news.slug", "news.user_id", "news.summary",
}

var adminColumns = []string{
	"news.id", "news.created_at", "news.title", "news.seen",
	"news.active", "news.user_id", "news.slug", "users.username",
}

// adminSortColumns whitelists the sortable columns of Index.
var adminSortColumns = map[string]string{
	"id":         "news.id",
	"created_at": "news.created_at",
	"title":      "news.title",
	"seen":       "news.seen",
	"active":     "news.active",
	"user_id":    "news.user_id",
	"slug":       "news.slug",
	"username":   "users.username",
}

// Option configures a newsfeed repository.
type Option func(*newsfeedRepository)

// WithLogger sets the logger used for mutation and failure events.
func WithLogger(log zerolog.Logger) Option {
	return func(r *newsfeedRepository) { r.log = log }
}

// WithLabelCache enables read-through caching of tag labels.
func WithLabelCache(cache LabelCache) Option {
	return func(r *newsfeedRepository) { r.cache = cache }
}

// WithPerPage sets the page size used when a Pagination leaves it empty.
func WithPerPage(perPage int) Option {
	return func(r *newsfeedRepository) {
		if perPage > 0 {
			r.perPage = perPage
		}
	}
}

// newsfeedRepository implements the NewsfeedRepository interface
type newsfeedRepository struct {
	db      *gorm.DB
	log     zerolog.Logger
	cache   LabelCache
	perPage int
}

// NewNewsfeedRepository creates a new newsfeed repository instance
func NewNewsfeedRepository(db *gorm.DB, opts ...Option) NewsfeedRepository {
	r := &newsfeedRepository{
		db:      db,
		log:     zerolog.Nop(),
		perPage: DefaultPerPage,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// activeFeed selects the active news shared by every public listing.
func (r *newsfeedRepository) activeFeed(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.News{}).Where("news.active = ?", true)
}

func feedPage(tx *gorm.DB) *gorm.DB {
	return tx.Select(feedColumns).Preload("User").Order("news.created_at DESC").Order("news.id DESC")
}

// IndexFront returns the active news, newest first
func (r *newsfeedRepository) IndexFront(ctx context.Context, p Pagination) (*Page[models.News], error) {
	page, err := paginate[models.News](r.activeFeed(ctx), p.normalize(r.perPage), feedPage)
	if err != nil {
		return nil, r.wrap(err, "news", "list front page")
	}
	return page, nil
}

// IndexTag returns the active news carrying the given tag
func (r *newsfeedRepository) IndexTag(ctx context.Context, p Pagination, tagID uint) (*Page[models.News], error) {
	tagged := r.db.Model(&models.NewsTag{}).Select("news_id").Where("tag_id = ?", tagID)
	query := r.activeFeed(ctx).Where("news.id IN (?)", tagged)

	page, err := paginate[models.News](query, p.normalize(r.perPage), feedPage)
	if err != nil {
		return nil, r.wrap(err, "news", "list news by tag")
	}
	return page, nil
}

// Search returns the active news whose title, summary or content contains text
func (r *newsfeedRepository) Search(ctx context.Context, p Pagination, text string) (*Page[models.News], error) {
	pattern := likePattern(text)
	query := r.activeFeed(ctx).Where(
		"(LOWER(news.summary) LIKE LOWER(@pattern) ESCAPE '!' OR LOWER(news.content) LIKE LOWER(@pattern) ESCAPE '!' OR LOWER(news.title) LIKE LOWER(@pattern) ESCAPE '!')",
		sql.Named("pattern", pattern),
	)

	page, err := paginate[models.News](query, p.normalize(r.perPage), feedPage)
	if err != nil {
		return nil, r.wrap(err, "news", "search news")
	}
	return page, nil
}

// Index returns every news with its owner's username for moderation
func (r *newsfeedRepository) Index(ctx context.Context, p Pagination, filter IndexFilter) (*Page[AdminNewsRow], error) {
	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	column, ok := adminSortColumns[orderBy]
	if !ok {
		return nil, apperr.Validation(fmt.Sprintf("cannot order news by %q", orderBy), nil)
	}

	direction := strings.ToLower(filter.Direction)
	if direction == "" {
		direction = "desc"
	}
	if direction != "asc" && direction != "desc" {
		return nil, apperr.Validation(fmt.Sprintf("invalid sort direction %q", filter.Direction), nil)
	}

	query := r.db.WithContext(ctx).Model(&models.News{}).Joins("JOIN users ON users.id = news.user_id")
	if filter.UserID != 0 {
		query = query.Where("news.user_id = ?", filter.UserID)
	}

	page, err := paginate[AdminNewsRow](query, p.normalize(r.perPage), func(tx *gorm.DB) *gorm.DB {
		return tx.Select(adminColumns).Order(clause.OrderByColumn{
			Column: clause.Column{Name: column, Raw: true},
			Desc:   direction == "desc",
		})
	})
	if err != nil {
		return nil, r.wrap(err, "news", "list news for moderation")
	}
	return page, nil
}

// Show loads a news by slug with owner and tags, plus the comments of valid users
func (r *newsfeedRepository) Show(ctx context.Context, slug string) (*NewsWithComments, error) {
	db := r.db.WithContext(ctx)

	var news models.News
	if err := db.Preload("User").Preload("Tags").Where("slug = ?", slug).First(&news).Error; err != nil {
		return nil, r.wrap(err, "news", "load news by slug")
	}

	validAuthors := r.db.Model(&models.User{}).Select("id").Where("valid = ?", true)
	var comments []models.Comment
	err := db.Preload("User").
		Where("news_id = ?", news.ID).
		Where("user_id IN (?)", validAuthors).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, r.wrap(err, "comment", "load comments")
	}

	return &NewsWithComments{News: news, Comments: comments}, nil
}

// Edit returns the news together with the labels of its tags
func (r *newsfeedRepository) Edit(ctx context.Context, news *models.News) (*NewsWithTagLabels, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Model(news).Association("Tags").Find(&tags); err != nil {
		return nil, r.wrap(err, "news", "load tags")
	}
	news.Tags = tags

	return &NewsWithTagLabels{
		News: *news,
		Tags: news.TagLabels(),
	}, nil
}

// GetByID retrieves a news article by its ID
func (r *newsfeedRepository) GetByID(ctx context.Context, id uint) (*models.News, error) {
	var news models.News
	if err := r.db.WithContext(ctx).First(&news, id).Error; err != nil {
		return nil, r.wrap(err, "news", "load news")
	}
	return &news, nil
}

// GetByIDWithTags retrieves a news article by its ID with its tags
func (r *newsfeedRepository) GetByIDWithTags(ctx context.Context, id uint) (*models.News, error) {
	var news models.News
	if err := r.db.WithContext(ctx).Preload("Tags").First(&news, id).Error; err != nil {
		return nil, r.wrap(err, "news", "load news")
	}
	return &news, nil
}

// Store creates a news owned by ownerID and attaches its tags
func (r *newsfeedRepository) Store(ctx context.Context, in NewsInput, ownerID uint) (*models.News, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	labels := ParseTagLabels(in.Tags)

	news := &models.News{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveNews(tx, news, in, ownerID); err != nil {
			return err
		}
		if len(labels) == 0 {
			return nil
		}
		tags, err := resolveTags(tx, labels)
		if err != nil {
			return err
		}
		return tx.Model(news).Association("Tags").Append(tags)
	})
	if err != nil {
		return nil, r.wrap(err, "news", "store news")
	}

	r.log.Debug().Uint("news_id", news.ID).Str("slug", news.Slug).Strs("tags", labels).Msg("news stored")
	return news, nil
}

// Update saves the news fields and replaces its tag set with in.Tags
func (r *newsfeedRepository) Update(ctx context.Context, in NewsInput, news *models.News) error {
	if err := in.Validate(); err != nil {
		return err
	}
	labels := ParseTagLabels(in.Tags)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveNews(tx, news, in, 0); err != nil {
			return err
		}
		tags, err := resolveTags(tx, labels)
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			return tx.Model(news).Association("Tags").Clear()
		}
		return tx.Model(news).Association("Tags").Replace(tags)
	})
	if err != nil {
		return r.wrap(err, "news", "update news")
	}

	r.log.Debug().Uint("news_id", news.ID).Str("slug", news.Slug).Strs("tags", labels).Msg("news updated")
	return nil
}

// UpdateSeen sets the moderation flag of a news
func (r *newsfeedRepository) UpdateSeen(ctx context.Context, in SeenInput, id uint) error {
	return r.updateFlag(ctx, id, "seen", in.Value())
}

// UpdateActive sets the visibility flag of a news
func (r *newsfeedRepository) UpdateActive(ctx context.Context, in ActiveInput, id uint) error {
	return r.updateFlag(ctx, id, "active", in.Value())
}

func (r *newsfeedRepository) updateFlag(ctx context.Context, id uint, column string, value bool) error {
	news, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Model(news).Update(column, value).Error; err != nil {
		return r.wrap(err, "news", "update "+column)
	}

	r.log.Debug().Uint("news_id", id).Bool(column, value).Msg("news flag updated")
	return nil
}

// Destroy detaches every tag of the news and deletes it
func (r *newsfeedRepository) Destroy(ctx context.Context, news *models.News) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(news).Association("Tags").Clear(); err != nil {
			return err
		}
		result := tx.Delete(&models.News{}, news.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return r.wrap(err, "news", "delete news")
	}

	r.log.Debug().Uint("news_id", news.ID).Str("slug", news.Slug).Msg("news deleted")
	return nil
}

// GetSlug returns the slug of the news a comment belongs to
func (r *newsfeedRepository) GetSlug(ctx context.Context, commentID uint) (string, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("News", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "slug") }).
		First(&comment, commentID).Error
	if err != nil {
		return "", r.wrap(err, "comment", "load comment")
	}
	if comment.News.ID == 0 {
		return "", apperr.NotFound("news not found", nil)
	}
	return comment.News.Slug, nil
}

// GetTagByID returns the label of a tag
func (r *newsfeedRepository) GetTagByID(ctx context.Context, tagID uint) (string, error) {
	if r.cache != nil {
		label, ok, err := r.cache.GetLabel(ctx, tagID)
		if err != nil {
			r.log.Warn().Err(err).Uint("tag_id", tagID).Msg("tag label cache read failed")
		} else if ok {
			return label, nil
		}
	}

	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, tagID).Error; err != nil {
		return "", r.wrap(err, "tag", "load tag")
	}

	if r.cache != nil {
		if err := r.cache.SetLabel(ctx, tag.ID, tag.Label); err != nil {
			r.log.Warn().Err(err).Uint("tag_id", tagID).Msg("tag label cache write failed")
		}
	}
	return tag.Label, nil
}

// Count returns the total number of news articles
func (r *newsfeedRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.News{}).Count(&count).Error; err != nil {
		return 0, r.wrap(err, "news", "count news")
	}
	return count, nil
}

// SlugExists checks if a slug already exists
func (r *newsfeedRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.News{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, r.wrap(err, "news", "check slug")
	}
	return count > 0, nil
}

// SlugExistsExceptID checks if a slug exists excluding a specific ID
func (r *newsfeedRepository) SlugExistsExceptID(ctx context.Context, slug string, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.News{}).Where("slug = ? AND id != ?", slug, id).Count(&count).Error
	if err != nil {
		return false, r.wrap(err, "news", "check slug")
	}
	return count > 0, nil
}

// PurgeOrphanTags deletes the tags no news refers to and returns how many
// were removed.
func (r *newsfeedRepository) PurgeOrphanTags(ctx context.Context) (int64, error) {
	var ids []uint
	var purged int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		used := tx.Model(&models.NewsTag{}).Select("tag_id")
		if err := tx.Model(&models.Tag{}).Where("id NOT IN (?)", used).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		result := tx.Where("id IN ?", ids).Delete(&models.Tag{})
		purged = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, r.wrap(err, "tag", "purge orphan tags")
	}

	if r.cache != nil && len(ids) > 0 {
		if err := r.cache.DeleteLabels(ctx, ids...); err != nil {
			r.log.Warn().Err(err).Int("tags", len(ids)).Msg("tag label cache invalidation failed")
		}
	}
	r.log.Info().Int64("purged", purged).Msg("orphan tags purged")
	return purged, nil
}

// saveNews copies the input onto news and persists it. The owner is only set
// when ownerID is non-zero, so updates never change ownership.
func saveNews(tx *gorm.DB, news *models.News, in NewsInput, ownerID uint) error {
	news.Title = in.Title
	news.Summary = in.Summary
	news.Content = in.Content
	news.Slug = in.Slug
	news.Active = in.Active
	if ownerID != 0 {
		news.UserID = ownerID
	}

	if news.ID == 0 {
		return tx.Omit(clause.Associations).Create(news).Error
	}

	columns := []string{"title", "summary", "content", "slug", "active"}
	if ownerID != 0 {
		columns = append(columns, "user_id")
	}
	return tx.Model(news).Select(columns).Updates(news).Error
}

// wrap converts GORM errors into typed application errors.
func (r *newsfeedRepository) wrap(err error, entity, op string) error {
	switch {
	case err == nil:
		return nil
	case apperr.IsValidation(err), apperr.IsNotFound(err), apperr.IsConflict(err), apperr.IsDatabase(err):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(entity+" not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict(entity+" already exists", err)
	default:
		r.log.Error().Err(err).Str("op", op).Msg("database operation failed")
		return apperr.Database("failed to "+op, err)
	}
}
