package models

import (
	"time"

	"github.com/ManuelReschke/newsfeed/internal/pkg/mapfn"
)

// News represents a news article in the feed
type News struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Summary   string    `gorm:"type:text" json:"summary"`
	Content   string    `gorm:"type:text" json:"content"`
	Slug      string    `gorm:"uniqueIndex;type:varchar(255);not null" json:"slug"`
	Active    bool      `gorm:"not null;default:false;index" json:"active"`
	Seen      bool      `gorm:"not null;default:false" json:"seen"`
	UserID    uint      `gorm:"index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Tags      []Tag     `gorm:"many2many:news_tags;" json:"tags,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the News model
func (News) TableName() string {
	return "news"
}

// TagLabels returns the labels of the loaded tags in association order
func (n *News) TagLabels() []string {
	return mapfn.ConvertSlice(n.Tags, func(t Tag) string { return t.Label })
}
