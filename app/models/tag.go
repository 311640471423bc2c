package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Tag is a reusable label; the label text is unique and compared case-sensitively.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Label     string    `gorm:"column:tag;type:varchar(100);uniqueIndex;not null" json:"tag"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// FindOrCreate loads the tag with t.Label, inserting it first when missing.
// The insert ignores unique conflicts so two writers racing on the same label
// both end up with the single stored row.
func (t *Tag) FindOrCreate(db *gorm.DB) error {
	candidate := Tag{Label: t.Label}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&candidate).Error; err != nil {
		return err
	}
	var stored Tag
	if err := db.Where("tag = ?", t.Label).First(&stored).Error; err != nil {
		return err
	}
	*t = stored
	return nil
}
