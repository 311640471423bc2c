package models

import "time"

type NewsTag struct {
	NewsID    uint      `gorm:"primaryKey;autoIncrement:false" json:"news_id"`
	TagID     uint      `gorm:"primaryKey;autoIncrement:false;index" json:"tag_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
