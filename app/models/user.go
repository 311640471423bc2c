package models

import "time"

// User is the account owning news and authoring comments. The newsfeed module
// only reads it; accounts are managed by the surrounding application.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(150);index;not null" json:"username"`
	Email     string    `gorm:"type:varchar(200);uniqueIndex" json:"email"`
	Valid     bool      `gorm:"not null;default:false" json:"valid"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
