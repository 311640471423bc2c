package models

import "gorm.io/gorm"

// SetupJoinTables registers NewsTag as the join model of News.Tags.
// It has to run on every *gorm.DB before the association is used.
func SetupJoinTables(db *gorm.DB) error {
	return db.SetupJoinTable(&News{}, "Tags", &NewsTag{})
}

// AutoMigrate creates or updates every table of the newsfeed schema.
func AutoMigrate(db *gorm.DB) error {
	if err := SetupJoinTables(db); err != nil {
		return err
	}
	return db.AutoMigrate(
		&User{},
		&News{},
		&Tag{},
		&NewsTag{},
		&Comment{},
	)
}
