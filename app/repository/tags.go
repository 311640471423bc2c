package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/ManuelReschke/newsfeed/app/models"
)

// ParseTagLabels splits a comma separated tag list. Labels are kept verbatim
// (no trimming, no case folding); empty labels are dropped and repeated labels
// are kept once, in first-seen order.
func ParseTagLabels(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	labels := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, label := range parts {
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return labels
}

// resolveTags returns the stored tag for every label, creating missing ones.
func resolveTags(tx *gorm.DB, labels []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(labels))
	for _, label := range labels {
		tag := models.Tag{Label: label}
		if err := tag.FindOrCreate(tx); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// likePattern builds a literal substring pattern for LIKE ... ESCAPE '!'.
// Case folding happens in SQL, with LOWER on both sides of the LIKE; SQLite's
// LOWER only folds ASCII.
func likePattern(text string) string {
	escaped := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(text)
	return "%" + escaped + "%"
}
