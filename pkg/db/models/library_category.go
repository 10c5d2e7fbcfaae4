package models

import (
	"time"

	"github.com/google/uuid"
)

// LibraryCategory groups reusable catalog items, e.g. PV modules or BOS.
type LibraryCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string    `gorm:"column:code;not null;uniqueIndex"`
	Label     string    `gorm:"column:label;not null"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (LibraryCategory) TableName() string { return "library_categories" }
