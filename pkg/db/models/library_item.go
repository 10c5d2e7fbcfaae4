package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// LibraryItem is a reusable catalog entry with reference pricing. Aliases
// hold alternate names used when matching imported budget lines.
type LibraryItem struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID uuid.UUID      `gorm:"type:uuid;column:category_id;not null;index"`
	Code       string         `gorm:"column:code;not null;uniqueIndex"`
	Name       string         `gorm:"column:name;not null"`
	Unit       string         `gorm:"column:unit;not null;default:'un'"`
	UnitPrice  float64        `gorm:"column:unit_price;not null;default:0"`
	VATRate    float64        `gorm:"column:vat_rate;not null;default:0"`
	Aliases    pq.StringArray `gorm:"column:aliases;type:text[]"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`

	Category *LibraryCategory `gorm:"foreignKey:CategoryID"`
}

func (LibraryItem) TableName() string { return "library_items" }
