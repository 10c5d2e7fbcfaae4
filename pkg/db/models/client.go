package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer account that owns projects.
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	NIT       *string   `gorm:"column:nit"`
	Contact   *string   `gorm:"column:contact"`
	Email     *string   `gorm:"column:email"`
	Phone     *string   `gorm:"column:phone"`
	Notes     *string   `gorm:"column:notes"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Client) TableName() string { return "clients" }
