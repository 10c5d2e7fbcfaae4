package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a solar installation a client is budgeting.
type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID    uuid.UUID `gorm:"type:uuid;column:client_id;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Location    *string   `gorm:"column:location"`
	CapacityKWp float64   `gorm:"column:capacity_kwp;not null;default:0"`
	CapacityMWh *float64  `gorm:"column:capacity_mwh"`
	Notes       *string   `gorm:"column:notes"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Client *Client `gorm:"foreignKey:ClientID"`
}

func (Project) TableName() string { return "projects" }
