package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Scenario stores one budget scenario for a project. The full item and
// configuration document lives in Snapshot so the calculation model can
// evolve without schema churn.
type Scenario struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectID uuid.UUID       `gorm:"type:uuid;column:project_id;not null;index"`
	Name      string          `gorm:"column:name;not null"`
	Snapshot  json.RawMessage `gorm:"column:snapshot;type:jsonb;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Project *Project `gorm:"foreignKey:ProjectID"`
}

func (Scenario) TableName() string { return "scenarios" }
