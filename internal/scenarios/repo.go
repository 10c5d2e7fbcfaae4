package scenarios

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/delphienergia/capex-backend/pkg/db/models"
)

// Repository handles scenario persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to scenario operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new scenario row.
func (r *Repository) Create(ctx context.Context, scenario *models.Scenario) error {
	return r.db.WithContext(ctx).Create(scenario).Error
}

// FindByID loads a scenario by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Scenario, error) {
	var scenario models.Scenario
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&scenario).Error; err != nil {
		return nil, err
	}
	return &scenario, nil
}

// ListByProject returns the scenarios of a project, oldest first so the
// comparison slots keep a stable order.
func (r *Repository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Scenario, error) {
	var scenarios []models.Scenario
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at asc").
		Find(&scenarios).Error
	if err != nil {
		return nil, err
	}
	return scenarios, nil
}

// Update saves the provided scenario.
func (r *Repository) Update(ctx context.Context, scenario *models.Scenario) error {
	return r.db.WithContext(ctx).Save(scenario).Error
}

// Delete removes a scenario row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Scenario{}).Error
}
