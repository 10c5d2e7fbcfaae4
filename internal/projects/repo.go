package projects

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/delphienergia/capex-backend/pkg/db/models"
)

// Repository handles project persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to project operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new project row.
func (r *Repository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// FindByID loads a project by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByClient returns the projects owned by a client, newest first.
func (r *Repository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at desc").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// List returns all projects ordered by creation time, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update saves the provided project.
func (r *Repository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete removes a project; its scenarios cascade at the schema level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Project{}).Error
}
