package clients

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/delphienergia/capex-backend/pkg/db/models"
)

// Repository handles client persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to client operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new client row.
func (r *Repository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// FindByID loads a client by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// List returns all clients ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := r.db.WithContext(ctx).Order("name asc").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Update saves the provided client.
func (r *Repository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// Delete removes a client; projects and scenarios cascade at the schema
// level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Client{}).Error
}
