package library

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/delphienergia/capex-backend/pkg/db/models"
)

// Repository handles the catalog tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to catalog operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListCategories returns categories in display order.
func (r *Repository) ListCategories(ctx context.Context) ([]models.LibraryCategory, error) {
	var categories []models.LibraryCategory
	err := r.db.WithContext(ctx).
		Order("sort_order asc, code asc").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// FindCategoryByCode loads a category by its code.
func (r *Repository) FindCategoryByCode(ctx context.Context, code string) (*models.LibraryCategory, error) {
	var category models.LibraryCategory
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory persists a new category row.
func (r *Repository) CreateCategory(ctx context.Context, category *models.LibraryCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// UpdateCategory saves the provided category.
func (r *Repository) UpdateCategory(ctx context.Context, category *models.LibraryCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// DeleteCategory removes a category; its items cascade at the schema
// level.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.LibraryCategory{}).Error
}

// CountCategories reports how many categories exist, used by seeding.
func (r *Repository) CountCategories(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.LibraryCategory{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListItems returns all catalog items ordered by code.
func (r *Repository) ListItems(ctx context.Context) ([]models.LibraryItem, error) {
	var items []models.LibraryItem
	if err := r.db.WithContext(ctx).Order("code asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListItemsByCategory returns the catalog items of one category.
func (r *Repository) ListItemsByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.LibraryItem, error) {
	var items []models.LibraryItem
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("code asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindItemByCode loads an item by code, case-insensitively.
func (r *Repository) FindItemByCode(ctx context.Context, code string) (*models.LibraryItem, error) {
	var item models.LibraryItem
	err := r.db.WithContext(ctx).
		Where("lower(code) = ?", strings.ToLower(code)).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem persists a new catalog item.
func (r *Repository) CreateItem(ctx context.Context, item *models.LibraryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateItem saves the provided catalog item.
func (r *Repository) UpdateItem(ctx context.Context, item *models.LibraryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem removes a catalog item row.
func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.LibraryItem{}).Error
}
