// Package library manages the reusable item catalog: categories, coded
// items with reference pricing, and the alias table that maps free-form
// budget line names onto canonical item codes.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/delphienergia/capex-backend/internal/capex"
	"github.com/delphienergia/capex-backend/pkg/db"
	"github.com/delphienergia/capex-backend/pkg/db/models"
	pkgerrors "github.com/delphienergia/capex-backend/pkg/errors"
)

// Service exposes catalog CRUD, alias resolution and scenario bridging.
type Service interface {
	ListCategories(ctx context.Context) ([]models.LibraryCategory, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*models.LibraryCategory, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.LibraryCategory, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListItems(ctx context.Context, categoryID *uuid.UUID) ([]models.LibraryItem, error)
	GetItemByCode(ctx context.Context, code string) (*models.LibraryItem, error)
	CreateItem(ctx context.Context, input ItemInput) (*models.LibraryItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input ItemInput) (*models.LibraryItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error

	ResolveAlias(ctx context.Context, term string) (string, error)
	MaterializeItem(ctx context.Context, code string, scenario capex.Scenario) (*capex.Item, error)
	SaveFromScenario(ctx context.Context, item capex.Item, categoryID uuid.UUID) (*models.LibraryItem, error)

	Seed(ctx context.Context) error
}

type libraryRepository interface {
	ListCategories(ctx context.Context) ([]models.LibraryCategory, error)
	FindCategoryByCode(ctx context.Context, code string) (*models.LibraryCategory, error)
	CreateCategory(ctx context.Context, category *models.LibraryCategory) error
	UpdateCategory(ctx context.Context, category *models.LibraryCategory) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CountCategories(ctx context.Context) (int64, error)

	ListItems(ctx context.Context) ([]models.LibraryItem, error)
	ListItemsByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.LibraryItem, error)
	FindItemByCode(ctx context.Context, code string) (*models.LibraryItem, error)
	CreateItem(ctx context.Context, item *models.LibraryItem) error
	UpdateItem(ctx context.Context, item *models.LibraryItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo libraryRepository
}

// NewService builds a library service.
func NewService(repo libraryRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("library repository required")
	}
	return &service{repo: repo}, nil
}

// CategoryInput captures category fields.
type CategoryInput struct {
	Code      string `json:"code" validate:"required"`
	Label     string `json:"label" validate:"required"`
	SortOrder int    `json:"sort_order"`
}

// ItemInput captures catalog item fields.
type ItemInput struct {
	CategoryID uuid.UUID `json:"category_id" validate:"required"`
	Code       string    `json:"code" validate:"required"`
	Name       string    `json:"name" validate:"required"`
	Unit       string    `json:"unit"`
	UnitPrice  float64   `json:"unit_price" validate:"gte=0"`
	VATRate    float64   `json:"vat_rate" validate:"gte=0"`
	Aliases    []string  `json:"aliases,omitempty"`
}

// builtinAliases maps the recurring free-form names seen in imported
// budgets onto canonical item codes. Per-item aliases stored in the DB
// extend this table.
var builtinAliases = map[string]string{
	"CIRCUITO CERRADO":                                 "SEC-CCTV",
	"CCTV":                                             "SEC-CCTV",
	"CERTIFICACIÓN RETIE":                              "ENG-RETIE",
	"CERTIFICACION RETIE":                              "ENG-RETIE",
	"ESTUDIO DE CONEXIÓN Y PROTECCIONES":               "SUB-STUDY-INT",
	"ESTUDIO DE CONEXION Y PROTECCIONES":               "SUB-STUDY-INT",
	"ESTUDIOS DE CONEXIÓN":                             "SUB-STUDY-INT",
	"ESTUDIOS DE CONEXION":                             "SUB-STUDY-INT",
	"ZANJAS PARA CABLEADO":                             "EBOS-TRNCH",
	"ZANJAS PARA CABLEADO Y DUCTOS":                    "EBOS-TRNCH",
	"INGENIERÍA DE DETALLE, DISEÑO Y PUESTA EN MARCHA": "ENG-DETAIL",
	"INGENIERIA DE DETALLE, DISEÑO Y PUESTA EN MARCHA": "ENG-DETAIL",
}

func (s *service) ListCategories(ctx context.Context) ([]models.LibraryCategory, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list library categories")
	}
	return categories, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.LibraryCategory, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	label := strings.TrimSpace(input.Label)
	if code == "" || label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category code and label are required")
	}

	category := &models.LibraryCategory{
		ID:        uuid.New(),
		Code:      code,
		Label:     label,
		SortOrder: input.SortOrder,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create library category")
	}
	return category, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.LibraryCategory, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list library categories")
	}
	var category *models.LibraryCategory
	for i := range categories {
		if categories[i].ID == id {
			category = &categories[i]
			break
		}
	}
	if category == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}

	if code := strings.ToUpper(strings.TrimSpace(input.Code)); code != "" {
		category.Code = code
	}
	if label := strings.TrimSpace(input.Label); label != "" {
		category.Label = label
	}
	category.SortOrder = input.SortOrder

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update library category")
	}
	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete library category")
	}
	return nil
}

func (s *service) ListItems(ctx context.Context, categoryID *uuid.UUID) ([]models.LibraryItem, error) {
	var (
		items []models.LibraryItem
		err   error
	)
	if categoryID != nil {
		items, err = s.repo.ListItemsByCategory(ctx, *categoryID)
	} else {
		items, err = s.repo.ListItems(ctx)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list library items")
	}
	return items, nil
}

// GetItemByCode resolves aliases before the lookup, so a free-form name
// like "CCTV" lands on the canonical coded item.
func (s *service) GetItemByCode(ctx context.Context, code string) (*models.LibraryItem, error) {
	resolved, err := s.ResolveAlias(ctx, code)
	if err != nil {
		return nil, err
	}
	if resolved != "" {
		code = resolved
	}

	item, err := s.repo.FindItemByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "library item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load library item")
	}
	return item, nil
}

func (s *service) CreateItem(ctx context.Context, input ItemInput) (*models.LibraryItem, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	item := &models.LibraryItem{
		ID:         uuid.New(),
		CategoryID: input.CategoryID,
		Code:       strings.ToUpper(strings.TrimSpace(input.Code)),
		Name:       strings.TrimSpace(input.Name),
		Unit:       defaultUnit(input.Unit),
		UnitPrice:  input.UnitPrice,
		VATRate:    input.VATRate,
		Aliases:    pq.StringArray(input.Aliases),
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "item code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create library item")
	}
	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input ItemInput) (*models.LibraryItem, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list library items")
	}
	var item *models.LibraryItem
	for i := range items {
		if items[i].ID == id {
			item = &items[i]
			break
		}
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "library item not found")
	}

	item.CategoryID = input.CategoryID
	item.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	item.Name = strings.TrimSpace(input.Name)
	item.Unit = defaultUnit(input.Unit)
	item.UnitPrice = input.UnitPrice
	item.VATRate = input.VATRate
	item.Aliases = pq.StringArray(input.Aliases)

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "item code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update library item")
	}
	return item, nil
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete library item")
	}
	return nil
}

// ResolveAlias maps a free-form search term onto a canonical item code.
// Returns "" when no alias matches; the caller falls back to the raw
// term.
func (s *service) ResolveAlias(ctx context.Context, term string) (string, error) {
	needle := strings.ToUpper(strings.TrimSpace(term))
	if needle == "" {
		return "", nil
	}
	if code, ok := builtinAliases[needle]; ok {
		return code, nil
	}

	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list library items")
	}
	for _, item := range items {
		for _, alias := range item.Aliases {
			if strings.ToUpper(strings.TrimSpace(alias)) == needle {
				return item.Code, nil
			}
		}
	}
	return "", nil
}

// MaterializeItem builds a scenario line from a catalog entry. Quantity
// starts at zero; the caller fills it in after placement.
func (s *service) MaterializeItem(ctx context.Context, code string, scenario capex.Scenario) (*capex.Item, error) {
	libItem, err := s.GetItemByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	item := &capex.Item{
		ID:            uuid.NewString(),
		Code:          libItem.Code,
		Name:          libItem.Name,
		Unit:          libItem.Unit,
		Qty:           0,
		UnitPrice:     libItem.UnitPrice,
		PricingMode:   capex.PricingModeUnit,
		VATRate:       libItem.VATRate,
		AIUApplicable: true,
		Order:         len(scenario.Items),
	}
	return item, nil
}

// SaveFromScenario promotes a scenario line into the catalog so future
// budgets can reuse it.
func (s *service) SaveFromScenario(ctx context.Context, item capex.Item, categoryID uuid.UUID) (*models.LibraryItem, error) {
	code := strings.TrimSpace(item.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item code is required to save to the library")
	}
	if existing, err := s.repo.FindItemByCode(ctx, code); err == nil && existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "item code already exists in the library")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load library item")
	}

	return s.CreateItem(ctx, ItemInput{
		CategoryID: categoryID,
		Code:       code,
		Name:       item.Name,
		Unit:       item.Unit,
		UnitPrice:  item.UnitPrice,
		VATRate:    item.VATRate,
	})
}

func validateItemInput(input ItemInput) error {
	if strings.TrimSpace(input.Code) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item code is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.CategoryID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category_id is required")
	}
	if input.UnitPrice < 0 || input.VATRate < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit_price and vat_rate cannot be negative")
	}
	return nil
}

func defaultUnit(unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return "un"
	}
	return unit
}
