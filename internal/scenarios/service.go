// Package scenarios persists budget scenarios and mutates their item
// and category documents. The full calculation input lives in a JSONB
// snapshot per scenario; every mutation re-marshals the document so the
// stored row is always a complete, computable scenario.
package scenarios

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/delphienergia/capex-backend/internal/capex"
	"github.com/delphienergia/capex-backend/pkg/db/models"
	pkgerrors "github.com/delphienergia/capex-backend/pkg/errors"
)

type scenarioRepository interface {
	Create(ctx context.Context, scenario *models.Scenario) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Scenario, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Scenario, error)
	Update(ctx context.Context, scenario *models.Scenario) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type projectLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

// Detail pairs the stored row with its decoded snapshot.
type Detail struct {
	Record   *models.Scenario
	Snapshot capex.Scenario
}

// Service exposes scenario CRUD and snapshot mutation.
type Service interface {
	Create(ctx context.Context, input CreateScenarioInput) (*Detail, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Detail, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Scenario, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*Detail, error)
	UpdateConfig(ctx context.Context, id uuid.UUID, input UpdateConfigInput) (*Detail, error)
	Duplicate(ctx context.Context, id uuid.UUID, name string) (*Detail, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddItem(ctx context.Context, id uuid.UUID, item capex.Item) (*Detail, error)
	UpdateItem(ctx context.Context, id uuid.UUID, itemID string, item capex.Item) (*Detail, error)
	DeleteItem(ctx context.Context, id uuid.UUID, itemID string) (*Detail, error)

	AddCategory(ctx context.Context, id uuid.UUID, category capex.Category) (*Detail, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, categoryID string, category capex.Category) (*Detail, error)
	DeleteCategory(ctx context.Context, id uuid.UUID, categoryID string) (*Detail, error)

	Summary(ctx context.Context, id uuid.UUID) (*capex.Summary, error)
}

type service struct {
	repo     scenarioRepository
	projects projectLookup
}

// NewService builds a scenario service.
func NewService(repo scenarioRepository, projects projectLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("scenario repository required")
	}
	if projects == nil {
		return nil, fmt.Errorf("project repository required")
	}
	return &service{repo: repo, projects: projects}, nil
}

// CreateScenarioInput captures a new scenario. Snapshot is optional; when
// omitted a default COP configuration is seeded.
type CreateScenarioInput struct {
	ProjectID uuid.UUID       `json:"project_id" validate:"required"`
	Name      string          `json:"name" validate:"required,min=2"`
	Snapshot  *capex.Scenario `json:"snapshot,omitempty"`
}

// UpdateConfigInput carries the scenario-level calculation settings. Nil
// sections are left untouched.
type UpdateConfigInput struct {
	Currency         *string          `json:"currency,omitempty"`
	PricesIncludeVAT *bool            `json:"prices_include_vat,omitempty"`
	DefaultVATRate   *float64         `json:"default_vat_rate,omitempty"`
	AIU              *capex.AIUConfig `json:"aiu,omitempty"`
	VAT              *capex.VATConfig `json:"vat,omitempty"`
	TransportPct     *float64         `json:"transport_pct,omitempty"`
	PoliciesPct      *float64         `json:"policies_pct,omitempty"`
	EngineeringPct   *float64         `json:"engineering_pct,omitempty"`
	PctBaseRule      *capex.PctBase   `json:"pct_base_rule,omitempty"`
	Variables        *capex.Variables `json:"variables,omitempty"`
}

// DefaultSnapshot is the seed document for a fresh scenario: Colombian
// pesos, tax-exclusive prices, 19% VAT, AIU disabled.
func DefaultSnapshot(name string) capex.Scenario {
	return capex.Scenario{
		Name:             name,
		Currency:         "COP",
		PricesIncludeVAT: false,
		DefaultVATRate:   19,
		AIU: capex.AIUConfig{
			BaseRule: capex.BaseRuleDirectCosts,
			Strategy: capex.StrategyTaxExclusiveSum,
		},
		PctBaseRule: capex.PctBaseSubtotalBase,
		Variables:   capex.Variables{FXRate: 1},
		Categories:  []capex.Category{},
		Items:       []capex.Item{},
	}
}

func (s *service) Create(ctx context.Context, input CreateScenarioInput) (*Detail, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scenario name is required")
	}

	if _, err := s.projects.FindByID(ctx, input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}

	snapshot := DefaultSnapshot(name)
	if input.Snapshot != nil {
		snapshot = *input.Snapshot
		snapshot.Name = name
	}

	record := &models.Scenario{
		ID:        uuid.New(),
		ProjectID: input.ProjectID,
		Name:      name,
	}
	snapshot.ID = record.ID.String()

	if err := s.persist(ctx, record, snapshot, s.repo.Create); err != nil {
		return nil, err
	}
	return &Detail{Record: record, Snapshot: snapshot}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Detail, error) {
	return s.load(ctx, id)
}

func (s *service) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Scenario, error) {
	scenarios, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list scenarios")
	}
	return scenarios, nil
}

func (s *service) Rename(ctx context.Context, id uuid.UUID, name string) (*Detail, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scenario name cannot be empty")
	}
	return s.mutate(ctx, id, func(detail *Detail) error {
		detail.Record.Name = name
		detail.Snapshot.Name = name
		return nil
	})
}

func (s *service) UpdateConfig(ctx context.Context, id uuid.UUID, input UpdateConfigInput) (*Detail, error) {
	return s.mutate(ctx, id, func(detail *Detail) error {
		snap := &detail.Snapshot
		if input.Currency != nil {
			snap.Currency = *input.Currency
		}
		if input.PricesIncludeVAT != nil {
			snap.PricesIncludeVAT = *input.PricesIncludeVAT
		}
		if input.DefaultVATRate != nil {
			if *input.DefaultVATRate < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "default_vat_rate cannot be negative")
			}
			snap.DefaultVATRate = *input.DefaultVATRate
		}
		if input.AIU != nil {
			snap.AIU = *input.AIU
		}
		if input.VAT != nil {
			snap.VAT = *input.VAT
		}
		if input.TransportPct != nil {
			snap.TransportPct = *input.TransportPct
		}
		if input.PoliciesPct != nil {
			snap.PoliciesPct = *input.PoliciesPct
		}
		if input.EngineeringPct != nil {
			snap.EngineeringPct = *input.EngineeringPct
		}
		if input.PctBaseRule != nil {
			snap.PctBaseRule = *input.PctBaseRule
		}
		if input.Variables != nil {
			snap.Variables = *input.Variables
		}
		return nil
	})
}

func (s *service) Duplicate(ctx context.Context, id uuid.UUID, name string) (*Detail, error) {
	source, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = source.Record.Name + " (copia)"
	}

	copyID := uuid.New()
	snapshot := source.Snapshot
	snapshot.ID = copyID.String()
	snapshot.Name = name
	snapshot.Categories = append([]capex.Category(nil), source.Snapshot.Categories...)
	snapshot.Items = append([]capex.Item(nil), source.Snapshot.Items...)

	record := &models.Scenario{
		ID:        copyID,
		ProjectID: source.Record.ProjectID,
		Name:      name,
	}
	if err := s.persist(ctx, record, snapshot, s.repo.Create); err != nil {
		return nil, err
	}
	return &Detail{Record: record, Snapshot: snapshot}, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete scenario")
	}
	return nil
}

func (s *service) AddItem(ctx context.Context, id uuid.UUID, item capex.Item) (*Detail, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(detail *Detail) error {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		for _, existing := range detail.Snapshot.Items {
			if existing.ID == item.ID {
				return pkgerrors.New(pkgerrors.CodeConflict, "item already exists")
			}
		}
		item.Order = len(detail.Snapshot.Items)
		detail.Snapshot.Items = append(detail.Snapshot.Items, item)
		return nil
	})
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, itemID string, item capex.Item) (*Detail, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(detail *Detail) error {
		for i, existing := range detail.Snapshot.Items {
			if existing.ID != itemID {
				continue
			}
			item.ID = itemID
			item.Order = existing.Order
			detail.Snapshot.Items[i] = item
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	})
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID, itemID string) (*Detail, error) {
	return s.mutate(ctx, id, func(detail *Detail) error {
		items := detail.Snapshot.Items
		idx := -1
		for i, existing := range items {
			if existing.ID == itemID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		items = append(items[:idx], items[idx+1:]...)
		reassignOrder(items)
		detail.Snapshot.Items = items
		return nil
	})
}

func (s *service) AddCategory(ctx context.Context, id uuid.UUID, category capex.Category) (*Detail, error) {
	if strings.TrimSpace(category.Label) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category label is required")
	}
	return s.mutate(ctx, id, func(detail *Detail) error {
		if category.ID == "" {
			category.ID = uuid.NewString()
		}
		for _, existing := range detail.Snapshot.Categories {
			if existing.ID == category.ID {
				return pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
			}
		}
		detail.Snapshot.Categories = append(detail.Snapshot.Categories, category)
		return nil
	})
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, categoryID string, category capex.Category) (*Detail, error) {
	if strings.TrimSpace(category.Label) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category label is required")
	}
	return s.mutate(ctx, id, func(detail *Detail) error {
		for i, existing := range detail.Snapshot.Categories {
			if existing.ID != categoryID {
				continue
			}
			category.ID = categoryID
			detail.Snapshot.Categories[i] = category
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	})
}

// DeleteCategory removes a category and detaches its items, which fall
// back to the uncategorized bucket when aggregated.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID, categoryID string) (*Detail, error) {
	return s.mutate(ctx, id, func(detail *Detail) error {
		categories := detail.Snapshot.Categories
		idx := -1
		for i, existing := range categories {
			if existing.ID == categoryID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		detail.Snapshot.Categories = append(categories[:idx], categories[idx+1:]...)
		for i := range detail.Snapshot.Items {
			if detail.Snapshot.Items[i].CategoryID == categoryID {
				detail.Snapshot.Items[i].CategoryID = ""
			}
		}
		return nil
	})
}

func (s *service) Summary(ctx context.Context, id uuid.UUID) (*capex.Summary, error) {
	detail, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := capex.ComputeSummary(detail.Snapshot)
	return &summary, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*Detail, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "scenario not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load scenario")
	}

	var snapshot capex.Scenario
	if err := json.Unmarshal(record.Snapshot, &snapshot); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode scenario snapshot")
	}
	return &Detail{Record: record, Snapshot: snapshot}, nil
}

// mutate loads, applies fn to the decoded document and writes the row
// back with a fresh snapshot.
func (s *service) mutate(ctx context.Context, id uuid.UUID, fn func(*Detail) error) (*Detail, error) {
	detail, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(detail); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, detail.Record, detail.Snapshot, s.repo.Update); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *service) persist(ctx context.Context, record *models.Scenario, snapshot capex.Scenario, write func(context.Context, *models.Scenario) error) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode scenario snapshot")
	}
	record.Snapshot = raw
	record.Name = snapshot.Name
	if err := write(ctx, record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist scenario")
	}
	return nil
}

func validateItem(item capex.Item) error {
	if strings.TrimSpace(item.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if item.Qty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "item qty cannot be negative")
	}
	if item.UnitPrice < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "item unit_price cannot be negative")
	}
	if item.IsPercentage && item.PctRate < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "item pct_rate cannot be negative")
	}
	return nil
}

// reassignOrder keeps Order dense after a removal so drag-free clients
// can rely on 0..n-1.
func reassignOrder(items []capex.Item) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	for i := range items {
		items[i].Order = i
	}
}
