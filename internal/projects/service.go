// Package projects manages the solar installations being budgeted. A
// project belongs to a client and groups the scenarios compared against
// each other.
package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/delphienergia/capex-backend/pkg/db/models"
	pkgerrors "github.com/delphienergia/capex-backend/pkg/errors"
)

type projectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type clientLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
}

// Service exposes project CRUD.
type Service interface {
	Create(ctx context.Context, input CreateProjectInput) (*models.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context, clientID *uuid.UUID) ([]models.Project, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProjectInput) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    projectRepository
	clients clientLookup
}

// NewService builds a project service.
func NewService(repo projectRepository, clients clientLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("project repository required")
	}
	if clients == nil {
		return nil, fmt.Errorf("client repository required")
	}
	return &service{repo: repo, clients: clients}, nil
}

// CreateProjectInput captures the fields for a new project.
type CreateProjectInput struct {
	ClientID    uuid.UUID `json:"client_id" validate:"required"`
	Name        string    `json:"name" validate:"required,min=2"`
	Location    *string   `json:"location,omitempty"`
	CapacityKWp float64   `json:"capacity_kwp" validate:"gte=0"`
	CapacityMWh *float64  `json:"capacity_mwh,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
}

// UpdateProjectInput captures the mutable project fields.
type UpdateProjectInput struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=2"`
	Location    *string  `json:"location,omitempty"`
	CapacityKWp *float64 `json:"capacity_kwp,omitempty" validate:"omitempty,gte=0"`
	CapacityMWh *float64 `json:"capacity_mwh,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

func (s *service) Create(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project name is required")
	}
	if input.CapacityKWp < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity_kwp cannot be negative")
	}

	if _, err := s.clients.FindByID(ctx, input.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client")
	}

	project := &models.Project{
		ID:          uuid.New(),
		ClientID:    input.ClientID,
		Name:        name,
		Location:    input.Location,
		CapacityKWp: input.CapacityKWp,
		CapacityMWh: input.CapacityMWh,
		Notes:       input.Notes,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create project")
	}
	return project, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}
	return project, nil
}

func (s *service) List(ctx context.Context, clientID *uuid.UUID) ([]models.Project, error) {
	var (
		projects []models.Project
		err      error
	)
	if clientID != nil {
		projects, err = s.repo.ListByClient(ctx, *clientID)
	} else {
		projects, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list projects")
	}
	return projects, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "project name cannot be empty")
		}
		project.Name = name
	}
	if input.Location != nil {
		project.Location = input.Location
	}
	if input.CapacityKWp != nil {
		if *input.CapacityKWp < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity_kwp cannot be negative")
		}
		project.CapacityKWp = *input.CapacityKWp
	}
	if input.CapacityMWh != nil {
		project.CapacityMWh = input.CapacityMWh
	}
	if input.Notes != nil {
		project.Notes = input.Notes
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update project")
	}
	return project, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete project")
	}
	return nil
}
