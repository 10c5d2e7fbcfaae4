// Package clients manages the customer accounts that own budgeting
// projects.
package clients

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

type clientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes client CRUD.
type Service interface {
	Create(ctx context.Context, input CreateClientInput) (*models.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateClientInput) (*models.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo clientRepository
}

// NewService builds a client service.
func NewService(repo clientRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("client repository required")
	}
	return &service{repo: repo}, nil
}

// CreateClientInput captures the fields for a new client.
type CreateClientInput struct {
	Name    string  `json:"name" validate:"required,min=2"`
	NIT     *string `json:"nit,omitempty"`
	Contact *string `json:"contact,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// UpdateClientInput captures the mutable client fields.
type UpdateClientInput struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=2"`
	NIT     *string `json:"nit,omitempty"`
	Contact *string `json:"contact,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

func (s *service) Create(ctx context.Context, input CreateClientInput) (*models.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name is required")
	}

	client := &models.Client{
		ID:      uuid.New(),
		Name:    name,
		NIT:     input.NIT,
		Contact: input.Contact,
		Email:   input.Email,
		Phone:   input.Phone,
		Notes:   input.Notes,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create client")
	}
	return client, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client")
	}
	return client, nil
}

func (s *service) List(ctx context.Context) ([]models.Client, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list clients")
	}
	return clients, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateClientInput) (*models.Client, error) {
	client, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name cannot be empty")
		}
		client.Name = name
	}
	if input.NIT != nil {
		client.NIT = input.NIT
	}
	if input.Contact != nil {
		client.Contact = input.Contact
	}
	if input.Email != nil {
		client.Email = input.Email
	}
	if input.Phone != nil {
		client.Phone = input.Phone
	}
	if input.Notes != nil {
		client.Notes = input.Notes
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update client")
	}
	return client, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete client")
	}
	return nil
}
