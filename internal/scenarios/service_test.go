package scenarios

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/delphienergia/capex-backend/internal/capex"
	"github.com/delphienergia/capex-backend/pkg/db/models"
	pkgerrors "github.com/delphienergia/capex-backend/pkg/errors"
)

func setupScenarioTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	clients := `
CREATE TABLE IF NOT EXISTS clients (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  nit TEXT,
  contact TEXT,
  email TEXT,
  phone TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	projects := `
CREATE TABLE IF NOT EXISTS projects (
  id TEXT PRIMARY KEY,
  client_id TEXT NOT NULL,
  name TEXT NOT NULL,
  location TEXT,
  capacity_kwp REAL NOT NULL DEFAULT 0,
  capacity_mwh REAL,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	scenarios := `
CREATE TABLE IF NOT EXISTS scenarios (
  id TEXT PRIMARY KEY,
  project_id TEXT NOT NULL,
  name TEXT NOT NULL,
  snapshot TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(clients).Error)
	require.NoError(t, db.Exec(projects).Error)
	require.NoError(t, db.Exec(scenarios).Error)
	return db
}

type projectStub struct {
	db *gorm.DB
}

func (p *projectStub) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := p.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func newScenarioService(t *testing.T) (Service, uuid.UUID) {
	t.Helper()

	db := setupScenarioTestDB(t)

	client := &models.Client{ID: uuid.New(), Name: "Delphi Energia"}
	require.NoError(t, db.Create(client).Error)

	project := &models.Project{ID: uuid.New(), ClientID: client.ID, Name: "Parque Solar Norte", CapacityKWp: 5000}
	require.NoError(t, db.Create(project).Error)

	svc, err := NewService(NewRepository(db), &projectStub{db: db})
	require.NoError(t, err)
	return svc, project.ID
}

func TestScenarioLifecycle(t *testing.T) {
	svc, projectID := newScenarioService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateScenarioInput{ProjectID: projectID, Name: "Escenario Base"})
	require.NoError(t, err)
	require.Equal(t, "Escenario Base", created.Snapshot.Name)
	require.Equal(t, "COP", created.Snapshot.Currency)
	require.Equal(t, 19.0, created.Snapshot.DefaultVATRate)
	require.Equal(t, created.Record.ID.String(), created.Snapshot.ID)

	loaded, err := svc.GetByID(ctx, created.Record.ID)
	require.NoError(t, err)
	require.Equal(t, created.Snapshot.Currency, loaded.Snapshot.Currency)

	renamed, err := svc.Rename(ctx, created.Record.ID, "Escenario A")
	require.NoError(t, err)
	require.Equal(t, "Escenario A", renamed.Record.Name)
	require.Equal(t, "Escenario A", renamed.Snapshot.Name)

	listed, err := svc.ListByProject(ctx, projectID)
	require.NoError(t, err)
	require.NotEmpty(t, listed)

	require.NoError(t, svc.Delete(ctx, created.Record.ID))

	_, err = svc.GetByID(ctx, created.Record.ID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestCreateRejectsUnknownProject(t *testing.T) {
	svc, _ := newScenarioService(t)

	_, err := svc.Create(context.Background(), CreateScenarioInput{ProjectID: uuid.New(), Name: "Huérfano"})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestItemMutationsKeepOrderDense(t *testing.T) {
	svc, projectID := newScenarioService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateScenarioInput{ProjectID: projectID, Name: "Items"})
	require.NoError(t, err)
	id := created.Record.ID

	names := []string{"Paneles", "Inversores", "Montaje"}
	for _, name := range names {
		_, err = svc.AddItem(ctx, id, capex.Item{Name: name, Unit: "un", Qty: 1, UnitPrice: 100, VATRate: 19})
		require.NoError(t, err)
	}

	detail, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, detail.Snapshot.Items, 3)
	for i, item := range detail.Snapshot.Items {
		require.Equal(t, i, item.Order)
		require.Equal(t, names[i], item.Name)
	}

	second := detail.Snapshot.Items[1]
	updated := second
	updated.Qty = 7
	updated.Order = 99 // ignored, position is preserved
	detail, err = svc.UpdateItem(ctx, id, second.ID, updated)
	require.NoError(t, err)
	require.Equal(t, 7.0, detail.Snapshot.Items[1].Qty)
	require.Equal(t, 1, detail.Snapshot.Items[1].Order)

	first := detail.Snapshot.Items[0]
	detail, err = svc.DeleteItem(ctx, id, first.ID)
	require.NoError(t, err)
	require.Len(t, detail.Snapshot.Items, 2)
	require.Equal(t, "Inversores", detail.Snapshot.Items[0].Name)
	require.Equal(t, 0, detail.Snapshot.Items[0].Order)
	require.Equal(t, 1, detail.Snapshot.Items[1].Order)

	_, err = svc.DeleteItem(ctx, id, "missing")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestAddItemValidation(t *testing.T) {
	svc, projectID := newScenarioService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateScenarioInput{ProjectID: projectID, Name: "Validación"})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, created.Record.ID, capex.Item{Name: "  ", Qty: 1})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = svc.AddItem(ctx, created.Record.ID, capex.Item{Name: "Paneles", Qty: -1})
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCategoryMutations(t *testing.T) {
	svc, projectID := newScenarioService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateScenarioInput{ProjectID: projectID, Name: "Categorías"})
	require.NoError(t, err)
	id := created.Record.ID

	detail, err := svc.AddCategory(ctx, id, capex.Category{Label: "Equipos", IsEquipment: true})
	require.NoError(t, err)
	require.Len(t, detail.Snapshot.Categories, 1)
	catID := detail.Snapshot.Categories[0].ID
	require.NotEmpty(t, catID)

	_, err = svc.AddItem(ctx, id, capex.Item{Name: "Paneles", CategoryID: catID, Qty: 1, UnitPrice: 100})
	require.NoError(t, err)

	detail, err = svc.UpdateCategory(ctx, id, catID, capex.Category{Label: "Equipos Mayores", IsEquipment: true})
	require.NoError(t, err)
	require.Equal(t, "Equipos Mayores", detail.Snapshot.Categories[0].Label)

	detail, err = svc.DeleteCategory(ctx, id, catID)
	require.NoError(t, err)
	require.Empty(t, detail.Snapshot.Categories)
	require.Empty(t, detail.Snapshot.Items[0].CategoryID)
}

func TestDuplicateCopiesSnapshot(t *testing.T) {
	svc, projectID := newScenarioService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateScenarioInput{ProjectID: projectID, Name: "Original"})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, created.Record.ID, capex.Item{Name: "Paneles", Qty: 10, UnitPrice: 100, VATRate: 19})
	require.NoError(t, err)

	dup, err := svc.Duplicate(ctx, created.Record.ID, "")
	require.NoError(t, err)
	require.NotEqual(t, created.Record.ID, dup.Record.ID)
	require.Equal(t, "Original (copia)", dup.Record.Name)
	require.Len(t, dup.Snapshot.Items, 1)
	require.Equal(t, dup.Record.ID.String(), dup.Snapshot.ID)

	// Mutating the copy must not touch the source.
	_, err = svc.DeleteItem(ctx, dup.Record.ID, dup.Snapshot.Items[0].ID)
	require.NoError(t, err)

	source, err := svc.GetByID(ctx, created.Record.ID)
	require.NoError(t, err)
	require.Len(t, source.Snapshot.Items, 1)
}

func TestSummaryFromStoredSnapshot(t *testing.T) {
	svc, projectID := newScenarioService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateScenarioInput{ProjectID: projectID, Name: "Resumen"})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, created.Record.ID, capex.Item{Name: "Paneles", Qty: 10, UnitPrice: 100, VATRate: 19})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, created.Record.ID)
	require.NoError(t, err)
	require.InDelta(t, 1000.0, summary.DirectCostBase, 1e-9)
	require.InDelta(t, 190.0, summary.DirectCostVAT, 1e-9)
	require.InDelta(t, 1190.0, summary.GrandTotal, 1e-9)
}
