package library

import (
	"context"

	"github.com/google/uuid"

	"github.com/delphienergia/capex-backend/pkg/db/models"
	pkgerrors "github.com/delphienergia/capex-backend/pkg/errors"
)

type seedCategory struct {
	code      string
	label     string
	sortOrder int
}

// defaultCategories is the standard utility-scale PV cost breakdown the
// catalog ships with.
var defaultCategories = []seedCategory{
	{"PV-MOD", "Módulos", 10},
	{"PV-INV", "Inversores", 20},
	{"PV-ESS", "Almacenamiento (BESS)", 30},
	{"PV-SBOS", "SBOS (Estructuras / Trackers)", 40},
	{"PV-EBOS", "EBOS (Eléctrico)", 50},
	{"PV-CIV", "Obra civil y preparación de sitio", 60},
	{"PV-INST", "Instalación y construcción", 70},
	{"PV-SUB", "Subestación e Interconexión", 80},
	{"PV-SCADA", "SCADA / Comunicaciones / Seguridad", 90},
	{"PV-ENG", "Ingeniería, permisos y estudios", 100},
	{"PV-DEV", "Desarrollo / Administración del proyecto", 110},
	{"PV-OTH", "Otros / Contingencias", 120},
	{"LAND", "Tierra / Predios", 130},
}

// Seed inserts the default category fixture when the catalog is empty.
// Idempotent: a populated table is left untouched.
func (s *service) Seed(ctx context.Context) error {
	count, err := s.repo.CountCategories(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count library categories")
	}
	if count > 0 {
		return nil
	}

	for _, seed := range defaultCategories {
		category := &models.LibraryCategory{
			ID:        uuid.New(),
			Code:      seed.code,
			Label:     seed.label,
			SortOrder: seed.sortOrder,
		}
		if err := s.repo.CreateCategory(ctx, category); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed library category")
		}
	}
	return nil
}
