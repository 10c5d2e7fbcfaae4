package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/delphienergia/capex-backend/api/responses"
	"github.com/delphienergia/capex-backend/api/validators"
	"github.com/delphienergia/capex-backend/internal/capex"
	"github.com/delphienergia/capex-backend/internal/scenarios"
	pkgerrors "github.com/delphienergia/capex-backend/pkg/errors"
	"github.com/delphienergia/capex-backend/pkg/logger"
)

// scenarioResponse is the wire shape of one scenario: row metadata plus
// the full calculation document.
type scenarioResponse struct {
	ScenarioID string         `json:"scenario_id"`
	ProjectID  string         `json:"project_id"`
	Name       string         `json:"name"`
	Snapshot   capex.Scenario `json:"snapshot"`
}

func toScenarioResponse(detail *scenarios.Detail) scenarioResponse {
	return scenarioResponse{
		ScenarioID: detail.Record.ID.String(),
		ProjectID:  detail.Record.ProjectID.String(),
		Name:       detail.Record.Name,
		Snapshot:   detail.Snapshot,
	}
}

func ScenarioList(svc scenarios.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := validators.ParseQueryUUID(r, "project_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if projectID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "project_id query parameter is required"))
			return
		}
		list, err := svc.ListByProject(r.Context(), *projectID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		type row struct {
			ScenarioID string `json:"scenario_id"`
			Name       string `json:"name"`
		}
		rows := make([]row, 0, len(list))
		for _, s := range list {
			rows = append(rows, row{ScenarioID: s.ID.String(), Name: s.Name})
		}
		responses.WriteSuccess(w, rows)
	}
}

func ScenarioCreate(svc scenarios.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input scenarios.CreateScenarioInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toScenarioResponse(detail))
	}
}

func ScenarioGet(svc scenarios.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "scenarioID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toScenarioResponse(detail))
	}
}

func ScenarioRename(svc scenarios.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "scenarioID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input struct {
			Name string `json:"name" validate:"required,min=1"`
		}
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.Rename(r.Context(), id, input.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toScenarioResponse(detail))
	}
}

func ScenarioUpdateConfig(svc scenarios.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "scenarioID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input scenarios.UpdateConfigInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.UpdateConfig(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toScenarioResponse(detail))
	}
}

func ScenarioDuplicate(svc scenarios.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "scenarioID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input struct {
			Name string `json:"name"`
		}
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.Duplicate(r.Context(), id, input.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toScenarioResponse(detail))
	}
}

func ScenarioDelete(svc scenarios.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "scenarioID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func ScenarioItemAdd(svc scenarios.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "scenarioID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var item capex.Item
		if err := validators.DecodeJSONBody(r, &item); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.AddItem(r.Context(), id, item)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toScenarioResponse(detail))
	}
}

func ScenarioItemUpdate(svc scenarios.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "scenarioID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID := chi.URLParam(r, "itemID")
		var item capex.Item
		if err := validators.DecodeJSONBody(r, &item); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.UpdateItem(r.Context(), id, itemID, item)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toScenarioResponse(detail))
	}
}

func ScenarioItemDelete(svc scenarios.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "scenarioID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID := chi.URLParam(r, "itemID")
		detail, err := svc.DeleteItem(r.Context(), id, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toScenarioResponse(detail))
	}
}

func ScenarioCategoryAdd(svc scenarios.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "scenarioID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var category capex.Category
		if err := validators.DecodeJSONBody(r, &category); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.AddCategory(r.Context(), id, category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toScenarioResponse(detail))
	}
}

func ScenarioCategoryUpdate(svc scenarios.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "scenarioID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID := chi.URLParam(r, "categoryID")
		var category capex.Category
		if err := validators.DecodeJSONBody(r, &category); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.UpdateCategory(r.Context(), id, categoryID, category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toScenarioResponse(detail))
	}
}

func ScenarioCategoryDelete(svc scenarios.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "scenarioID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID := chi.URLParam(r, "categoryID")
		detail, err := svc.DeleteCategory(r.Context(), id, categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toScenarioResponse(detail))
	}
}
