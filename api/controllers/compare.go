package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/delphienergia/capex-backend/api/responses"
	"github.com/delphienergia/capex-backend/api/validators"
	"github.com/delphienergia/capex-backend/internal/capex"
	"github.com/delphienergia/capex-backend/internal/compare"
	"github.com/delphienergia/capex-backend/internal/narrative"
	"github.com/delphienergia/capex-backend/internal/scenarios"
	pkgerrors "github.com/delphienergia/capex-backend/pkg/errors"
	"github.com/delphienergia/capex-backend/pkg/logger"
	"github.com/delphienergia/capex-backend/pkg/metrics"
)

type compareRequest struct {
	ScenarioA uuid.UUID `json:"scenario_a" validate:"required"`
	ScenarioB uuid.UUID `json:"scenario_b" validate:"required"`
}

type multiCompareRequest struct {
	ScenarioIDs []uuid.UUID `json:"scenario_ids" validate:"required,min=2,max=4"`
}

func loadWithSummary(r *http.Request, svc scenarios.Service, id uuid.UUID) (capex.Scenario, capex.Summary, error) {
	detail, err := svc.GetByID(r.Context(), id)
	if err != nil {
		return capex.Scenario{}, capex.Summary{}, err
	}
	return detail.Snapshot, capex.ComputeSummary(detail.Snapshot), nil
}

// CompareDiff builds the deterministic diff pack for two scenarios.
func CompareDiff(svc scenarios.Service, thresholds compare.Thresholds, engineMetrics *metrics.EngineMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req compareRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		scenarioA, summaryA, err := loadWithSummary(r, svc, req.ScenarioA)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scenarioB, summaryB, err := loadWithSummary(r, svc, req.ScenarioB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start := time.Now()
		pack := compare.BuildDiffPack(scenarioA, summaryA, scenarioB, summaryB, thresholds)
		hash, err := compare.Hash(pack)
		engineMetrics.ObserveDuration("diff", time.Since(start))
		if err != nil {
			engineMetrics.IncFailure("diff")
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash diff pack"))
			return
		}
		engineMetrics.IncSuccess("diff")

		responses.WriteSuccess(w, map[string]any{
			"hash": hash,
			"pack": pack,
		})
	}
}

// CompareMulti produces the side-by-side table for up to four scenarios.
func CompareMulti(svc scenarios.Service, engineMetrics *metrics.EngineMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req multiCompareRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snaps := make([]capex.Scenario, 0, len(req.ScenarioIDs))
		summaries := make([]capex.Summary, 0, len(req.ScenarioIDs))
		for _, id := range req.ScenarioIDs {
			snapshot, summary, err := loadWithSummary(r, svc, id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			snaps = append(snaps, snapshot)
			summaries = append(summaries, summary)
		}

		start := time.Now()
		result := compare.CompareMany(snaps, summaries)
		engineMetrics.ObserveDuration("multi_compare", time.Since(start))
		engineMetrics.IncSuccess("multi_compare")

		responses.WriteSuccess(w, result)
	}
}

// CompareNarrative runs the analyst narrative over a pairwise diff. The
// force query flag bypasses the cache read.
func CompareNarrative(svc scenarios.Service, narrativeSvc *narrative.Service, thresholds compare.Thresholds, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if narrativeSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "narrative generation is not configured"))
			return
		}

		var req compareRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		force, err := validators.ParseQueryBool(r, "force", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		scenarioA, summaryA, err := loadWithSummary(r, svc, req.ScenarioA)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scenarioB, summaryB, err := loadWithSummary(r, svc, req.ScenarioB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := narrativeSvc.Analyze(r.Context(), scenarioA, summaryA, scenarioB, summaryB, thresholds, force)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
