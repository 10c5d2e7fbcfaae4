package controllers

import (
	"net/http"
	"time"

	"github.com/delphienergia/capex-backend/api/responses"
	"github.com/delphienergia/capex-backend/internal/capex"
	"github.com/delphienergia/capex-backend/internal/scenarios"
	"github.com/delphienergia/capex-backend/pkg/logger"
	"github.com/delphienergia/capex-backend/pkg/metrics"
)

// ScenarioSummary recomputes the full financial summary from the stored
// snapshot. Summaries are never persisted; every read is a fresh run.
func ScenarioSummary(svc scenarios.Service, engineMetrics *metrics.EngineMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "scenarioID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start := time.Now()
		summary, err := svc.Summary(r.Context(), id)
		engineMetrics.ObserveDuration("summary", time.Since(start))
		if err != nil {
			engineMetrics.IncFailure("summary")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		engineMetrics.IncSuccess("summary")
		responses.WriteSuccess(w, summary)
	}
}

// ScenarioByCategory returns label-merged category totals.
func ScenarioByCategory(svc scenarios.Service, engineMetrics *metrics.EngineMetrics, logg *logger.Logger) http.HandlerFunc {
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

		start := time.Now()
		summary := capex.ComputeSummary(detail.Snapshot)
		byCategory := capex.MergeByLabel(capex.AggregateByCategory(detail.Snapshot, summary))
		engineMetrics.ObserveDuration("by_category", time.Since(start))
		engineMetrics.IncSuccess("by_category")

		responses.WriteSuccess(w, byCategory)
	}
}

// ScenarioNormalization returns cost-per-capacity figures derived from
// the grand total and the scenario variables.
func ScenarioNormalization(svc scenarios.Service, engineMetrics *metrics.EngineMetrics, logg *logger.Logger) http.HandlerFunc {
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

		start := time.Now()
		summary := capex.ComputeSummary(detail.Snapshot)
		result := capex.ComputeNormalizationMetrics(summary.GrandTotal, detail.Snapshot.Variables)
		engineMetrics.ObserveDuration("normalization", time.Since(start))
		engineMetrics.IncSuccess("normalization")

		responses.WriteSuccess(w, result)
	}
}
