package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/delphienergia/capex-backend/api/controllers"
	"github.com/delphienergia/capex-backend/api/middleware"
	"github.com/delphienergia/capex-backend/internal/clients"
	"github.com/delphienergia/capex-backend/internal/compare"
	"github.com/delphienergia/capex-backend/internal/library"
	"github.com/delphienergia/capex-backend/internal/narrative"
	"github.com/delphienergia/capex-backend/internal/projects"
	"github.com/delphienergia/capex-backend/internal/scenarios"
	"github.com/delphienergia/capex-backend/pkg/config"
	"github.com/delphienergia/capex-backend/pkg/logger"
	"github.com/delphienergia/capex-backend/pkg/metrics"
)

// Deps bundles everything the router mounts. Narrative may be nil when
// no Gemini key is configured; its routes then answer with a dependency
// error.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            controllers.Pinger
	Redis         controllers.Pinger
	Clients       clients.Service
	Projects      projects.Service
	Scenarios     scenarios.Service
	Library       library.Service
	Narrative     *narrative.Service
	EngineMetrics *metrics.EngineMetrics
	Thresholds    compare.Thresholds
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ClientList(deps.Clients, logg))
			r.Post("/", controllers.ClientCreate(deps.Clients, logg))
			r.Route("/{clientID}", func(r chi.Router) {
				r.Get("/", controllers.ClientGet(deps.Clients, logg))
				r.Put("/", controllers.ClientUpdate(deps.Clients, logg))
				r.Delete("/", controllers.ClientDelete(deps.Clients, logg))
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", controllers.ProjectList(deps.Projects, logg))
			r.Post("/", controllers.ProjectCreate(deps.Projects, logg))
			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", controllers.ProjectGet(deps.Projects, logg))
				r.Put("/", controllers.ProjectUpdate(deps.Projects, logg))
				r.Delete("/", controllers.ProjectDelete(deps.Projects, logg))
			})
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", controllers.ScenarioList(deps.Scenarios, logg))
			r.Post("/", controllers.ScenarioCreate(deps.Scenarios, logg))
			r.Route("/{scenarioID}", func(r chi.Router) {
				r.Get("/", controllers.ScenarioGet(deps.Scenarios, logg))
				r.Patch("/", controllers.ScenarioUpdateConfig(deps.Scenarios, logg))
				r.Post("/rename", controllers.ScenarioRename(deps.Scenarios, logg))
				r.Post("/duplicate", controllers.ScenarioDuplicate(deps.Scenarios, logg))
				r.Delete("/", controllers.ScenarioDelete(deps.Scenarios, logg))

				r.Route("/items", func(r chi.Router) {
					r.Post("/", controllers.ScenarioItemAdd(deps.Scenarios, logg))
					r.Put("/{itemID}", controllers.ScenarioItemUpdate(deps.Scenarios, logg))
					r.Delete("/{itemID}", controllers.ScenarioItemDelete(deps.Scenarios, logg))
				})

				r.Route("/categories", func(r chi.Router) {
					r.Post("/", controllers.ScenarioCategoryAdd(deps.Scenarios, logg))
					r.Put("/{categoryID}", controllers.ScenarioCategoryUpdate(deps.Scenarios, logg))
					r.Delete("/{categoryID}", controllers.ScenarioCategoryDelete(deps.Scenarios, logg))
				})

				r.Get("/summary", controllers.ScenarioSummary(deps.Scenarios, deps.EngineMetrics, logg))
				r.Get("/by-category", controllers.ScenarioByCategory(deps.Scenarios, deps.EngineMetrics, logg))
				r.Get("/normalization", controllers.ScenarioNormalization(deps.Scenarios, deps.EngineMetrics, logg))
			})
		})

		r.Route("/compare", func(r chi.Router) {
			r.Post("/diff", controllers.CompareDiff(deps.Scenarios, deps.Thresholds, deps.EngineMetrics, logg))
			r.Post("/multi", controllers.CompareMulti(deps.Scenarios, deps.EngineMetrics, logg))
			r.Post("/narrative", controllers.CompareNarrative(deps.Scenarios, deps.Narrative, deps.Thresholds, logg))
		})

		r.Route("/library", func(r chi.Router) {
			r.Get("/resolve", controllers.LibraryResolve(deps.Library, logg))
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.LibraryCategoryList(deps.Library, logg))
				r.Post("/", controllers.LibraryCategoryCreate(deps.Library, logg))
				r.Put("/{categoryID}", controllers.LibraryCategoryUpdate(deps.Library, logg))
				r.Delete("/{categoryID}", controllers.LibraryCategoryDelete(deps.Library, logg))
			})
			r.Route("/items", func(r chi.Router) {
				r.Get("/", controllers.LibraryItemList(deps.Library, logg))
				r.Post("/", controllers.LibraryItemCreate(deps.Library, logg))
				r.Put("/{itemID}", controllers.LibraryItemUpdate(deps.Library, logg))
				r.Delete("/{itemID}", controllers.LibraryItemDelete(deps.Library, logg))
			})
		})
	})

	return r
}
