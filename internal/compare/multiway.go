package compare

import (
	"sort"

	"github.com/delphienergia/capex-backend/internal/capex"
)

// MultiOverall carries the headline figures of each compared scenario,
// indexed in the same order as Labels.
type MultiOverall struct {
	ProjectTotals []float64 `json:"project_totals"`
	ClientTotals  []float64 `json:"client_totals"`
	EPCTotals     []float64 `json:"epc_totals"`
	CopPerKWp     []float64 `json:"cop_per_kwp"`
	KWp           []float64 `json:"kwp"`
	P50MWh        []float64 `json:"p50_mwh"`
}

// MultiCategoryRow is one label-merged category across all compared
// scenarios.
type MultiCategoryRow struct {
	CategoryName string    `json:"category_name"`
	Totals       []float64 `json:"totals"`
}

// MultiComparison is the side-by-side view for three- and four-way
// comparisons.
type MultiComparison struct {
	Labels     []string           `json:"labels"`
	Overall    MultiOverall       `json:"overall"`
	ByCategory []MultiCategoryRow `json:"by_category"`
}

var scenarioLabels = []string{"A", "B", "C", "D"}

// CompareMany lines up two to four scenarios side by side. Category rows
// are merged by label and sorted by name, with AIU and the project total
// appended as synthetic rows at the end.
func CompareMany(scenarios []capex.Scenario, summaries []capex.Summary) MultiComparison {
	n := len(scenarios)
	if n > len(summaries) {
		n = len(summaries)
	}
	if n > len(scenarioLabels) {
		n = len(scenarioLabels)
	}

	out := MultiComparison{
		Labels: scenarioLabels[:n],
		Overall: MultiOverall{
			ProjectTotals: make([]float64, n),
			ClientTotals:  make([]float64, n),
			EPCTotals:     make([]float64, n),
			CopPerKWp:     make([]float64, n),
			KWp:           make([]float64, n),
			P50MWh:        make([]float64, n),
		},
	}

	merged := make([]map[string]capex.CategoryTotals, n)
	names := make([]string, 0)
	seen := make(map[string]bool)

	for i := 0; i < n; i++ {
		summary := summaries[i]
		vars := scenarios[i].Variables

		out.Overall.ProjectTotals[i] = summary.GrandTotal
		out.Overall.ClientTotals[i] = summary.ClientTotal
		out.Overall.EPCTotals[i] = summary.EPCTotal
		out.Overall.CopPerKWp[i] = capex.ComputeNormalizationMetrics(summary.GrandTotal, vars).PerKWp
		out.Overall.KWp[i] = vars.DCPowerKWp
		out.Overall.P50MWh[i] = vars.P50MWhYear

		merged[i] = capex.MergeByLabel(capex.AggregateByCategory(scenarios[i], summary))
		for name := range merged[i] {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)

	for _, name := range names {
		row := MultiCategoryRow{CategoryName: name, Totals: make([]float64, n)}
		for i := 0; i < n; i++ {
			row.Totals[i] = merged[i][name].Total
		}
		out.ByCategory = append(out.ByCategory, row)
	}

	aiuRow := MultiCategoryRow{CategoryName: "AIU", Totals: make([]float64, n)}
	projectRow := MultiCategoryRow{CategoryName: "Total Proyecto", Totals: make([]float64, n)}
	for i := 0; i < n; i++ {
		aiuRow.Totals[i] = summaries[i].AIUTotal
		projectRow.Totals[i] = summaries[i].GrandTotal
	}
	out.ByCategory = append(out.ByCategory, aiuRow, projectRow)

	return out
}
