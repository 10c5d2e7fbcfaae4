package compare

import (
	"testing"

	"github.com/delphienergia/capex-backend/internal/capex"
)

func TestCompareMany_ThreeWay(t *testing.T) {
	scenarios := []capex.Scenario{
		scenarioWith("scn-a", []capex.Item{{ID: "a1", CategoryID: "mod", Name: "Panel", Qty: 1, UnitPrice: 1000, VATRate: 19, DeliveryPoint: capex.DeliverySite}}),
		scenarioWith("scn-b", []capex.Item{{ID: "b1", CategoryID: "mod", Name: "Panel", Qty: 2, UnitPrice: 1000, VATRate: 19, DeliveryPoint: capex.DeliverySite}}),
		scenarioWith("scn-c", []capex.Item{{ID: "c1", CategoryID: "svc", Name: "Obra", Qty: 1, UnitPrice: 500, VATRate: 19, DeliveryPoint: capex.DeliverySite}}),
	}
	scenarios[0].Variables = capex.Variables{DCPowerKWp: 1000}

	summaries := make([]capex.Summary, len(scenarios))
	for i, scenario := range scenarios {
		summaries[i] = capex.ComputeSummary(scenario)
	}

	result := CompareMany(scenarios, summaries)
	if len(result.Labels) != 3 {
		t.Fatalf("labels = %v", result.Labels)
	}
	if result.Overall.ProjectTotals[1] != summaries[1].GrandTotal {
		t.Fatalf("project total B mismatch")
	}
	if result.Overall.CopPerKWp[0] != summaries[0].GrandTotal/1000 {
		t.Fatalf("cop/kWp A = %v", result.Overall.CopPerKWp[0])
	}

	last := result.ByCategory[len(result.ByCategory)-1]
	if last.CategoryName != "Total Proyecto" {
		t.Fatalf("last row = %q, want Total Proyecto", last.CategoryName)
	}
	aiu := result.ByCategory[len(result.ByCategory)-2]
	if aiu.CategoryName != "AIU" {
		t.Fatalf("second-to-last row = %q, want AIU", aiu.CategoryName)
	}
}

func TestCompareMany_CapsAtFour(t *testing.T) {
	scenarios := make([]capex.Scenario, 5)
	summaries := make([]capex.Summary, 5)
	for i := range scenarios {
		scenarios[i] = scenarioWith("scn", nil)
		summaries[i] = capex.ComputeSummary(scenarios[i])
	}
	result := CompareMany(scenarios, summaries)
	if len(result.Labels) != 4 {
		t.Fatalf("expected cap at 4 scenarios, got %d", len(result.Labels))
	}
}
