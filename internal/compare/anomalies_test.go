package compare

import (
	"testing"

	"github.com/delphienergia/capex-backend/internal/capex"
)

func TestDetectAnomalies(t *testing.T) {
	scenarioA := scenarioWith("scn-a", []capex.Item{
		{ID: "a1", Name: "Paneles", CategoryID: "mod", Qty: 1, UnitPrice: 100, VATRate: 19, Incoterm: capex.IncotermNA, DeliveryPoint: capex.DeliverySite},
		{ID: "a2", Name: "Cableado", CategoryID: "mod", Qty: 1, UnitPrice: 50, VATRate: 19, Incoterm: capex.IncotermDDP},
		{ID: "a3", Name: "Tramites", CategoryID: "svc", Qty: 1, UnitPrice: 10, VATRate: 35, Incoterm: capex.IncotermDDP, DeliveryPoint: capex.DeliverySite},
		{ID: "a4", Name: "Obra civil", CategoryID: "svc", Qty: 5, UnitPrice: 0, VATRate: 19, Incoterm: capex.IncotermDDP, DeliveryPoint: capex.DeliverySite},
	})
	scenarioB := scenarioWith("scn-b", nil)

	anomalies := DetectAnomalies(scenarioA, scenarioB, DefaultThresholds())

	types := map[string]int{}
	for _, anomaly := range anomalies {
		types[anomaly.Type]++
	}
	for _, want := range []string{"incoterm_na", "delivery_empty", "vat_unusual", "zero_price"} {
		if types[want] != 1 {
			t.Fatalf("expected exactly one %s anomaly, got %d (all: %v)", want, types[want], types)
		}
	}
}

func TestDetectAnomalies_CleanScenarioHasNone(t *testing.T) {
	scenario := scenarioWith("scn-a", []capex.Item{
		{ID: "a1", Name: "Paneles", CategoryID: "mod", Qty: 1, UnitPrice: 100, VATRate: 19, Incoterm: capex.IncotermDDP, DeliveryPoint: capex.DeliverySite},
	})
	if got := DetectAnomalies(scenario, scenarioWith("scn-b", nil), DefaultThresholds()); len(got) != 0 {
		t.Fatalf("expected no anomalies, got %+v", got)
	}
}
