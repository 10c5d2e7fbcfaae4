package compare

import (
	"fmt"

	"github.com/delphienergia/capex-backend/internal/capex"
)

// DetectAnomalies scans every item in both scenarios for data-quality
// issues. Findings are informational only and never block the diff.
func DetectAnomalies(scenarioA, scenarioB capex.Scenario, thresholds Thresholds) []Anomaly {
	vatMax := thresholds.VATAnomalyMax
	if vatMax <= 0 {
		vatMax = DefaultThresholds().VATAnomalyMax
	}

	anomalies := []Anomaly{}
	for _, scan := range []struct {
		scenario capex.Scenario
		label    string
	}{
		{scenarioA, "A"},
		{scenarioB, "B"},
	} {
		for _, item := range scan.scenario.Items {
			ref := fmt.Sprintf("%s (Escenario %s)", item.Name, scan.label)

			if item.Incoterm == capex.IncotermNA && item.UnitPrice > 0 {
				anomalies = append(anomalies, Anomaly{
					Type:  "incoterm_na",
					Item:  ref,
					Issue: "Incoterm marcado como 'NA' pero el ítem tiene precio",
				})
			}
			if item.DeliveryPoint == "" {
				anomalies = append(anomalies, Anomaly{
					Type:  "delivery_empty",
					Item:  ref,
					Issue: "Punto de entrega no definido",
				})
			}
			if item.VATRate < 0 || item.VATRate > vatMax {
				anomalies = append(anomalies, Anomaly{
					Type:  "vat_unusual",
					Item:  ref,
					Issue: fmt.Sprintf("IVA fuera de rango normal: %g%%", item.VATRate),
				})
			}
			if item.UnitPrice == 0 && item.Qty > 0 {
				anomalies = append(anomalies, Anomaly{
					Type:  "zero_price",
					Item:  ref,
					Issue: "Precio unitario es cero pero cantidad > 0",
				})
			}
		}
	}
	return anomalies
}
