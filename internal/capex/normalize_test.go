package capex

import "testing"

func TestComputeNormalizationMetrics(t *testing.T) {
	vars := Variables{DCPowerKWp: 5000, ACPowerMW: 4, P50MWhYear: 9000, P90MWhYear: 8500}
	metrics := ComputeNormalizationMetrics(10000000, vars)

	if metrics.PerKWp != 2000 {
		t.Fatalf("per kWp = %v, want 2000", metrics.PerKWp)
	}
	if metrics.PerMWac != 2500000 {
		t.Fatalf("per MWac = %v, want 2500000", metrics.PerMWac)
	}
	if !almostEqual(metrics.PerMWhP50, 10000000.0/9000, 1e-6) {
		t.Fatalf("per MWh p50 = %v", metrics.PerMWhP50)
	}
}

func TestComputeNormalizationMetrics_ZeroDenominators(t *testing.T) {
	metrics := ComputeNormalizationMetrics(10000000, Variables{})
	if metrics != (NormalizationMetrics{}) {
		t.Fatalf("zero denominators must yield zeros, got %+v", metrics)
	}
}
