package capex

// NormalizationMetrics expresses a capex value per unit of installed power
// and expected yield. A zero denominator yields 0, never NaN.
type NormalizationMetrics struct {
	PerKWp    float64 `json:"cop_per_kwp"`
	PerMWac   float64 `json:"cop_per_mwac"`
	PerMWhP50 float64 `json:"cop_per_mwh_p50"`
	PerMWhP90 float64 `json:"cop_per_mwh_p90"`
}

// ComputeNormalizationMetrics normalizes capexValue by the scenario's
// project variables.
func ComputeNormalizationMetrics(capexValue float64, vars Variables) NormalizationMetrics {
	return NormalizationMetrics{
		PerKWp:    safeDiv(capexValue, vars.DCPowerKWp),
		PerMWac:   safeDiv(capexValue, vars.ACPowerMW),
		PerMWhP50: safeDiv(capexValue, vars.P50MWhYear),
		PerMWhP90: safeDiv(capexValue, vars.P90MWhYear),
	}
}

func safeDiv(num, den float64) float64 {
	if den <= 0 {
		return 0.0
	}
	return num / den
}
