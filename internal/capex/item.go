package capex

// EffectiveVATRate returns the item's VAT rate, falling back to the
// scenario default when the item carries none.
func EffectiveVATRate(item Item, scenario Scenario) float64 {
	if item.VATRate > 0 {
		return item.VATRate
	}
	return scenario.DefaultVATRate
}

// ComputeItemTotals derives base, VAT and total amounts for one line.
//
// Percentage items return all zeros here: their value depends on aggregates
// that are themselves built from the non-percentage lines, so it is resolved
// in a second pass once the base is known. Invalid or negative inputs are
// not rejected; validation belongs to the editing surface.
func ComputeItemTotals(item Item, scenario Scenario) ItemTotals {
	if item.IsPercentage {
		return ItemTotals{}
	}

	rate := EffectiveVATRate(item, scenario)

	var baseUnit, vatUnit, totalUnit float64
	if item.PriceIncludesVAT {
		baseUnit = item.UnitPrice / (1 + rate/100.0)
		vatUnit = item.UnitPrice - baseUnit
		totalUnit = item.UnitPrice
	} else {
		baseUnit = item.UnitPrice
		vatUnit = baseUnit * rate / 100.0
		totalUnit = baseUnit + vatUnit
	}

	qty := item.Qty
	if item.PricingMode == PricingModePerKWp {
		// Per-kWp lines price against installed DC power instead of a
		// typed quantity.
		qty = scenario.Variables.DCPowerKWp
	}

	return ItemTotals{
		BaseUnit:  baseUnit,
		VATUnit:   vatUnit,
		TotalUnit: totalUnit,
		BaseLine:  baseUnit * qty,
		VATLine:   vatUnit * qty,
		TotalLine: totalUnit * qty,
	}
}
