package capex

// ComputeModuleValue resolves a percentage module (transport, policies,
// engineering) against its base. Module costs are modeled as never
// tax-inclusive, so VAT is always added on top. A zero rate short-circuits.
func ComputeModuleValue(pctRate, baseValue, vatRate float64) ModuleTotals {
	if pctRate == 0 {
		return ModuleTotals{}
	}

	baseLine := baseValue * pctRate / 100.0
	vatLine := baseLine * vatRate / 100.0
	return ModuleTotals{
		BaseLine:  baseLine,
		VATLine:   vatLine,
		TotalLine: baseLine + vatLine,
	}
}

// ComputePercentageItemValue resolves a percentage line item against the
// base selected by its PctBase rule. Unlike modules, percentage items honor
// the item's own VAT convention.
func ComputePercentageItemValue(item Item, baseValue float64) ModuleTotals {
	if !item.IsPercentage {
		return ModuleTotals{}
	}

	value := baseValue * item.PctRate / 100.0

	rate := item.VATRate
	if rate <= 0 {
		rate = 19.0
	}

	if item.PriceIncludesVAT {
		baseLine := value / (1 + rate/100.0)
		return ModuleTotals{
			BaseLine:  baseLine,
			VATLine:   value - baseLine,
			TotalLine: value,
		}
	}

	vatLine := value * rate / 100.0
	return ModuleTotals{
		BaseLine:  value,
		VATLine:   vatLine,
		TotalLine: value + vatLine,
	}
}
