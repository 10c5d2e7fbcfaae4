package capex

// Markup holds the resolved AIU base and components for a scenario.
type Markup struct {
	Base        float64 `json:"base"`
	Admin       float64 `json:"admin"`
	Contingency float64 `json:"contingency"`
	Profit      float64 `json:"profit"`
	Total       float64 `json:"total"`
	VATOnProfit float64 `json:"vat_on_profit"`
}

// includedInMarkupBase applies the configured inclusion policy to one item.
// Percentage items never contribute directly.
func includedInMarkupBase(item Item, rule BaseRule, equipmentCategories map[string]bool) bool {
	if item.IsPercentage {
		return false
	}
	if item.ClientProvided || item.PassThrough {
		return false
	}
	switch rule {
	case BaseRuleExclClientProvided:
		return true
	case BaseRuleServicesLabor:
		return item.AIUApplicable && !equipmentCategories[item.CategoryID]
	default:
		// BaseRuleDirectCosts and anything unrecognized.
		return item.AIUApplicable
	}
}

func equipmentCategoryIDs(scenario Scenario) map[string]bool {
	ids := make(map[string]bool, len(scenario.Categories))
	for _, cat := range scenario.Categories {
		if cat.IsEquipment {
			ids[cat.ID] = true
		}
	}
	return ids
}

// MarkupBaseDirect sums the tax-exclusive line bases of the items selected
// by the scenario's inclusion policy.
func MarkupBaseDirect(scenario Scenario, lineTotals map[string]ItemTotals) float64 {
	if !scenario.AIU.Enabled {
		return 0.0
	}
	equipment := equipmentCategoryIDs(scenario)
	base := 0.0
	for _, item := range scenario.Items {
		if !includedInMarkupBase(item, scenario.AIU.BaseRule, equipment) {
			continue
		}
		if totals, ok := lineTotals[item.ID]; ok {
			base += totals.BaseLine
		}
	}
	return base
}

// MarkupBaseProportional resolves the base from a combined tax-inclusive
// total that already bundles direct and indirect costs. The contribution of
// the indirect modules cannot be attributed item by item, so the engine
// derives an inclusion factor from the direct lines and applies it to the
// whole. This assumes indirect costs scale with the same included/excluded
// mix as the direct costs, a modeling convention, not an arithmetic fact.
func MarkupBaseProportional(scenario Scenario, combinedTotalInclVAT float64, lineTotals map[string]ItemTotals) float64 {
	if !scenario.AIU.Enabled || combinedTotalInclVAT == 0 {
		return 0.0
	}

	equipment := equipmentCategoryIDs(scenario)
	includedTotal := 0.0
	allTotal := 0.0
	for _, item := range scenario.Items {
		if item.IsPercentage {
			continue
		}
		totals, ok := lineTotals[item.ID]
		if !ok {
			continue
		}
		allTotal += totals.TotalLine
		if includedInMarkupBase(item, scenario.AIU.BaseRule, equipment) {
			includedTotal += totals.TotalLine
		}
	}

	factor := 1.0
	if allTotal > 0 {
		factor = includedTotal / allTotal
	}
	return combinedTotalInclVAT * factor
}

// ResolveMarkup picks the configured base strategy, applies the three
// component percentages and the optional per-item scaling factors, and
// computes VAT on the profit component when the scenario enables it.
// A zero base or disabled markup yields all zeros.
func ResolveMarkup(scenario Scenario, combinedTotalInclVAT float64, lineTotals map[string]ItemTotals) Markup {
	if !scenario.AIU.Enabled {
		return Markup{}
	}

	var base float64
	adminBase, contingencyBase, profitBase := 0.0, 0.0, 0.0

	switch scenario.AIU.Strategy {
	case StrategyTaxExclusiveSum:
		equipment := equipmentCategoryIDs(scenario)
		for _, item := range scenario.Items {
			if !includedInMarkupBase(item, scenario.AIU.BaseRule, equipment) {
				continue
			}
			totals, ok := lineTotals[item.ID]
			if !ok {
				continue
			}
			base += totals.BaseLine
			if item.AIUFactors != nil {
				adminBase += totals.BaseLine * item.AIUFactors.AdminPct / 100.0
				contingencyBase += totals.BaseLine * item.AIUFactors.ContingencyPct / 100.0
				profitBase += totals.BaseLine * item.AIUFactors.ProfitPct / 100.0
			} else {
				adminBase += totals.BaseLine
				contingencyBase += totals.BaseLine
				profitBase += totals.BaseLine
			}
		}
	default:
		// Proportional over the combined tax-inclusive total. Per-item
		// factors are not separable under this strategy and are ignored.
		base = MarkupBaseProportional(scenario, combinedTotalInclVAT, lineTotals)
		adminBase, contingencyBase, profitBase = base, base, base
	}

	if base <= 0 {
		return Markup{}
	}

	markup := Markup{
		Base:        base,
		Admin:       adminBase * scenario.AIU.AdminPct / 100.0,
		Contingency: contingencyBase * scenario.AIU.ContingencyPct / 100.0,
		Profit:      profitBase * scenario.AIU.ProfitPct / 100.0,
	}
	markup.Total = markup.Admin + markup.Contingency + markup.Profit

	if scenario.VAT.VATOnProfit {
		markup.VATOnProfit = markup.Profit * scenario.VAT.ProfitVATRate / 100.0
	}
	return markup
}
