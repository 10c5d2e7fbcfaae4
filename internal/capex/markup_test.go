package capex

import "testing"

func markupScenario(rule BaseRule, strategy BaseStrategy, items []Item) Scenario {
	return Scenario{
		DefaultVATRate: 19,
		AIU: AIUConfig{
			Enabled:        true,
			AdminPct:       5,
			ContingencyPct: 3,
			ProfitPct:      7,
			BaseRule:       rule,
			Strategy:       strategy,
		},
		Categories: []Category{
			{ID: "equip", Label: "Equipos", IsEquipment: true},
			{ID: "labor", Label: "Mano de obra"},
		},
		Items: items,
	}
}

func lineTotalsFor(scenario Scenario) map[string]ItemTotals {
	totals := make(map[string]ItemTotals, len(scenario.Items))
	for _, item := range scenario.Items {
		totals[item.ID] = ComputeItemTotals(item, scenario)
	}
	return totals
}

func TestMarkupBaseDirect_AllEligibleEqualsDirectBase(t *testing.T) {
	items := []Item{
		{ID: "a", CategoryID: "equip", Qty: 10, UnitPrice: 100, VATRate: 19, AIUApplicable: true},
		{ID: "b", CategoryID: "labor", Qty: 5, UnitPrice: 200, VATRate: 19, AIUApplicable: true},
	}
	scenario := markupScenario(BaseRuleDirectCosts, StrategyTaxExclusiveSum, items)
	lineTotals := lineTotalsFor(scenario)

	directBase := 0.0
	for _, totals := range lineTotals {
		directBase += totals.BaseLine
	}

	if got := MarkupBaseDirect(scenario, lineTotals); got != directBase {
		t.Fatalf("markup base = %v, want direct cost base %v", got, directBase)
	}
}

func TestMarkupBaseDirect_ExcludesClientProvidedAndPassThrough(t *testing.T) {
	items := []Item{
		{ID: "a", CategoryID: "labor", Qty: 1, UnitPrice: 1000, VATRate: 19, AIUApplicable: true},
		{ID: "b", CategoryID: "labor", Qty: 1, UnitPrice: 500, VATRate: 19, AIUApplicable: true, ClientProvided: true},
		{ID: "c", CategoryID: "labor", Qty: 1, UnitPrice: 300, VATRate: 19, AIUApplicable: true, PassThrough: true},
	}
	scenario := markupScenario(BaseRuleDirectCosts, StrategyTaxExclusiveSum, items)
	if got := MarkupBaseDirect(scenario, lineTotalsFor(scenario)); got != 1000 {
		t.Fatalf("markup base = %v, want 1000", got)
	}
}

func TestMarkupBaseDirect_ExclClientProvidedIgnoresEligibilityFlag(t *testing.T) {
	items := []Item{
		{ID: "a", CategoryID: "labor", Qty: 1, UnitPrice: 1000, VATRate: 19, AIUApplicable: false},
		{ID: "b", CategoryID: "labor", Qty: 1, UnitPrice: 500, VATRate: 19, ClientProvided: true},
	}
	scenario := markupScenario(BaseRuleExclClientProvided, StrategyTaxExclusiveSum, items)
	if got := MarkupBaseDirect(scenario, lineTotalsFor(scenario)); got != 1000 {
		t.Fatalf("markup base = %v, want 1000", got)
	}
}

func TestMarkupBaseDirect_ServicesLaborExcludesEquipment(t *testing.T) {
	items := []Item{
		{ID: "a", CategoryID: "equip", Qty: 1, UnitPrice: 9000, VATRate: 19, AIUApplicable: true},
		{ID: "b", CategoryID: "labor", Qty: 1, UnitPrice: 1000, VATRate: 19, AIUApplicable: true},
	}
	scenario := markupScenario(BaseRuleServicesLabor, StrategyTaxExclusiveSum, items)
	if got := MarkupBaseDirect(scenario, lineTotalsFor(scenario)); got != 1000 {
		t.Fatalf("markup base = %v, want 1000 (labor only)", got)
	}
}

func TestMarkupBaseProportional_FullInclusion(t *testing.T) {
	items := []Item{
		{ID: "a", CategoryID: "labor", Qty: 1, UnitPrice: 1000, VATRate: 19, AIUApplicable: true},
		{ID: "b", CategoryID: "labor", Qty: 1, UnitPrice: 2000, VATRate: 19, AIUApplicable: true},
	}
	scenario := markupScenario(BaseRuleDirectCosts, StrategyProportionalInclusive, items)
	combined := 4500.0
	if got := MarkupBaseProportional(scenario, combined, lineTotalsFor(scenario)); got != combined {
		t.Fatalf("100%% inclusion must yield the full combined total, got %v", got)
	}
}

func TestMarkupBaseProportional_ZeroInclusion(t *testing.T) {
	items := []Item{
		{ID: "a", CategoryID: "labor", Qty: 1, UnitPrice: 1000, VATRate: 19, ClientProvided: true},
		{ID: "b", CategoryID: "labor", Qty: 1, UnitPrice: 2000, VATRate: 19, PassThrough: true},
	}
	scenario := markupScenario(BaseRuleDirectCosts, StrategyProportionalInclusive, items)
	if got := MarkupBaseProportional(scenario, 4500, lineTotalsFor(scenario)); got != 0 {
		t.Fatalf("0%% inclusion must yield base 0, got %v", got)
	}
}

func TestMarkupBaseProportional_PartialInclusionFactor(t *testing.T) {
	items := []Item{
		{ID: "a", CategoryID: "labor", Qty: 1, UnitPrice: 1000, VATRate: 19, AIUApplicable: true},
		{ID: "b", CategoryID: "labor", Qty: 1, UnitPrice: 3000, VATRate: 19, ClientProvided: true},
	}
	scenario := markupScenario(BaseRuleDirectCosts, StrategyProportionalInclusive, items)
	lineTotals := lineTotalsFor(scenario)

	// Included share of the tax-inclusive direct total is 1190/4760 = 25%.
	combined := 10000.0
	if got := MarkupBaseProportional(scenario, combined, lineTotals); !almostEqual(got, 2500, 1e-6) {
		t.Fatalf("markup base = %v, want 2500", got)
	}
}

func TestResolveMarkup_ComponentsAndZeroBase(t *testing.T) {
	items := []Item{
		{ID: "a", CategoryID: "labor", Qty: 1, UnitPrice: 1000, VATRate: 19, AIUApplicable: true},
	}
	scenario := markupScenario(BaseRuleDirectCosts, StrategyTaxExclusiveSum, items)
	markup := ResolveMarkup(scenario, 0, lineTotalsFor(scenario))

	if markup.Base != 1000 {
		t.Fatalf("base = %v, want 1000", markup.Base)
	}
	if markup.Admin != 50 || markup.Contingency != 30 || markup.Profit != 70 {
		t.Fatalf("components = %v/%v/%v, want 50/30/70", markup.Admin, markup.Contingency, markup.Profit)
	}
	if markup.Total != 150 {
		t.Fatalf("total = %v, want 150", markup.Total)
	}

	disabled := scenario
	disabled.AIU.Enabled = false
	if got := ResolveMarkup(disabled, 0, lineTotalsFor(scenario)); got != (Markup{}) {
		t.Fatalf("disabled markup must be all zeros, got %+v", got)
	}
}

func TestResolveMarkup_PerItemFactors(t *testing.T) {
	items := []Item{
		{
			ID: "a", CategoryID: "labor", Qty: 1, UnitPrice: 1000, VATRate: 19,
			AIUApplicable: true,
			AIUFactors:    &AIUFactors{AdminPct: 100, ContingencyPct: 50, ProfitPct: 0},
		},
	}
	scenario := markupScenario(BaseRuleDirectCosts, StrategyTaxExclusiveSum, items)
	markup := ResolveMarkup(scenario, 0, lineTotalsFor(scenario))

	if markup.Admin != 50 {
		t.Fatalf("admin = %v, want 50 (full factor)", markup.Admin)
	}
	if markup.Contingency != 15 {
		t.Fatalf("contingency = %v, want 15 (half factor)", markup.Contingency)
	}
	if markup.Profit != 0 {
		t.Fatalf("profit = %v, want 0 (zero factor)", markup.Profit)
	}
}

func TestResolveMarkup_VATOnProfit(t *testing.T) {
	items := []Item{
		{ID: "a", CategoryID: "labor", Qty: 1, UnitPrice: 1000, VATRate: 19, AIUApplicable: true},
	}
	scenario := markupScenario(BaseRuleDirectCosts, StrategyTaxExclusiveSum, items)
	scenario.VAT = VATConfig{VATOnProfit: true, ProfitVATRate: 19}

	markup := ResolveMarkup(scenario, 0, lineTotalsFor(scenario))
	if !almostEqual(markup.VATOnProfit, 70*0.19, 1e-9) {
		t.Fatalf("vat on profit = %v, want %v", markup.VATOnProfit, 70*0.19)
	}
}
