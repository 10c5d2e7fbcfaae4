package capex

import "testing"

func summaryScenario() Scenario {
	return Scenario{
		ID:             "scn-a",
		Name:           "Base case",
		DefaultVATRate: 19,
		TransportPct:   2,
		PoliciesPct:    1,
		EngineeringPct: 3,
		PctBaseRule:    PctBaseSubtotalBase,
		AIU: AIUConfig{
			Enabled:        true,
			AdminPct:       5,
			ContingencyPct: 3,
			ProfitPct:      7,
			BaseRule:       BaseRuleDirectCosts,
			Strategy:       StrategyProportionalInclusive,
		},
		Categories: []Category{
			{ID: "mod", Label: "Módulos FV", IsEquipment: true},
			{ID: "svc", Label: "Servicios"},
		},
		Items: []Item{
			{ID: "i1", Code: "PAN-1", CategoryID: "mod", Qty: 10, UnitPrice: 100, VATRate: 19, AIUApplicable: true},
			{ID: "i2", CategoryID: "svc", Qty: 5, UnitPrice: 200, VATRate: 19, AIUApplicable: true},
			{ID: "i3", CategoryID: "mod", Qty: 2, UnitPrice: 500, VATRate: 19, AIUApplicable: true, ClientProvided: true},
		},
	}
}

func TestComputeSummary_DirectCostsAndSplit(t *testing.T) {
	summary := ComputeSummary(summaryScenario())

	if summary.DirectCostBase != 3000 {
		t.Fatalf("direct_cost_base = %v, want 3000", summary.DirectCostBase)
	}
	if !almostEqual(summary.DirectCostVAT, 570, 1e-9) {
		t.Fatalf("direct_cost_vat = %v, want 570", summary.DirectCostVAT)
	}
	if !almostEqual(summary.DirectCostTotal, 3570, 1e-9) {
		t.Fatalf("direct_cost_total = %v, want 3570", summary.DirectCostTotal)
	}

	// Client split covers only the client-provided line.
	if summary.ClientBase != 1000 {
		t.Fatalf("client_capex_base = %v, want 1000", summary.ClientBase)
	}
	if got := summary.DirectCostBase - summary.ClientBase; got != 2000 {
		t.Fatalf("epc direct base = %v, want 2000", got)
	}
}

func TestComputeSummary_ModulesUseConfiguredBase(t *testing.T) {
	summary := ComputeSummary(summaryScenario())

	// Modules apply to the direct-cost base (3000).
	if summary.Transport.BaseLine != 60 {
		t.Fatalf("transport_base = %v, want 60", summary.Transport.BaseLine)
	}
	if summary.Policies.BaseLine != 30 {
		t.Fatalf("policies_base = %v, want 30", summary.Policies.BaseLine)
	}
	if summary.Engineering.BaseLine != 90 {
		t.Fatalf("engineering_base = %v, want 90", summary.Engineering.BaseLine)
	}

	wantTotalBase := 3000.0 + 60 + 30 + 90
	if !almostEqual(summary.TotalBase, wantTotalBase, 1e-9) {
		t.Fatalf("total_base = %v, want %v", summary.TotalBase, wantTotalBase)
	}
	if !almostEqual(summary.TotalDirect, summary.TotalBase+summary.TotalVAT, 1e-6) {
		t.Fatalf("total_direct %v != total_base %v + total_vat %v", summary.TotalDirect, summary.TotalBase, summary.TotalVAT)
	}
}

func TestComputeSummary_ProportionalMarkupAndGrandTotal(t *testing.T) {
	scenario := summaryScenario()
	summary := ComputeSummary(scenario)

	// Included tax-inclusive direct share: i1+i2 = 2380 of 3570.
	wantFactor := 2380.0 / 3570.0
	wantBase := summary.TotalDirect * wantFactor
	if !almostEqual(summary.AIUBase, wantBase, 1e-6) {
		t.Fatalf("aiu_base = %v, want %v", summary.AIUBase, wantBase)
	}

	wantTotal := wantBase * 0.15
	if !almostEqual(summary.AIUTotal, wantTotal, 1e-6) {
		t.Fatalf("aiu_total = %v, want %v", summary.AIUTotal, wantTotal)
	}
	if !almostEqual(summary.GrandTotal, summary.TotalDirect+summary.AIUTotal, 1e-6) {
		t.Fatalf("grand_total = %v, want total_direct+aiu", summary.GrandTotal)
	}
}

func TestComputeSummary_EPCRollsUpModulesAndMarkup(t *testing.T) {
	summary := ComputeSummary(summaryScenario())

	modulesTotal := summary.Transport.TotalLine + summary.Policies.TotalLine + summary.Engineering.TotalLine
	wantEPCTotal := 2380 + modulesTotal + summary.AIUTotal
	if !almostEqual(summary.EPCTotal, wantEPCTotal, 1e-6) {
		t.Fatalf("epc_total = %v, want %v", summary.EPCTotal, wantEPCTotal)
	}
}

func TestComputeSummary_PercentageItemsResolvedSecondPass(t *testing.T) {
	scenario := summaryScenario()
	scenario.AIU.Enabled = false
	scenario.TransportPct = 0
	scenario.PoliciesPct = 0
	scenario.EngineeringPct = 0
	scenario.Items = append(scenario.Items, Item{
		ID: "p1", Name: "Interventoría", CategoryID: "svc",
		IsPercentage: true, PctRate: 10, PctBase: PctBaseSubtotalBase, VATRate: 19,
	})

	summary := ComputeSummary(scenario)

	line, ok := summary.LineTotals["p1"]
	if !ok {
		t.Fatalf("percentage item missing from line totals")
	}
	if line.BaseLine != 300 {
		t.Fatalf("percentage base_line = %v, want 300 (10%% of 3000)", line.BaseLine)
	}
	// Percentage items never enter the direct cost block.
	if summary.DirectCostBase != 3000 {
		t.Fatalf("direct_cost_base = %v, want 3000", summary.DirectCostBase)
	}
	if !almostEqual(summary.TotalBase, 3300, 1e-9) {
		t.Fatalf("total_base = %v, want 3300", summary.TotalBase)
	}
}

func TestComputeSummary_EmptyScenarioIsAllZeros(t *testing.T) {
	summary := ComputeSummary(Scenario{})
	if summary.GrandTotal != 0 || summary.EPCTotal != 0 || summary.AIUTotal != 0 {
		t.Fatalf("empty scenario must produce zero totals, got %+v", summary)
	}
	if len(summary.LineTotals) != 0 {
		t.Fatalf("empty scenario must have no line totals")
	}
}

func TestComputeSummary_DirectSumStrategyWithVATOnProfit(t *testing.T) {
	scenario := summaryScenario()
	scenario.AIU.Strategy = StrategyTaxExclusiveSum
	scenario.VAT = VATConfig{VATOnProfit: true, ProfitVATRate: 19}

	summary := ComputeSummary(scenario)

	// i1+i2 bases: 1000 + 1000 = 2000.
	if summary.AIUBase != 2000 {
		t.Fatalf("aiu_base = %v, want 2000", summary.AIUBase)
	}
	wantProfit := 2000 * 0.07
	if !almostEqual(summary.AIUProfit, wantProfit, 1e-9) {
		t.Fatalf("aiu_profit = %v, want %v", summary.AIUProfit, wantProfit)
	}
	wantVATOnProfit := wantProfit * 0.19
	if !almostEqual(summary.VATOnProfit, wantVATOnProfit, 1e-9) {
		t.Fatalf("vat_on_profit = %v, want %v", summary.VATOnProfit, wantVATOnProfit)
	}
	if !almostEqual(summary.GrandTotal, summary.TotalDirect+summary.AIUTotal+summary.VATOnProfit, 1e-6) {
		t.Fatalf("grand_total must include vat on profit")
	}
}
