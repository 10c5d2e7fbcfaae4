package capex

// ComputeSummary derives the full financial picture of a scenario. The
// stage order is a contract, not an accident: percentage modules need the
// direct-cost aggregates, and the markup base may reference the combined
// module-inclusive total, so modules are always resolved before markup.
//
//  1. Per-item totals for non-percentage lines, split into EPC scope vs
//     client-provided purchases.
//  2. Resolve the percentage-module base from the configured rule.
//  3. Resolve the indirect modules and percentage items; fold them into the
//     combined totals.
//  4. Resolve the markup base and components.
//  5. Roll modules and markup into the EPC totals and compose the grand
//     total.
//
// Missing or zero configuration never faults; every field defaults to 0.
func ComputeSummary(scenario Scenario) Summary {
	summary := Summary{
		LineTotals: make(map[string]ItemTotals, len(scenario.Items)),
	}

	// Stage 1: direct costs.
	for _, item := range scenario.Items {
		if item.IsPercentage {
			continue
		}
		totals := ComputeItemTotals(item, scenario)
		summary.LineTotals[item.ID] = totals

		summary.DirectCostBase += totals.BaseLine
		summary.DirectCostVAT += totals.VATLine
		summary.DirectCostTotal += totals.TotalLine

		if item.ClientProvided {
			summary.ClientBase += totals.BaseLine
			summary.ClientVAT += totals.VATLine
			summary.ClientTotal += totals.TotalLine
		} else {
			summary.EPCBase += totals.BaseLine
			summary.EPCVAT += totals.VATLine
			summary.EPCTotal += totals.TotalLine
		}
	}

	// Stage 2: module base.
	moduleBase := resolvePctBase(scenario.PctBaseRule, summary)

	// Stage 3: indirect modules and percentage items.
	summary.Transport = ComputeModuleValue(scenario.TransportPct, moduleBase, scenario.DefaultVATRate)
	summary.Policies = ComputeModuleValue(scenario.PoliciesPct, moduleBase, scenario.DefaultVATRate)
	summary.Engineering = ComputeModuleValue(scenario.EngineeringPct, moduleBase, scenario.DefaultVATRate)

	summary.TotalBase = summary.DirectCostBase + summary.Transport.BaseLine + summary.Policies.BaseLine + summary.Engineering.BaseLine
	summary.TotalVAT = summary.DirectCostVAT + summary.Transport.VATLine + summary.Policies.VATLine + summary.Engineering.VATLine
	summary.TotalDirect = summary.DirectCostTotal + summary.Transport.TotalLine + summary.Policies.TotalLine + summary.Engineering.TotalLine

	for _, item := range scenario.Items {
		if !item.IsPercentage {
			continue
		}
		value := ComputePercentageItemValue(item, resolvePctBase(item.PctBase, summary))
		summary.LineTotals[item.ID] = ItemTotals{
			BaseLine:  value.BaseLine,
			VATLine:   value.VATLine,
			TotalLine: value.TotalLine,
		}

		summary.TotalBase += value.BaseLine
		summary.TotalVAT += value.VATLine
		summary.TotalDirect += value.TotalLine

		if item.ClientProvided {
			summary.ClientBase += value.BaseLine
			summary.ClientVAT += value.VATLine
			summary.ClientTotal += value.TotalLine
		} else {
			summary.EPCBase += value.BaseLine
			summary.EPCVAT += value.VATLine
			summary.EPCTotal += value.TotalLine
		}
	}

	// Stage 4: markup.
	markup := ResolveMarkup(scenario, summary.TotalDirect, summary.LineTotals)
	summary.AIUBase = markup.Base
	summary.AIUAdmin = markup.Admin
	summary.AIUContingency = markup.Contingency
	summary.AIUProfit = markup.Profit
	summary.AIUTotal = markup.Total
	summary.VATOnProfit = markup.VATOnProfit

	// Stage 5: roll modules and markup into the EPC scope, then compose
	// the grand total. Markup carries no VAT except the optional VAT on
	// the profit component.
	summary.EPCBase += summary.Transport.BaseLine + summary.Policies.BaseLine + summary.Engineering.BaseLine
	summary.EPCVAT += summary.Transport.VATLine + summary.Policies.VATLine + summary.Engineering.VATLine + summary.VATOnProfit
	summary.EPCTotal += summary.Transport.TotalLine + summary.Policies.TotalLine + summary.Engineering.TotalLine
	summary.EPCTotal += summary.AIUTotal + summary.VATOnProfit

	summary.GrandTotal = summary.TotalDirect + summary.AIUTotal + summary.VATOnProfit

	return summary
}

// resolvePctBase maps a percentage-base rule to the aggregate it applies
// to. The markup-base rule would be circular here (modules are computed
// before markup by contract) and falls back to the direct-cost base.
func resolvePctBase(rule PctBase, summary Summary) float64 {
	switch rule {
	case PctBaseSubtotalTotal:
		return summary.DirectCostTotal
	case PctBaseMarkup:
		return summary.DirectCostBase
	default:
		return summary.DirectCostBase
	}
}
