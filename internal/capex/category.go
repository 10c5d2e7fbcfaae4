package capex

// AggregateByCategory groups the per-item totals by category id. Items
// whose category reference does not resolve land in the uncategorized
// sentinel group rather than erroring.
func AggregateByCategory(scenario Scenario, summary Summary) map[string]CategoryTotals {
	labels := make(map[string]string, len(scenario.Categories))
	for _, cat := range scenario.Categories {
		labels[cat.ID] = cat.Label
	}

	out := make(map[string]CategoryTotals)
	for _, item := range scenario.Items {
		key := item.CategoryID
		name, known := labels[key]
		if key == "" || !known {
			key = UncategorizedKey
			name = UncategorizedLabel
		}

		row := out[key]
		row.Name = name
		if totals, ok := summary.LineTotals[item.ID]; ok {
			row.Base += totals.BaseLine
			row.VAT += totals.VATLine
			row.Total += totals.TotalLine
		}
		out[key] = row
	}
	return out
}

// MergeByLabel collapses category aggregates that share a display label.
// Category ids are not stable across independently edited scenarios, so
// the comparison layer works on labels instead.
func MergeByLabel(byID map[string]CategoryTotals) map[string]CategoryTotals {
	out := make(map[string]CategoryTotals, len(byID))
	for _, row := range byID {
		name := row.Name
		if name == "" {
			name = UncategorizedLabel
		}
		merged := out[name]
		merged.Name = name
		merged.Base += row.Base
		merged.VAT += row.VAT
		merged.Total += row.Total
		out[name] = merged
	}
	return out
}
