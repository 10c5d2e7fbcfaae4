// Package compare reconciles independently edited budget scenarios: it
// matches items across two scenarios, flags per-field changes, ranks the
// largest deltas and assembles the structured payload consumed by the
// narrative generator and the UI.
package compare

import (
	"sort"
	"strings"

	"github.com/delphienergia/capex-backend/internal/capex"
)

// Thresholds hold the change tolerances and payload bounds. They absorb
// floating-point noise so cosmetic rounding is not reported as a change.
type Thresholds struct {
	QtyTolerance     float64
	PriceTolerance   float64
	VATRateTolerance float64
	VATAnomalyMax    float64
	TopItems         int
}

// DefaultThresholds returns the standard business tolerances.
func DefaultThresholds() Thresholds {
	return Thresholds{
		QtyTolerance:     0.001,
		PriceTolerance:   0.01,
		VATRateTolerance: 0.1,
		VATAnomalyMax:    25,
		TopItems:         30,
	}
}

// MetricDelta is one compared aggregate.
type MetricDelta struct {
	A        float64 `json:"a"`
	B        float64 `json:"b"`
	Delta    float64 `json:"delta"`
	DeltaPct float64 `json:"delta_pct"`
}

// CategoryRow compares one label-merged category across both scenarios.
// Delta and DeltaPct are computed on the tax-exclusive base.
type CategoryRow struct {
	Category string  `json:"category"`
	BaseA    float64 `json:"base_a"`
	BaseB    float64 `json:"base_b"`
	Delta    float64 `json:"delta"`
	DeltaPct float64 `json:"delta_pct"`
	VATA     float64 `json:"vat_a"`
	VATB     float64 `json:"vat_b"`
	TotalA   float64 `json:"total_a"`
	TotalB   float64 `json:"total_b"`
}

// ItemChanges flags which fields moved between the paired items.
type ItemChanges struct {
	Qty           bool `json:"qty"`
	Price         bool `json:"price"`
	VATRate       bool `json:"vat_rate"`
	Incoterm      bool `json:"incoterm"`
	DeliveryPoint bool `json:"delivery_point"`
	Transport     bool `json:"transport"`
	Installation  bool `json:"installation"`
}

// TopItem is one ranked pair in the diff payload.
type TopItem struct {
	ItemCode string      `json:"item_code"`
	Name     string      `json:"name"`
	Category string      `json:"category"`
	QtyA     float64     `json:"qty_a"`
	QtyB     float64     `json:"qty_b"`
	PriceA   float64     `json:"price_a"`
	PriceB   float64     `json:"price_b"`
	BaseA    float64     `json:"base_a"`
	BaseB    float64     `json:"base_b"`
	Delta    float64     `json:"delta"`
	Changes  ItemChanges `json:"changes"`
}

// Anomaly is one informational data-quality finding.
type Anomaly struct {
	Type  string `json:"type"`
	Item  string `json:"item"`
	Issue string `json:"issue"`
}

// DiffPack is the full comparison payload. It is JSON-serializable and
// deterministic for identical inputs so it can be content-addressed.
type DiffPack struct {
	Totals     map[string]MetricDelta `json:"totals"`
	ByCategory []CategoryRow          `json:"by_category"`
	TopItems   []TopItem              `json:"top_items"`
	Anomalies  []Anomaly              `json:"anomalies"`
}

// Pair couples a matched item from each scenario. A nil side means the item
// exists only in the other scenario.
type Pair struct {
	A *capex.Item
	B *capex.Item
}

// NormalizeName lowercases, trims and collapses internal whitespace so
// cosmetic edits do not break name matching.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// MatchItems pairs items across two scenarios in two deterministic passes:
// exact case-sensitive code match first, then category plus normalized
// name. There is no fuzzy matching. Every item from both sides appears in
// exactly one pair.
func MatchItems(itemsA, itemsB []capex.Item) []Pair {
	pairs := make([]Pair, 0, len(itemsA)+len(itemsB))
	usedB := make(map[string]bool, len(itemsB))

	// Pass 1: exact code.
	for i := range itemsA {
		a := &itemsA[i]
		if a.Code == "" {
			pairs = append(pairs, Pair{A: a})
			continue
		}
		matched := false
		for j := range itemsB {
			b := &itemsB[j]
			if usedB[b.ID] || b.Code == "" {
				continue
			}
			if a.Code == b.Code {
				pairs = append(pairs, Pair{A: a, B: b})
				usedB[b.ID] = true
				matched = true
				break
			}
		}
		if !matched {
			pairs = append(pairs, Pair{A: a})
		}
	}

	// Pass 2: category + normalized name for the leftovers.
	for i := range pairs {
		if pairs[i].B != nil {
			continue
		}
		a := pairs[i].A
		nameA := NormalizeName(a.Name)
		if nameA == "" {
			continue
		}
		for j := range itemsB {
			b := &itemsB[j]
			if usedB[b.ID] {
				continue
			}
			if a.CategoryID == b.CategoryID && nameA == NormalizeName(b.Name) {
				pairs[i].B = b
				usedB[b.ID] = true
				break
			}
		}
	}

	// Items present only in B.
	for j := range itemsB {
		b := &itemsB[j]
		if !usedB[b.ID] {
			pairs = append(pairs, Pair{B: b})
		}
	}

	return pairs
}

// DeltaPct computes a percentage change with the degenerate cases pinned:
// both zero is 0, growth from zero is clamped to 100.
func DeltaPct(a, b float64) float64 {
	if a == 0 {
		if b == 0 {
			return 0.0
		}
		return 100.0
	}
	return (b - a) / a * 100.0
}

func metric(a, b float64) MetricDelta {
	return MetricDelta{A: a, B: b, Delta: b - a, DeltaPct: DeltaPct(a, b)}
}

// BuildDiffPack assembles the comparison payload from two scenarios and
// their precomputed summaries.
func BuildDiffPack(scenarioA capex.Scenario, summaryA capex.Summary, scenarioB capex.Scenario, summaryB capex.Summary, thresholds Thresholds) DiffPack {
	modulesBaseA := summaryA.Transport.BaseLine + summaryA.Policies.BaseLine + summaryA.Engineering.BaseLine
	modulesBaseB := summaryB.Transport.BaseLine + summaryB.Policies.BaseLine + summaryB.Engineering.BaseLine
	modulesTotalA := summaryA.Transport.TotalLine + summaryA.Policies.TotalLine + summaryA.Engineering.TotalLine
	modulesTotalB := summaryB.Transport.TotalLine + summaryB.Policies.TotalLine + summaryB.Engineering.TotalLine

	totals := map[string]MetricDelta{
		"direct_cost_base":  metric(summaryA.DirectCostBase, summaryB.DirectCostBase),
		"direct_cost_vat":   metric(summaryA.DirectCostVAT, summaryB.DirectCostVAT),
		"direct_cost_total": metric(summaryA.DirectCostTotal, summaryB.DirectCostTotal),
		"modules_base":      metric(modulesBaseA, modulesBaseB),
		"modules_total":     metric(modulesTotalA, modulesTotalB),
		"aiu_total":         metric(summaryA.AIUTotal, summaryB.AIUTotal),
		"epc_total":         metric(summaryA.EPCTotal, summaryB.EPCTotal),
		"capex_total":       metric(summaryA.GrandTotal, summaryB.GrandTotal),
	}

	byCategory := buildCategoryRows(scenarioA, summaryA, scenarioB, summaryB)
	topItems := buildTopItems(scenarioA, summaryA, scenarioB, summaryB, thresholds)
	anomalies := DetectAnomalies(scenarioA, scenarioB, thresholds)

	return DiffPack{
		Totals:     totals,
		ByCategory: byCategory,
		TopItems:   topItems,
		Anomalies:  anomalies,
	}
}

func buildCategoryRows(scenarioA capex.Scenario, summaryA capex.Summary, scenarioB capex.Scenario, summaryB capex.Summary) []CategoryRow {
	byNameA := capex.MergeByLabel(capex.AggregateByCategory(scenarioA, summaryA))
	byNameB := capex.MergeByLabel(capex.AggregateByCategory(scenarioB, summaryB))

	names := make([]string, 0, len(byNameA)+len(byNameB))
	seen := make(map[string]bool)
	for name := range byNameA {
		seen[name] = true
		names = append(names, name)
	}
	for name := range byNameB {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	rows := make([]CategoryRow, 0, len(names))
	for _, name := range names {
		catA := byNameA[name]
		catB := byNameB[name]
		rows = append(rows, CategoryRow{
			Category: name,
			BaseA:    catA.Base,
			BaseB:    catB.Base,
			Delta:    catB.Base - catA.Base,
			DeltaPct: DeltaPct(catA.Base, catB.Base),
			VATA:     catA.VAT,
			VATB:     catB.VAT,
			TotalA:   catA.Total,
			TotalB:   catB.Total,
		})
	}
	return rows
}

func buildTopItems(scenarioA capex.Scenario, summaryA capex.Summary, scenarioB capex.Scenario, summaryB capex.Summary, thresholds Thresholds) []TopItem {
	categoryLabels := make(map[string]string, len(scenarioA.Categories))
	for _, cat := range scenarioA.Categories {
		categoryLabels[cat.ID] = cat.Label
	}

	pairs := MatchItems(scenarioA.Items, scenarioB.Items)
	items := make([]TopItem, 0, len(pairs))

	for _, pair := range pairs {
		switch {
		case pair.A == nil:
			baseB := summaryB.LineTotals[pair.B.ID].BaseLine
			items = append(items, TopItem{
				ItemCode: pair.B.Code,
				Name:     pair.B.Name,
				Category: "Solo en B",
				QtyB:     pair.B.Qty,
				PriceB:   pair.B.UnitPrice,
				BaseB:    baseB,
				Delta:    baseB,
				Changes:  ItemChanges{Qty: true, Price: true},
			})
		case pair.B == nil:
			baseA := summaryA.LineTotals[pair.A.ID].BaseLine
			items = append(items, TopItem{
				ItemCode: pair.A.Code,
				Name:     pair.A.Name,
				Category: "Solo en A",
				QtyA:     pair.A.Qty,
				PriceA:   pair.A.UnitPrice,
				BaseA:    baseA,
				Delta:    -baseA,
				Changes:  ItemChanges{Qty: true, Price: true},
			})
		default:
			a, b := pair.A, pair.B
			baseA := summaryA.LineTotals[a.ID].BaseLine
			baseB := summaryB.LineTotals[b.ID].BaseLine

			category := capex.UncategorizedLabel
			if label, ok := categoryLabels[a.CategoryID]; ok {
				category = label
			}

			code := a.Code
			if code == "" {
				code = b.Code
			}

			items = append(items, TopItem{
				ItemCode: code,
				Name:     a.Name,
				Category: category,
				QtyA:     a.Qty,
				QtyB:     b.Qty,
				PriceA:   a.UnitPrice,
				PriceB:   b.UnitPrice,
				BaseA:    baseA,
				BaseB:    baseB,
				Delta:    baseB - baseA,
				Changes: ItemChanges{
					Qty:           abs(a.Qty-b.Qty) > thresholds.QtyTolerance,
					Price:         abs(a.UnitPrice-b.UnitPrice) > thresholds.PriceTolerance,
					VATRate:       abs(a.VATRate-b.VATRate) > thresholds.VATRateTolerance,
					Incoterm:      a.Incoterm != b.Incoterm,
					DeliveryPoint: a.DeliveryPoint != b.DeliveryPoint,
					Transport:     a.IncludesTransport != b.IncludesTransport,
					Installation:  a.IncludesInstallation != b.IncludesInstallation,
				},
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return abs(items[i].Delta) > abs(items[j].Delta)
	})

	limit := thresholds.TopItems
	if limit <= 0 {
		limit = DefaultThresholds().TopItems
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
