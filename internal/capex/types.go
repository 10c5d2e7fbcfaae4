// Package capex implements the financial calculation engine for solar-power
// budget scenarios: per-item tax math, percentage modules, AIU markup
// resolution, category aggregation and normalization metrics.
package capex

// BaseRule selects which items contribute to the markup base.
type BaseRule string

const (
	// BaseRuleDirectCosts includes every markup-eligible item, excluding
	// client-provided and pass-through lines.
	BaseRuleDirectCosts BaseRule = "direct_costs_excl_vat"
	// BaseRuleExclClientProvided includes everything except client-provided
	// and pass-through lines, ignoring per-item eligibility.
	BaseRuleExclClientProvided BaseRule = "direct_costs_excl_client_provided"
	// BaseRuleServicesLabor is BaseRuleDirectCosts minus items whose
	// category is flagged as equipment.
	BaseRuleServicesLabor BaseRule = "only_services_labor"
)

// BaseStrategy selects how the markup base is derived from the included items.
type BaseStrategy string

const (
	// StrategyTaxExclusiveSum sums the tax-exclusive line bases of the
	// included items.
	StrategyTaxExclusiveSum BaseStrategy = "tax_exclusive_sum"
	// StrategyProportionalInclusive applies an inclusion factor to the
	// combined tax-inclusive total of direct and indirect costs.
	StrategyProportionalInclusive BaseStrategy = "proportional_tax_inclusive"
)

// PctBase selects the aggregate a percentage rate applies to.
type PctBase string

const (
	PctBaseSubtotalBase  PctBase = "subtotal_base"
	PctBaseSubtotalTotal PctBase = "subtotal_total"
	PctBaseMarkup        PctBase = "markup_base"
)

// PricingMode selects how an item's line value is derived.
type PricingMode string

const (
	PricingModeUnit   PricingMode = "unit"
	PricingModePerKWp PricingMode = "per_kwp"
)

// Incoterm values carried for anomaly detection and display only.
const (
	IncotermEXW = "EXW"
	IncotermFOB = "FOB"
	IncotermCIF = "CIF"
	IncotermDDP = "DDP"
	IncotermNA  = "NA"
)

// Delivery points carried for anomaly detection and display only.
const (
	DeliveryPort      = "port"
	DeliveryWarehouse = "warehouse"
	DeliverySite      = "site"
	DeliveryInstalled = "installed"
)

// AIUFactors are per-item markup scaling factors, 0-100 each. A nil value
// means the item contributes at 100% when eligible.
type AIUFactors struct {
	AdminPct       float64 `json:"admin_pct"`
	ContingencyPct float64 `json:"contingency_pct"`
	ProfitPct      float64 `json:"profit_pct"`
}

// Item is a single budget line.
type Item struct {
	ID               string      `json:"item_id"`
	Code             string      `json:"item_code,omitempty"`
	CategoryID       string      `json:"category_id"`
	Name             string      `json:"name"`
	Description      string      `json:"description,omitempty"`
	Unit             string      `json:"unit"`
	Qty              float64     `json:"qty"`
	UnitPrice        float64     `json:"unit_price"`
	PricingMode      PricingMode `json:"pricing_mode,omitempty"`
	PriceIncludesVAT bool        `json:"price_includes_vat"`
	VATRate          float64     `json:"vat_rate"`
	AIUApplicable    bool        `json:"aiu_applicable"`
	AIUFactors       *AIUFactors `json:"aiu_factors,omitempty"`
	ClientProvided   bool        `json:"client_provided"`
	PassThrough      bool        `json:"pass_through"`
	IsPercentage     bool        `json:"is_percentage_item"`
	PctRate          float64     `json:"pct_rate,omitempty"`
	PctBase          PctBase     `json:"pct_base,omitempty"`
	Order            int         `json:"order"`
	DeliveryPoint    string      `json:"delivery_point,omitempty"`
	Incoterm         string      `json:"incoterm,omitempty"`
	IncludesTransport    bool    `json:"includes_transport_to_site"`
	IncludesInstallation bool    `json:"includes_installation"`
	IncludesCommissioning bool   `json:"includes_commissioning"`
	Notes            string      `json:"notes,omitempty"`
}

// Category groups items; IsEquipment excludes it from the services-only
// markup policy.
type Category struct {
	ID          string `json:"category_id"`
	Label       string `json:"label"`
	IsEquipment bool   `json:"is_equipment"`
}

// AIUConfig holds the scenario's markup configuration.
type AIUConfig struct {
	Enabled        bool         `json:"enabled"`
	AdminPct       float64      `json:"admin_pct"`
	ContingencyPct float64      `json:"contingency_pct"`
	ProfitPct      float64      `json:"profit_pct"`
	BaseRule       BaseRule     `json:"base_rule"`
	Strategy       BaseStrategy `json:"strategy"`
}

// VATConfig holds the optional VAT-on-profit toggle.
type VATConfig struct {
	VATOnProfit   bool    `json:"vat_on_profit"`
	ProfitVATRate float64 `json:"profit_vat_rate"`
}

// Variables are project-level figures used only for normalization and
// per-kWp pricing, never for tax math.
type Variables struct {
	FXRate     float64 `json:"fx_rate,omitempty"`
	DCPowerKWp float64 `json:"dc_power_kwp"`
	ACPowerMW  float64 `json:"ac_power_mw"`
	P50MWhYear float64 `json:"p50_mwh_year"`
	P90MWhYear float64 `json:"p90_mwh_year"`
}

// Scenario is an immutable snapshot of one budget alternative.
type Scenario struct {
	ID               string     `json:"scenario_id"`
	Name             string     `json:"name"`
	Currency         string     `json:"currency"`
	PricesIncludeVAT bool       `json:"prices_include_vat"`
	DefaultVATRate   float64    `json:"default_vat_rate"`
	AIU              AIUConfig  `json:"aiu"`
	VAT              VATConfig  `json:"vat"`
	TransportPct     float64    `json:"transport_pct"`
	PoliciesPct      float64    `json:"policies_pct"`
	EngineeringPct   float64    `json:"engineering_pct"`
	PctBaseRule      PctBase    `json:"pct_base_rule"`
	Variables        Variables  `json:"variables"`
	Categories       []Category `json:"categories"`
	Items            []Item     `json:"items"`
}

// ItemTotals carries the six derived amounts for one line.
type ItemTotals struct {
	BaseUnit  float64 `json:"base_unit"`
	VATUnit   float64 `json:"vat_unit"`
	TotalUnit float64 `json:"total_unit"`
	BaseLine  float64 `json:"base_line"`
	VATLine   float64 `json:"vat_line"`
	TotalLine float64 `json:"total_line"`
}

// ModuleTotals carries the line amounts of a percentage module or item.
type ModuleTotals struct {
	BaseLine  float64 `json:"base_line"`
	VATLine   float64 `json:"vat_line"`
	TotalLine float64 `json:"total_line"`
}

// Summary is the full derived financial picture of one scenario. It is a
// value object: recomputed on every mutation and never updated in place.
type Summary struct {
	DirectCostBase  float64 `json:"direct_cost_base"`
	DirectCostVAT   float64 `json:"direct_cost_vat"`
	DirectCostTotal float64 `json:"direct_cost_total"`

	TotalBase   float64 `json:"total_base"`
	TotalVAT    float64 `json:"total_vat"`
	TotalDirect float64 `json:"total_direct"`

	Transport   ModuleTotals `json:"transport"`
	Policies    ModuleTotals `json:"policies"`
	Engineering ModuleTotals `json:"engineering"`

	AIUBase        float64 `json:"aiu_base"`
	AIUAdmin       float64 `json:"aiu_admin"`
	AIUContingency float64 `json:"aiu_contingency"`
	AIUProfit      float64 `json:"aiu_profit"`
	AIUTotal       float64 `json:"aiu_total"`
	VATOnProfit    float64 `json:"vat_on_profit"`

	EPCBase  float64 `json:"epc_base"`
	EPCVAT   float64 `json:"epc_vat"`
	EPCTotal float64 `json:"epc_total"`

	ClientBase  float64 `json:"client_capex_base"`
	ClientVAT   float64 `json:"client_capex_vat"`
	ClientTotal float64 `json:"client_capex_total"`

	GrandTotal float64 `json:"grand_total"`

	LineTotals map[string]ItemTotals `json:"items_totals"`
}

// CategoryTotals is one aggregated row of base/vat/total for a category.
type CategoryTotals struct {
	Name  string  `json:"name"`
	Base  float64 `json:"base"`
	VAT   float64 `json:"vat"`
	Total float64 `json:"total"`
}

// UncategorizedKey is the sentinel grouping key for items whose category
// reference does not resolve.
const UncategorizedKey = "uncategorized"

// UncategorizedLabel is the display label for the sentinel group.
const UncategorizedLabel = "Sin categoría"
