package narrative

// Analysis is the structured narrative returned by the model.
type Analysis struct {
	ExecutiveSummary    []string            `json:"executive_summary"`
	MainDrivers         []Driver            `json:"main_drivers"`
	RootCauses          []RootCause         `json:"root_causes"`
	RedFlags            []RedFlag           `json:"red_flags"`
	RecommendedActions  []RecommendedAction `json:"recommended_actions"`
	QuestionsToValidate []string            `json:"questions_to_validate"`
}

// Driver is one cost driver the model identified.
type Driver struct {
	Title       string  `json:"title"`
	ImpactCOP   float64 `json:"impact_cop"`
	Explanation string  `json:"explanation"`
}

// RootCause classifies why a delta exists.
type RootCause struct {
	Cause   string `json:"cause"`
	Details string `json:"details"`
}

// RedFlag is a risk the model wants surfaced.
type RedFlag struct {
	Severity     string `json:"severity"`
	Issue        string `json:"issue"`
	WhyItMatters string `json:"why_it_matters"`
}

// RecommendedAction is a follow-up the model proposes.
type RecommendedAction struct {
	Action         string `json:"action"`
	ExpectedImpact string `json:"expected_impact"`
	Who            string `json:"who"`
}

// Result wraps an analysis with its cache provenance.
type Result struct {
	Hash      string   `json:"hash"`
	FromCache bool     `json:"from_cache"`
	Timestamp string   `json:"timestamp"`
	Analysis  Analysis `json:"analysis"`
}
