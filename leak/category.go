// Package leak implements the document-vs-record comparator: category
// matchers, finding deduplication, severity grading and report rendering.
//
// Matching is deliberately heuristic substring work, not semantic
// similarity. The severity thresholds are calibrated against the count of
// substring findings; changing the matching strategy silently changes what
// the grades mean.
package leak

// Category classifies a finding by the confidential field it came from.
type Category string

const (
	CategoryProductNames       Category = "product_names"
	CategoryPartnerships       Category = "partnerships"
	CategoryMethodologies      Category = "methodologies"
	CategoryKPIs               Category = "kpis"
	CategoryClientProfiles     Category = "client_profiles"
	CategoryFinancialEstimates Category = "financial_estimates"
	CategoryExpertiseAreas     Category = "expertise_areas"
	CategoryRiskCategories     Category = "risk_categories"
	CategoryNotesContent       Category = "notes_content"
	CategoryEntityNames        Category = "entity_names"
	CategorySensitiveMetrics   Category = "sensitive_metrics"
)

// priorityOrder fixes the rendering order of categories in a report, most
// damaging first. Matcher execution order never affects results; only this
// presentation order is pinned.
var priorityOrder = []Category{
	CategoryFinancialEstimates,
	CategorySensitiveMetrics,
	CategoryNotesContent,
	CategoryKPIs,
	CategoryProductNames,
	CategoryPartnerships,
	CategoryClientProfiles,
	CategoryRiskCategories,
	CategoryMethodologies,
	CategoryExpertiseAreas,
	CategoryEntityNames,
}

// displayNames maps categories to the headings used in rendered reports.
var displayNames = map[Category]string{
	CategoryFinancialEstimates: "Financial Information",
	CategorySensitiveMetrics:   "Sensitive Metrics",
	CategoryNotesContent:       "Confidential Business Information",
	CategoryKPIs:               "Key Performance Indicators",
	CategoryProductNames:       "Internal Product Names",
	CategoryPartnerships:       "Partnership Information",
	CategoryClientProfiles:     "Client Information",
	CategoryRiskCategories:     "Risk Classifications",
	CategoryMethodologies:      "Internal Methodologies",
	CategoryExpertiseAreas:     "Expertise Areas",
	CategoryEntityNames:        "Entity Names",
}

// Severity is the coarse risk grade of a report, derived purely from the
// number of deduplicated findings.
type Severity string

const (
	SeverityNone   Severity = "NONE"
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Severity thresholds: fixed policy constants, calibrated against the
// substring-count heuristic.
const (
	mediumThreshold = 5
	highThreshold   = 10
)

// SeverityForCount grades a finding count.
func SeverityForCount(count int) Severity {
	switch {
	case count >= highThreshold:
		return SeverityHigh
	case count >= mediumThreshold:
		return SeverityMedium
	case count >= 1:
		return SeverityLow
	default:
		return SeverityNone
	}
}
