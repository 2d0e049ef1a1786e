// Package record defines the confidential record model and the sources
// that supply records to the leak scanner.
package record

// SentinelEntity is the placeholder entity name used when a caller scans a
// document against a single record without naming the entity. It is excluded
// from entity-name matching so the placeholder itself never counts as a leak.
const SentinelEntity = "Target Company"

// Risk category values.
const (
	RiskLow      = "Low"
	RiskMedium   = "Medium"
	RiskHigh     = "High"
	RiskCritical = "Critical"
)

// Product is one internal product line of an entity. RevenueNote carries
// free-form revenue commentary that must never surface in external documents.
type Product struct {
	Name        string `json:"name" yaml:"name"`
	RevenueNote string `json:"revenue_note,omitempty" yaml:"revenue_note,omitempty"`
}

// Partnership describes a confidential business relationship.
type Partnership struct {
	PartnerName      string `json:"partner_name" yaml:"partner_name"`
	RelationshipType string `json:"relationship_type,omitempty" yaml:"relationship_type,omitempty"`
	Details          string `json:"details,omitempty" yaml:"details,omitempty"`
}

// Record holds one entity's confidential fields. Every field is optional and
// independently absent; an all-empty record produces zero findings.
type Record struct {
	EntityName         string        `json:"entity_name" yaml:"entity_name"`
	Products           []Product     `json:"products,omitempty" yaml:"products,omitempty"`
	Partnerships       []Partnership `json:"partnerships,omitempty" yaml:"partnerships,omitempty"`
	Methodologies      []string      `json:"methodologies,omitempty" yaml:"methodologies,omitempty"`
	KPIs               []string      `json:"kpis,omitempty" yaml:"kpis,omitempty"`
	ClientProfiles     []string      `json:"client_profiles,omitempty" yaml:"client_profiles,omitempty"`
	FinancialEstimates string        `json:"financial_estimates,omitempty" yaml:"financial_estimates,omitempty"`
	ExpertiseAreas     []string      `json:"expertise_areas,omitempty" yaml:"expertise_areas,omitempty"`
	RiskCategory       string        `json:"risk_category,omitempty" yaml:"risk_category,omitempty"`
	Notes              string        `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Empty reports whether the record carries no confidential data at all.
func (r Record) Empty() bool {
	return len(r.Products) == 0 &&
		len(r.Partnerships) == 0 &&
		len(r.Methodologies) == 0 &&
		len(r.KPIs) == 0 &&
		len(r.ClientProfiles) == 0 &&
		r.FinancialEstimates == "" &&
		len(r.ExpertiseAreas) == 0 &&
		r.RiskCategory == "" &&
		r.Notes == "" &&
		(r.EntityName == "" || r.EntityName == SentinelEntity)
}
