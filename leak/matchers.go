package leak

import (
	"regexp"
	"strings"

	"github.com/BaSui01/leakguard/record"
)

// Document carries the two views every matcher needs: the raw text for
// case-sensitive numeric checks and the lowercased text for everything else.
type Document struct {
	Raw   string
	Lower string
}

// NewDocument prepares a document for matching.
func NewDocument(text string) Document {
	return Document{Raw: text, Lower: strings.ToLower(text)}
}

// Matcher inspects one confidential field category of a record against a
// document and returns zero or more findings. Matchers are pure, stateless
// and independent; a matcher may emit findings for a derived category (the
// products matcher also emits sensitive_metrics).
type Matcher func(doc Document, rec record.Record) []Finding

// Registry returns the built-in matcher set keyed by the category each
// matcher owns. sensitive_metrics has no entry of its own: those findings are
// derived from product revenue notes by the product_names matcher.
func Registry() map[Category]Matcher {
	return map[Category]Matcher{
		CategoryEntityNames:        matchEntityName,
		CategoryProductNames:       matchProducts,
		CategoryPartnerships:       matchPartnerships,
		CategoryMethodologies:      listMatcher(CategoryMethodologies, func(r record.Record) []string { return r.Methodologies }),
		CategoryClientProfiles:     listMatcher(CategoryClientProfiles, func(r record.Record) []string { return r.ClientProfiles }),
		CategoryExpertiseAreas:     listMatcher(CategoryExpertiseAreas, func(r record.Record) []string { return r.ExpertiseAreas }),
		CategoryKPIs:               matchKPIs,
		CategoryFinancialEstimates: matchFinancialEstimates,
		CategoryRiskCategories:     matchRiskCategory,
		CategoryNotesContent:       matchNotes,
	}
}

// kpiPattern splits a KPI string into a leading metric name and a trailing
// numeric value with optional percent suffix, e.g. "Customer Retention 87%".
var kpiPattern = regexp.MustCompile(`^([A-Za-z\s]+)\s+(\d+%?)`)

// currencyPattern extracts currency tokens such as "$50M ARR" or "$3B" from a
// financial estimate field.
var currencyPattern = regexp.MustCompile(`\$\d+[MBK]?\s*\w*`)

// sensitivePhrases is the fixed vocabulary checked against the notes field.
// A phrase only counts when it appears in both the notes and the document:
// these are common business words, so presence in the document alone proves
// nothing.
var sensitivePhrases = []string{
	"strategic partnerships",
	"regulatory pressures",
	"operational challenges",
	"financial projections",
	"material costs",
	"regulatory compliance",
	"market presence",
	"competitive advantages",
	"innovation",
	"pricing",
}

func matchEntityName(doc Document, rec record.Record) []Finding {
	name := rec.EntityName
	if name == "" || name == record.SentinelEntity {
		return nil
	}
	if !strings.Contains(doc.Lower, strings.ToLower(name)) {
		return nil
	}
	return []Finding{{Category: CategoryEntityNames, Entity: name, Detail: name}}
}

func matchProducts(doc Document, rec record.Record) []Finding {
	var findings []Finding
	for _, product := range rec.Products {
		if product.Name != "" && strings.Contains(doc.Lower, strings.ToLower(product.Name)) {
			findings = append(findings, Finding{
				Category: CategoryProductNames,
				Entity:   rec.EntityName,
				Detail:   product.Name,
			})
		}

		// Any single token of the revenue note surfacing in the document is
		// enough: partial revenue figures still leak.
		if product.RevenueNote == "" {
			continue
		}
		for _, token := range strings.Fields(product.RevenueNote) {
			if strings.Contains(doc.Lower, strings.ToLower(token)) {
				findings = append(findings, Finding{
					Category: CategorySensitiveMetrics,
					Entity:   rec.EntityName,
					Detail:   "Product revenue - " + product.RevenueNote,
				})
				break
			}
		}
	}
	return findings
}

func matchPartnerships(doc Document, rec record.Record) []Finding {
	var findings []Finding
	for _, p := range rec.Partnerships {
		if p.PartnerName != "" && strings.Contains(doc.Lower, strings.ToLower(p.PartnerName)) {
			findings = append(findings, Finding{
				Category: CategoryPartnerships,
				Entity:   rec.EntityName,
				Detail:   p.PartnerName,
			})
		}

		// Details shorter than a sentence carry no distinctive phrase worth
		// matching; longer ones are fingerprinted by their opening words.
		if len(p.Details) > 20 {
			words := strings.Fields(strings.ToLower(p.Details))
			if len(words) > 10 {
				words = words[:10]
			}
			phrase := strings.Join(words, " ")
			if phrase != "" && strings.Contains(doc.Lower, phrase) {
				findings = append(findings, Finding{
					Category: CategoryPartnerships,
					Entity:   rec.EntityName,
					Detail:   "Partnership details with " + p.PartnerName,
				})
			}
		}
	}
	return findings
}

// listMatcher builds a matcher for the plain string-set categories.
func listMatcher(category Category, field func(record.Record) []string) Matcher {
	return func(doc Document, rec record.Record) []Finding {
		var findings []Finding
		for _, value := range field(rec) {
			if value != "" && strings.Contains(doc.Lower, strings.ToLower(value)) {
				findings = append(findings, Finding{
					Category: category,
					Entity:   rec.EntityName,
					Detail:   value,
				})
			}
		}
		return findings
	}
}

func matchKPIs(doc Document, rec record.Record) []Finding {
	var findings []Finding
	for _, kpi := range rec.KPIs {
		if kpi == "" {
			continue
		}

		flag := func() {
			findings = append(findings, Finding{
				Category: CategoryKPIs,
				Entity:   rec.EntityName,
				Detail:   kpi,
			})
		}

		// Structured check: metric name case-insensitively, or the literal
		// value case-sensitively (numeric tokens are not case-folded).
		if m := kpiPattern.FindStringSubmatch(kpi); m != nil {
			metricName := strings.ToLower(strings.TrimSpace(m[1]))
			value := m[2]
			if metricName != "" && strings.Contains(doc.Lower, metricName) {
				flag()
			} else if strings.Contains(doc.Raw, value) {
				flag()
			}
		}

		// Whole-string check runs regardless of the split; overlapping hits
		// collapse in the report's dedupe step. Malformed KPI strings fall
		// back to this check alone.
		if strings.Contains(doc.Lower, strings.ToLower(kpi)) {
			flag()
		}
	}
	return findings
}

func matchFinancialEstimates(doc Document, rec record.Record) []Finding {
	estimate := rec.FinancialEstimates
	if estimate == "" {
		return nil
	}

	var findings []Finding
	for _, token := range currencyPattern.FindAllString(estimate, -1) {
		if strings.Contains(doc.Lower, strings.ToLower(token)) {
			findings = append(findings, Finding{
				Category: CategoryFinancialEstimates,
				Entity:   rec.EntityName,
				Detail:   estimate,
			})
			break
		}
	}

	// An ARR mention is flagged separately from the currency figure; both
	// surfacing together means two distinct disclosures.
	if strings.Contains(strings.ToLower(estimate), "arr") && strings.Contains(doc.Lower, "arr") {
		findings = append(findings, Finding{
			Category: CategoryFinancialEstimates,
			Entity:   rec.EntityName,
			Detail:   "ARR reference: " + estimate,
		})
	}
	return findings
}

func matchRiskCategory(doc Document, rec record.Record) []Finding {
	if rec.RiskCategory == "" || !strings.Contains(doc.Lower, strings.ToLower(rec.RiskCategory)) {
		return nil
	}
	return []Finding{{
		Category: CategoryRiskCategories,
		Entity:   rec.EntityName,
		Detail:   rec.RiskCategory,
	}}
}

func matchNotes(doc Document, rec record.Record) []Finding {
	if rec.Notes == "" {
		return nil
	}

	notes := strings.ToLower(rec.Notes)
	var findings []Finding
	for _, phrase := range sensitivePhrases {
		if strings.Contains(notes, phrase) && strings.Contains(doc.Lower, phrase) {
			findings = append(findings, Finding{
				Category: CategoryNotesContent,
				Entity:   rec.EntityName,
				Detail:   "Contains sensitive business information about " + phrase,
			})
		}
	}
	return findings
}
