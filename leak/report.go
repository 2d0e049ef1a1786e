package leak

import (
	"sort"

	"github.com/BaSui01/leakguard/record"
)

// Finding is one detected occurrence of confidential content inside a
// document. Findings with identical category, entity and detail collapse to
// a single entry.
type Finding struct {
	Category Category `json:"category"`
	Entity   string   `json:"entity"`
	Detail   string   `json:"detail"`
}

// Report is the severity-graded result of scanning one document against a
// record set. Findings are ordered by category priority, then first-seen.
type Report struct {
	Findings   []Finding `json:"findings"`
	TotalCount int       `json:"total_count"`
	Severity   Severity  `json:"severity"`
}

// BuildReport runs every category matcher over every record and assembles a
// deduplicated, severity-graded report. It is a pure function: no I/O, no
// shared state, safe for concurrent use.
//
// Records are visited in lexical entity order so reports are reproducible
// for the same inputs regardless of map iteration order.
func BuildReport(document string, records map[string]record.Record) Report {
	doc := NewDocument(document)
	matchers := Registry()

	entities := make([]string, 0, len(records))
	for name := range records {
		entities = append(entities, name)
	}
	sort.Strings(entities)

	buckets := make(map[Category][]Finding)
	for _, entity := range entities {
		rec := records[entity]
		if rec.EntityName == "" {
			rec.EntityName = entity
		}
		for _, match := range matchers {
			for _, f := range match(doc, rec) {
				buckets[f.Category] = append(buckets[f.Category], f)
			}
		}
	}

	var report Report
	seen := make(map[Finding]struct{})
	for _, category := range priorityOrder {
		for _, f := range buckets[category] {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			report.Findings = append(report.Findings, f)
		}
	}

	report.TotalCount = len(report.Findings)
	report.Severity = SeverityForCount(report.TotalCount)
	return report
}

// BuildReportForRecord scans a document against a single record without
// requiring the caller to name the entity. The sentinel entity name keeps
// the placeholder itself out of the entity_names category.
func BuildReportForRecord(document string, rec record.Record) Report {
	name := rec.EntityName
	if name == "" {
		name = record.SentinelEntity
		rec.EntityName = name
	}
	return BuildReport(document, map[string]record.Record{name: rec})
}
