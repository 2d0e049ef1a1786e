package leak

import (
	"fmt"
	"strings"
)

// RenderText formats a report as the human-readable security assessment
// attached to scan responses and printed by the CLI.
func RenderText(report Report) string {
	var b strings.Builder
	b.WriteString("=== SECURITY REPORT: INTERNAL INFORMATION DETECTION ===\n")

	if report.TotalCount == 0 {
		b.WriteString("\nNo internal information detected in the document.\n")
		b.WriteString("The document appears safe for external sharing.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "\n%s RISK: %d potential information leak(s) detected!\n",
		report.Severity, report.TotalCount)

	for _, category := range priorityOrder {
		var lines []string
		for _, f := range report.Findings {
			if f.Category == category {
				lines = append(lines, fmt.Sprintf("  - %s: %s", f.Entity, f.Detail))
			}
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", displayNames[category])
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\n" + strings.Repeat("=", 60) + "\n")
	b.WriteString("RECOMMENDATIONS:\n")
	switch report.Severity {
	case SeverityHigh:
		b.WriteString("DO NOT SHARE externally without review.\n")
		b.WriteString("Requires immediate security review.\n")
	case SeverityMedium:
		b.WriteString("Requires review before external sharing.\n")
		b.WriteString("Consider redacting sensitive information.\n")
	default:
		b.WriteString("Minor concerns - review recommended.\n")
	}
	b.WriteString("Verify all flagged information is appropriate for the target audience.\n")

	return b.String()
}
