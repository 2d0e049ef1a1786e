package guard

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"
)

// RefusalMessage replaces output that fails validation or exceeds the
// length ceiling. Fixed and non-informative on purpose.
const RefusalMessage = "I cannot provide that information for security reasons."

// DefaultMaxOutputRunes is the output length ceiling.
const DefaultMaxOutputRunes = 5000

// disclosurePatterns flag signs of system-prompt disclosure: a system-role
// echo and verbatim enumerated instruction lists.
var disclosurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)SYSTEM\s*:\s*You\s+are`),
	regexp.MustCompile(`(?i)instructions?:\s*\d+\.`),
}

// OutputValidator scans model-produced text for system-prompt disclosure and
// enforces the length ceiling. Stateless; each call is independent.
type OutputValidator struct {
	maxRunes int
	priority int
}

// NewOutputValidator creates a validator. maxRunes <= 0 selects
// DefaultMaxOutputRunes.
func NewOutputValidator(maxRunes int) *OutputValidator {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxOutputRunes
	}
	return &OutputValidator{maxRunes: maxRunes, priority: 50}
}

// Name implements Validator.
func (v *OutputValidator) Name() string { return "output_validator" }

// Priority implements Validator.
func (v *OutputValidator) Priority() int { return v.priority }

// Safe reports whether the output shows no sign of prompt disclosure.
// Length is not considered here; Filter enforces the ceiling.
func (v *OutputValidator) Safe(output string) bool {
	for _, pattern := range disclosurePatterns {
		if pattern.MatchString(output) {
			return false
		}
	}
	return true
}

// Filter returns output unchanged when it is safe and within the length
// ceiling, and the fixed refusal message otherwise.
func (v *OutputValidator) Filter(output string) string {
	if !v.Safe(output) || utf8.RuneCountInString(output) > v.maxRunes {
		return RefusalMessage
	}
	return output
}

// Validate implements Validator, reporting both disclosure and oversize as
// structured errors.
func (v *OutputValidator) Validate(_ context.Context, content string) (*Result, error) {
	result := NewResult()

	if !v.Safe(content) {
		result.AddError(ValidationError{
			Code:     ErrCodeDisclosureDetected,
			Message:  "output resembles system prompt disclosure",
			Severity: SeverityCritical,
		})
	}
	if n := utf8.RuneCountInString(content); n > v.maxRunes {
		result.AddError(ValidationError{
			Code:     ErrCodeMaxLengthExceeded,
			Message:  fmt.Sprintf("output length %d exceeds ceiling %d", n, v.maxRunes),
			Severity: SeverityHigh,
		})
	}
	return result, nil
}
