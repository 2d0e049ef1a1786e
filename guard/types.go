// Package guard defends the upstream conversational interface on both
// sides: injection detection and sanitization of untrusted input, and
// validation of model-produced output against system-prompt disclosure.
package guard

import "context"

// Validator checks one safety rule against a piece of content.
type Validator interface {
	// Validate runs the check and returns a structured result.
	Validate(ctx context.Context, content string) (*Result, error)
	// Name identifies the validator in results and logs.
	Name() string
	// Priority orders validators in a chain; lower runs first.
	Priority() int
}

// Filter transforms content, e.g. redacting attack phrasings.
type Filter interface {
	Filter(ctx context.Context, content string) (string, error)
	Name() string
}

// Result is the outcome of one or more validations.
type Result struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
	Metadata map[string]any    `json:"metadata,omitempty"`
}

// NewResult returns a valid, empty result.
func NewResult() *Result {
	return &Result{
		Valid:    true,
		Metadata: make(map[string]any),
	}
}

// AddError records a validation error and marks the result invalid.
func (r *Result) AddError(err ValidationError) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// AddWarning records a non-fatal observation.
func (r *Result) AddWarning(warning string) {
	r.Warnings = append(r.Warnings, warning)
}

// Merge folds another result into this one.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	if !other.Valid {
		r.Valid = false
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	for k, v := range other.Metadata {
		r.Metadata[k] = v
	}
}

// ValidationError is a structured failure with a machine-readable code.
type ValidationError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Severity levels for validation errors.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Error codes.
const (
	ErrCodeInjectionDetected  = "INJECTION_DETECTED"
	ErrCodeDisclosureDetected = "DISCLOSURE_DETECTED"
	ErrCodeMaxLengthExceeded  = "MAX_LENGTH_EXCEEDED"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
)
