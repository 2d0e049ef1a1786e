// Package leakguard provides a top-level convenience entry point wiring the
// leak scanner and the input/output guard together.
//
// Usage:
//
//	import "github.com/BaSui01/leakguard"
//
//	eng, err := leakguard.New(leakguard.WithSource(src))
//	if eng.DetectInjection(userText) { ... }
//	clean := eng.SanitizeInput(userText)
//	report, err := eng.BuildLeakReport(ctx, document)
//	safe := eng.FilterOutput(modelText)
//
// Every operation is a synchronous pure computation over the provided
// inputs; the record source is the only external dependency and is
// read-only.
package leakguard

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BaSui01/leakguard/guard"
	"github.com/BaSui01/leakguard/leak"
	"github.com/BaSui01/leakguard/record"
)

// Engine bundles the four entry points the upstream conversational
// interface calls: injection detection, input sanitization, leak report
// construction and output filtering.
type Engine struct {
	detector  *guard.InjectionDetector
	sanitizer *guard.Sanitizer
	output    *guard.OutputValidator
	scanner   *leak.Scanner
	logger    *zap.Logger

	maxInputRunes  int
	maxOutputRunes int
	customPatterns []string
	concurrency    int
	source         record.Source
}

// Option configures the engine created by New.
type Option func(*Engine)

// WithSource sets the confidential record source. Required for
// BuildLeakReport; the caller owns the source's lifetime.
func WithSource(source record.Source) Option {
	return func(e *Engine) { e.source = source }
}

// WithLogger sets a custom zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMaxInputLength overrides the sanitizer length cap (runes).
func WithMaxInputLength(n int) Option {
	return func(e *Engine) { e.maxInputRunes = n }
}

// WithMaxOutputLength overrides the output length ceiling (runes).
func WithMaxOutputLength(n int) Option {
	return func(e *Engine) { e.maxOutputRunes = n }
}

// WithCustomPatterns adds extra injection patterns to the exact pass.
func WithCustomPatterns(patterns ...string) Option {
	return func(e *Engine) { e.customPatterns = append(e.customPatterns, patterns...) }
}

// WithScanConcurrency bounds parallel document scans.
func WithScanConcurrency(n int) Option {
	return func(e *Engine) { e.concurrency = n }
}

// New assembles an engine. Without WithSource, leak scanning operates only
// through BuildLeakReportFor with caller-provided records.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:      zap.NewNop(),
		concurrency: 8,
	}
	for _, opt := range opts {
		opt(e)
	}

	detector, err := guard.NewInjectionDetector(&guard.InjectionDetectorConfig{
		CustomPatterns: e.customPatterns,
		Priority:       50,
	})
	if err != nil {
		return nil, err
	}
	e.detector = detector
	e.sanitizer = guard.NewSanitizer(detector, e.maxInputRunes)
	e.output = guard.NewOutputValidator(e.maxOutputRunes)

	if e.source != nil {
		e.scanner = leak.NewScanner(e.source,
			leak.WithLogger(e.logger),
			leak.WithConcurrency(e.concurrency),
		)
	}
	return e, nil
}

// DetectInjection reports whether untrusted input is a probable
// prompt-injection attempt.
func (e *Engine) DetectInjection(text string) bool {
	return e.detector.Detect(text)
}

// SanitizeInput normalizes and neutralizes untrusted input. Total function.
func (e *Engine) SanitizeInput(text string) string {
	return e.sanitizer.Sanitize(text)
}

// BuildLeakReport scans a document against the configured record source.
// Naming entities restricts the scan; otherwise every record is checked.
func (e *Engine) BuildLeakReport(ctx context.Context, document string, entities ...string) (leak.Report, error) {
	if e.scanner == nil {
		return leak.Report{}, errors.New("no record source configured")
	}
	return e.scanner.Scan(ctx, document, entities...)
}

// BuildLeakReportFor scans a document against caller-provided records
// without touching the configured source. Pure.
func (e *Engine) BuildLeakReportFor(document string, records map[string]record.Record) leak.Report {
	return leak.BuildReport(document, records)
}

// ValidateOutput reports whether model-produced text is free of
// system-prompt disclosure signs.
func (e *Engine) ValidateOutput(text string) bool {
	return e.output.Safe(text)
}

// FilterOutput passes safe output through unchanged and substitutes the
// fixed refusal message for unsafe or oversized output.
func (e *Engine) FilterOutput(text string) string {
	return e.output.Filter(text)
}

// Scanner exposes the underlying scanner for bulk fan-out, or nil when no
// source is configured.
func (e *Engine) Scanner() *leak.Scanner {
	return e.scanner
}
