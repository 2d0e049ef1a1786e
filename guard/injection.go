package guard

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// attackPatterns is the exact-match pass: canonical prompt-injection
// phrasings, matched case-insensitively. Compiled at init; a bad constant is
// a startup invariant violation, not a runtime condition.
var attackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?previous\s+instructions?`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|prior|above)\s+instructions?`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+(in\s+)?developer\s+mode`),
	regexp.MustCompile(`(?i)system\s+override`),
	regexp.MustCompile(`(?i)reveal\s+prompt`),
	regexp.MustCompile(`(?i)forget\s+everything\s+you\s+(know|learned|were\s+told)`),
}

// fuzzyTriggers is the typoglycemia trigger-word list. A word-boundary token
// counts as a scrambled variant of a trigger when both have equal length of
// at least 3, the same first and last character, and identical interior
// character multisets.
var fuzzyTriggers = []string{"ignore", "bypass", "override", "reveal", "delete", "system"}

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// InjectionDetectorConfig configures an InjectionDetector.
type InjectionDetectorConfig struct {
	// CustomPatterns are additional case-insensitive regexes for the exact
	// pass. Invalid patterns are rejected at construction.
	CustomPatterns []string
	// Priority is the validator chain priority.
	Priority int
}

// DefaultInjectionDetectorConfig returns the default configuration.
func DefaultInjectionDetectorConfig() *InjectionDetectorConfig {
	return &InjectionDetectorConfig{Priority: 50}
}

// InjectionDetector judges untrusted input for prompt-injection attempts:
// an exact regex pass over known attack phrasings, and a fuzzy pass that
// catches interior-letter scrambles of trigger words (typoglycemia attacks).
// Stateless and safe for concurrent use.
type InjectionDetector struct {
	patterns []*regexp.Regexp
	priority int
}

// NewInjectionDetector creates a detector with the built-in pattern set plus
// any custom patterns.
func NewInjectionDetector(config *InjectionDetectorConfig) (*InjectionDetector, error) {
	if config == nil {
		config = DefaultInjectionDetectorConfig()
	}

	patterns := make([]*regexp.Regexp, 0, len(attackPatterns)+len(config.CustomPatterns))
	patterns = append(patterns, attackPatterns...)
	for _, raw := range config.CustomPatterns {
		expr := raw
		if !strings.HasPrefix(expr, "(?i)") {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid injection pattern %q: %w", raw, err)
		}
		patterns = append(patterns, re)
	}

	return &InjectionDetector{patterns: patterns, priority: config.Priority}, nil
}

// Name implements Validator.
func (d *InjectionDetector) Name() string { return "injection_detector" }

// Priority implements Validator.
func (d *InjectionDetector) Priority() int { return d.priority }

// Detect reports whether text is a probable injection attempt. Either pass
// firing is a positive result.
func (d *InjectionDetector) Detect(text string) bool {
	for _, pattern := range d.patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return d.detectScrambled(text)
}

// detectScrambled runs the typoglycemia pass over word tokens.
func (d *InjectionDetector) detectScrambled(text string) bool {
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		for _, trigger := range fuzzyTriggers {
			if isScrambledVariant(word, trigger) {
				return true
			}
		}
	}
	return false
}

// isScrambledVariant reports whether word is a typoglycemia variant of
// target: equal length >= 3, same first and last character, identical
// interior character multiset. A verbatim trigger word matches itself.
func isScrambledVariant(word, target string) bool {
	if len(word) != len(target) || len(word) < 3 {
		return false
	}
	if word[0] != target[0] || word[len(word)-1] != target[len(target)-1] {
		return false
	}
	return sortedInterior(word) == sortedInterior(target)
}

func sortedInterior(s string) string {
	interior := []byte(s[1 : len(s)-1])
	sort.Slice(interior, func(i, j int) bool { return interior[i] < interior[j] })
	return string(interior)
}

// Validate implements Validator.
func (d *InjectionDetector) Validate(_ context.Context, content string) (*Result, error) {
	result := NewResult()
	if !d.Detect(content) {
		return result, nil
	}

	result.AddError(ValidationError{
		Code:     ErrCodeInjectionDetected,
		Message:  "probable prompt injection attempt detected",
		Severity: SeverityCritical,
	})
	result.Metadata["injection_detected"] = true
	return result, nil
}
