package guard

import (
	"context"
	"regexp"
)

// RedactionMarker replaces attack phrasings in sanitized input.
const RedactionMarker = "[FILTERED]"

// DefaultMaxInputRunes caps sanitized input length.
const DefaultMaxInputRunes = 10000

var whitespaceRun = regexp.MustCompile(`\s+`)

// Sanitizer normalizes untrusted input before it reaches a downstream
// model: whitespace collapse, repetition-flood collapse, attack-phrase
// redaction and a length cap. Sanitize is total — it always succeeds and its
// output is safe to forward whether or not an attack was present.
type Sanitizer struct {
	detector *InjectionDetector
	maxRunes int
}

// NewSanitizer creates a sanitizer redacting the detector's exact-pass
// patterns. maxRunes <= 0 selects DefaultMaxInputRunes.
func NewSanitizer(detector *InjectionDetector, maxRunes int) *Sanitizer {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxInputRunes
	}
	return &Sanitizer{detector: detector, maxRunes: maxRunes}
}

// Sanitize applies, in order: whitespace-run collapse, collapse of runs of
// four or more identical characters, redaction of attack phrasings, and the
// length cap. Idempotent on already-clean input modulo the cap.
func (s *Sanitizer) Sanitize(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = collapseRuns(text, 4)

	for _, pattern := range s.detector.patterns {
		text = pattern.ReplaceAllString(text, RedactionMarker)
	}

	runes := []rune(text)
	if len(runes) > s.maxRunes {
		text = string(runes[:s.maxRunes])
	}
	return text
}

// Name implements Filter.
func (s *Sanitizer) Name() string { return "input_sanitizer" }

// Filter implements Filter.
func (s *Sanitizer) Filter(_ context.Context, content string) (string, error) {
	return s.Sanitize(content), nil
}

// collapseRuns reduces any run of at least threshold identical runes to a
// single occurrence. RE2 has no backreferences, so this is a linear scan.
func collapseRuns(text string, threshold int) string {
	runes := []rune(text)
	out := make([]rune, 0, len(runes))

	for i := 0; i < len(runes); {
		j := i
		for j < len(runes) && runes[j] == runes[i] {
			j++
		}
		if j-i >= threshold {
			out = append(out, runes[i])
		} else {
			out = append(out, runes[i:j]...)
		}
		i = j
	}
	return string(out)
}
