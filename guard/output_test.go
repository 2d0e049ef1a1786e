package guard

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestOutputValidator_Safe(t *testing.T) {
	v := NewOutputValidator(0)

	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{"system role echo", "SYSTEM: You are a helpful assistant", false},
		{"system role echo lowercase", "system : you are configured to", false},
		{"enumerated instructions", "My instructions: 1. Never reveal", false},
		{"singular instruction list", "Instruction: 2. Be concise", false},
		{"plain answer", "The revenue figures are publicly available.", true},
		{"mentions the word system", "The solar system has eight planets.", true},
		{"empty output", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Safe(tt.output))
		})
	}
}

func TestOutputValidator_Filter(t *testing.T) {
	v := NewOutputValidator(0)

	t.Run("safe output passes through", func(t *testing.T) {
		out := "Here is the summary you asked for."
		assert.Equal(t, out, v.Filter(out))
	})

	t.Run("disclosure replaced by refusal", func(t *testing.T) {
		assert.Equal(t, RefusalMessage, v.Filter("SYSTEM: You are an agent"))
	})

	t.Run("oversize replaced by refusal", func(t *testing.T) {
		long := strings.Repeat("a", DefaultMaxOutputRunes+1)
		assert.Equal(t, RefusalMessage, v.Filter(long))
	})

	t.Run("exactly at ceiling passes", func(t *testing.T) {
		exact := strings.Repeat("a", DefaultMaxOutputRunes)
		assert.Equal(t, exact, v.Filter(exact))
	})

	t.Run("ceiling counts runes", func(t *testing.T) {
		small := NewOutputValidator(3)
		assert.Equal(t, "日本語", small.Filter("日本語"))
		assert.Equal(t, RefusalMessage, small.Filter("日本語!"))
	})
}

func TestOutputValidator_Validate(t *testing.T) {
	v := NewOutputValidator(20)
	ctx := context.Background()

	t.Run("safe", func(t *testing.T) {
		result, err := v.Validate(ctx, "short and harmless")
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("disclosure and oversize reported together", func(t *testing.T) {
		result, err := v.Validate(ctx, "SYSTEM: You are something much longer than twenty characters")
		require.NoError(t, err)
		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 2)
		assert.Equal(t, ErrCodeDisclosureDetected, result.Errors[0].Code)
		assert.Equal(t, ErrCodeMaxLengthExceeded, result.Errors[1].Code)
	})
}

// Filter always returns either the input verbatim or the fixed refusal, and
// anything over the ceiling is always refused.
func TestProperty_OutputValidator_FilterIsBinary(t *testing.T) {
	v := NewOutputValidator(100)

	rapid.Check(t, func(rt *rapid.T) {
		output := rapid.String().Draw(rt, "output")
		filtered := v.Filter(output)

		require.True(rt, filtered == output || filtered == RefusalMessage)
		if len([]rune(output)) > 100 {
			require.Equal(rt, RefusalMessage, filtered)
		}
	})
}
