package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *string
	}{
		{name: "empty string", input: "", expected: nil},
		{name: "whitespace only", input: "   \t ", expected: nil},
		{name: "plain text", input: "All good", expected: strPtr("All good")},
		{name: "surrounding whitespace trimmed", input: "  left the key  ", expected: strPtr("left the key")},
		{name: "null bytes stripped", input: "ok\x00", expected: strPtr("ok")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
			} else {
				assert.NotNil(t, got)
				assert.Equal(t, *tt.expected, *got)
			}
		})
	}
}

func TestCleanUTF8(t *testing.T) {
	cleaned, changed := CleanUTF8("already valid")
	assert.False(t, changed)
	assert.Equal(t, "already valid", cleaned)

	cleaned, changed = CleanUTF8("bad\xffbyte")
	assert.True(t, changed)
	assert.Equal(t, "badbyte", cleaned)
}

func strPtr(s string) *string { return &s }
