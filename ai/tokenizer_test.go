package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStems(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Inflections collapse onto the same stem",
			input:    "organize organizes organizing",
			expected: []string{"organ", "organ", "organ"},
		},
		{
			name:     "Punctuation is discarded, not tokenized",
			input:    "Is anyone there?",
			expected: []string{"is", "anyon", "there"},
		},
		{
			name:     "Uppercase input is lowered before stemming",
			input:    "HELLO How Do YOU",
			expected: []string{"hello", "how", "do", "you"},
		},
		{
			name:     "Apostrophes split the token",
			input:    "what's up",
			expected: []string{"what", "s", "up"},
		},
		{
			name:     "Empty input yields an empty sequence",
			input:    "",
			expected: []string{},
		},
		{
			name:     "Only punctuation yields an empty sequence",
			input:    "?!... ---",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req.Equal(tt.expected, Stems(tt.input))
		})
	}
}

func TestStem_DoubleConsonant(t *testing.T) {
	req := require.New(t)
	req.Equal("run", Stem("running"))
	req.Equal("thank", Stem("thanks"))
	req.Equal("order", Stem("ordered"))
}
