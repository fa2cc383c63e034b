package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator masks forbidden words in user messages before they are logged
// or persisted. Matching runs on a folded view of the input (lowercased,
// punctuation and spacing stripped) so "R.e.f.u.n.d scam" style evasion
// still hits the dictionary, while masking is applied to the original runes.
type Moderator struct {
	machine     *goahocorasick.Machine
	replacement rune
	log         *slog.Logger
}

// NewModerator builds the Aho-Corasick automaton over the folded dictionary.
func NewModerator(words []string, replacement rune, log *slog.Logger) (*Moderator, error) {
	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		folded, _ := fold([]rune(w))
		if len(folded) == 0 {
			continue
		}
		patterns = append(patterns, folded)
	}

	// An empty dictionary is valid: moderation becomes a no-op.
	if len(patterns) == 0 {
		return &Moderator{replacement: replacement, log: log}, nil
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{machine: machine, replacement: replacement, log: log}, nil
}

// Mask replaces every dictionary hit with the replacement rune and reports
// which folded words matched. Input without hits is returned unchanged.
func (m *Moderator) Mask(original string) (string, []string) {
	if m.machine == nil {
		return original, nil
	}

	origRunes := []rune(original)
	folded, origIdx := fold(origRunes)
	if len(folded) == 0 {
		return original, nil
	}

	hits := m.machine.MultiPatternSearch(folded, false)
	if len(hits) == 0 {
		return original, nil
	}

	var matched []string
	for _, hit := range hits {
		start := hit.Pos
		end := start + len(hit.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		matched = append(matched, string(hit.Word))
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			origRunes[i] = m.replacement
		}
	}

	if m.log != nil && len(matched) > 0 {
		m.log.Debug("Masked forbidden words", "count", len(matched))
	}
	return string(origRunes), matched
}

// fold lowercases the input and drops punctuation, symbols and spacing,
// keeping a map from folded positions back to original rune indexes so
// masking can cover the full original span of a match.
func fold(input []rune) ([]rune, []int) {
	folded := make([]rune, 0, len(input))
	origIdx := make([]int, 0, len(input))
	for i, r := range input {
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		folded = append(folded, unicode.ToLower(r))
		origIdx = append(origIdx, i)
	}
	return folded, origIdx
}
