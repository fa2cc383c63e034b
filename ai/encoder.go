package ai

import (
	"fmt"

	"shopbot/errors"
)

// Vocabulary maps known stems to fixed positions in the feature vector.
// The order must be exactly the order the network's input layer was trained
// against; it is immutable after construction.
type Vocabulary struct {
	words []string
	index map[string]int
}

// NewVocabulary builds the stem -> position index. Duplicates are rejected
// because they would make two positions compete for the same feature.
func NewVocabulary(words []string) (Vocabulary, error) {
	if len(words) == 0 {
		return Vocabulary{}, errors.ErrEmptyVocabulary
	}
	index := make(map[string]int, len(words))
	for i, w := range words {
		if _, exists := index[w]; exists {
			return Vocabulary{}, fmt.Errorf("duplicate vocabulary word %q", w)
		}
		index[w] = i
	}
	return Vocabulary{words: append([]string(nil), words...), index: index}, nil
}

func (v Vocabulary) Size() int {
	return len(v.words)
}

// Words returns a copy of the ordered vocabulary.
func (v Vocabulary) Words() []string {
	out := make([]string, len(v.words))
	copy(out, v.words)
	return out
}

// Encode produces the bag-of-words feature vector for a stem sequence:
// 1.0 at position i if the i-th vocabulary word occurs anywhere in the
// sequence, 0.0 otherwise. Stems outside the vocabulary contribute nothing,
// so fully out-of-vocabulary input encodes to the zero vector.
func (v Vocabulary) Encode(stems []string) []float64 {
	vec := make([]float64, len(v.words))
	for _, s := range stems {
		if i, ok := v.index[s]; ok {
			vec[i] = 1.0
		}
	}
	return vec
}
