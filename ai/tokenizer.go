package ai

import (
	"strings"
	"unicode"

	"github.com/blevesearch/go-porterstemmer"
)

// Tokenize splits raw input on anything that is not a letter or a digit.
// Punctuation never reaches the encoder, which matches the training pipeline
// where "?", "." and "!" are discarded before building the vocabulary.
func Tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Stem lowercases a token and reduces it to its Porter stem.
// The same rule is applied when the vocabulary is built, so "ordered",
// "ordering" and "orders" all collapse onto the feature of "order".
func Stem(token string) string {
	return porterstemmer.StemString(strings.ToLower(token))
}

// Stems runs the full preprocessing step: tokenize, lowercase, stem.
// No stopword removal is performed, deliberately: the vocabularies in play
// are tiny and stopwords carry signal for short intents like "how are you".
// Empty input yields an empty slice, not an error.
func Stems(text string) []string {
	tokens := Tokenize(text)
	stems := make([]string, 0, len(tokens))
	for _, token := range tokens {
		stems = append(stems, Stem(token))
	}
	return stems
}
