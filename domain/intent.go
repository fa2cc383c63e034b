package domain

import (
	"fmt"

	"shopbot/errors"
)

// Tag identifies a category of user request the bot recognizes.
type Tag string

// TagUnknown is returned when no intent reaches the confidence threshold.
const TagUnknown Tag = "unknown"

// Intent associates a tag with its training patterns and the canned replies
// the bot may answer with. Patterns are only consumed at training/indexing
// time, responses at inference time.
type Intent struct {
	Tag       string   `json:"tag" validate:"required"`
	Patterns  []string `json:"patterns"`
	Responses []string `json:"responses" validate:"required,min=1"`
}

// IntentSet is an immutable lookup table of intents keyed by tag.
type IntentSet struct {
	byTag map[Tag]Intent
	tags  []Tag
}

// NewIntentSet builds the lookup table and rejects duplicate tags.
func NewIntentSet(intents []Intent) (IntentSet, error) {
	byTag := make(map[Tag]Intent, len(intents))
	tags := make([]Tag, 0, len(intents))
	for _, intent := range intents {
		tag := Tag(intent.Tag)
		if _, exists := byTag[tag]; exists {
			return IntentSet{}, fmt.Errorf("%w: %q", errors.ErrDuplicateTag, intent.Tag)
		}
		byTag[tag] = intent
		tags = append(tags, tag)
	}
	return IntentSet{byTag: byTag, tags: tags}, nil
}

func (s IntentSet) Get(tag Tag) (Intent, bool) {
	intent, ok := s.byTag[tag]
	return intent, ok
}

// Tags returns the tags in their declaration order.
func (s IntentSet) Tags() []Tag {
	out := make([]Tag, len(s.tags))
	copy(out, s.tags)
	return out
}

func (s IntentSet) Len() int {
	return len(s.byTag)
}

// All returns the intents in their declaration order.
func (s IntentSet) All() []Intent {
	out := make([]Intent, 0, len(s.tags))
	for _, tag := range s.tags {
		out = append(out, s.byTag[tag])
	}
	return out
}

// Prediction is the outcome of a single classification call.
type Prediction struct {
	Tag        Tag     `json:"tag"`
	Confidence float64 `json:"confidence"`
	Response   string  `json:"response"`
}

// Suggestion points at the stored pattern closest to a low-confidence input.
// It is telemetry, not an answer: the reply stays the fallback response.
type Suggestion struct {
	Tag     Tag
	Pattern string
	Score   float64
}
