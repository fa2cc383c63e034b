package ai

import (
	"fmt"
	"hash/fnv"

	"shopbot/domain"
	"shopbot/errors"
)

const (
	// DefaultThreshold is the minimum softmax probability a predicted
	// intent must strictly exceed to be accepted. A probability equal to
	// the threshold falls back, matching the training-side evaluation.
	DefaultThreshold = 0.75

	// DefaultFallbackResponse is the canned reply for low-confidence input.
	DefaultFallbackResponse = "I do not understand... could you rephrase that?"
)

// Picker chooses which of an intent's candidate responses to answer with.
// Implementations must be deterministic for a given input.
type Picker interface {
	Pick(input string, n int) int
}

// HashPicker derives a stable index from the input text, so the same
// question always gets the same reply while different questions still
// rotate through the candidates.
type HashPicker struct{}

func (HashPicker) Pick(input string, n int) int {
	if n <= 1 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(input))
	return int(h.Sum32() % uint32(n))
}

// FirstPicker always answers with the first candidate. Used in tests and
// anywhere a single canonical reply is wanted.
type FirstPicker struct{}

func (FirstPicker) Pick(string, int) int { return 0 }

// Classifier holds the loaded model and everything needed to turn raw text
// into a reply. All fields are immutable after construction: concurrent
// Classify calls share it without locking.
type Classifier struct {
	vocab     Vocabulary
	tags      []domain.Tag
	net       Network
	intents   domain.IntentSet
	threshold float64
	fallback  string
	picker    Picker
}

// ClassifierOption adjusts optional classifier behavior.
type ClassifierOption func(*Classifier)

// WithThreshold overrides the confidence threshold.
func WithThreshold(t float64) ClassifierOption {
	return func(c *Classifier) { c.threshold = t }
}

// WithFallback overrides the low-confidence reply.
func WithFallback(response string) ClassifierOption {
	return func(c *Classifier) { c.fallback = response }
}

// WithPicker overrides the response selection strategy.
func WithPicker(p Picker) ClassifierOption {
	return func(c *Classifier) { c.picker = p }
}

// NewClassifier wires vocabulary, tag list, network and intents together and
// validates that their shapes agree. A mismatch means the artifact was not
// produced for this vocabulary/tag pairing and the process must not serve.
func NewClassifier(vocab Vocabulary, tags []domain.Tag, net Network, intents domain.IntentSet, opts ...ClassifierOption) (*Classifier, error) {
	if net.InputSize() != vocab.Size() {
		return nil, fmt.Errorf("%w: input layer width %d, vocabulary size %d",
			errors.ErrModelShapeMismatch, net.InputSize(), vocab.Size())
	}
	if net.OutputSize() != len(tags) {
		return nil, fmt.Errorf("%w: output layer width %d, tag count %d",
			errors.ErrModelShapeMismatch, net.OutputSize(), len(tags))
	}
	c := &Classifier{
		vocab:     vocab,
		tags:      append([]domain.Tag(nil), tags...),
		net:       net,
		intents:   intents,
		threshold: DefaultThreshold,
		fallback:  DefaultFallbackResponse,
		picker:    HashPicker{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Tags returns the ordered tag list the model scores.
func (c *Classifier) Tags() []domain.Tag {
	out := make([]domain.Tag, len(c.tags))
	copy(out, c.tags)
	return out
}

// Classify runs the full inference path: stems -> bag-of-words -> forward
// pass -> softmax -> thresholded tag -> response lookup.
//
// Low confidence is not an error: it yields the fallback response under
// domain.TagUnknown. ErrUnknownTag is returned when the winning tag has no
// intent record, which signals a model/data pairing bug.
func (c *Classifier) Classify(text string) (domain.Prediction, error) {
	if c == nil {
		return domain.Prediction{}, errors.ErrModelNotLoaded
	}

	features := c.vocab.Encode(Stems(text))
	logits, err := c.net.Forward(features)
	if err != nil {
		return domain.Prediction{}, err
	}

	probs := Softmax(logits)
	best := argmax(probs)
	confidence := probs[best]

	if confidence <= c.threshold {
		return domain.Prediction{
			Tag:        domain.TagUnknown,
			Confidence: confidence,
			Response:   c.fallback,
		}, nil
	}

	tag := c.tags[best]
	intent, ok := c.intents.Get(tag)
	if !ok {
		return domain.Prediction{}, fmt.Errorf("%w: %q", errors.ErrUnknownTag, tag)
	}
	if len(intent.Responses) == 0 {
		return domain.Prediction{}, fmt.Errorf("%w: %q has no responses", errors.ErrUnknownTag, tag)
	}

	return domain.Prediction{
		Tag:        tag,
		Confidence: confidence,
		Response:   intent.Responses[c.picker.Pick(text, len(intent.Responses))],
	}, nil
}
