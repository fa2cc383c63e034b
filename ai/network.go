package ai

import (
	"fmt"
	"math"

	"shopbot/errors"
)

// Layer is one fully connected layer: out = weights*in + bias.
// Weights are indexed [output][input].
type Layer struct {
	Weights [][]float64
	Bias    []float64
}

// InputSize is the width the layer expects.
func (l Layer) InputSize() int {
	if len(l.Weights) == 0 {
		return 0
	}
	return len(l.Weights[0])
}

// OutputSize is the number of neurons in the layer.
func (l Layer) OutputSize() int {
	return len(l.Weights)
}

func (l Layer) apply(in []float64) []float64 {
	out := make([]float64, len(l.Weights))
	for o, row := range l.Weights {
		sum := l.Bias[o]
		for i, w := range row {
			sum += w * in[i]
		}
		out[o] = sum
	}
	return out
}

// Network is the fixed-topology feed-forward intent model: a chain of linear
// layers with ReLU between them and raw logits at the output. Weights are
// read-only after construction, so a single Network is safe to share across
// concurrent classification calls.
type Network struct {
	layers []Layer
}

// NewNetwork validates that consecutive layers chain correctly and that
// every row of weights has a matching bias entry.
func NewNetwork(layers ...Layer) (Network, error) {
	if len(layers) == 0 {
		return Network{}, fmt.Errorf("%w: network has no layers", errors.ErrModelShapeMismatch)
	}
	for n, layer := range layers {
		if layer.OutputSize() == 0 || layer.InputSize() == 0 {
			return Network{}, fmt.Errorf("%w: layer %d is empty", errors.ErrModelShapeMismatch, n)
		}
		if len(layer.Bias) != layer.OutputSize() {
			return Network{}, fmt.Errorf("%w: layer %d has %d bias entries for %d neurons",
				errors.ErrModelShapeMismatch, n, len(layer.Bias), layer.OutputSize())
		}
		for o, row := range layer.Weights {
			if len(row) != layer.InputSize() {
				return Network{}, fmt.Errorf("%w: layer %d row %d has ragged width",
					errors.ErrModelShapeMismatch, n, o)
			}
		}
		if n > 0 && layer.InputSize() != layers[n-1].OutputSize() {
			return Network{}, fmt.Errorf("%w: layer %d expects %d inputs, layer %d produces %d",
				errors.ErrModelShapeMismatch, n, layer.InputSize(), n-1, layers[n-1].OutputSize())
		}
	}
	return Network{layers: layers}, nil
}

// InputSize is the feature vector width the network was trained for.
func (n Network) InputSize() int {
	return n.layers[0].InputSize()
}

// OutputSize is the number of intent tags the network scores.
func (n Network) OutputSize() int {
	return n.layers[len(n.layers)-1].OutputSize()
}

// Forward runs the deterministic forward pass and returns one raw score per
// tag. No activation is applied to the last layer; callers combine the
// logits with Softmax.
func (n Network) Forward(in []float64) ([]float64, error) {
	if len(in) != n.InputSize() {
		return nil, fmt.Errorf("%w: got %d features, network expects %d",
			errors.ErrModelShapeMismatch, len(in), n.InputSize())
	}
	out := in
	for i, layer := range n.layers {
		out = layer.apply(out)
		if i < len(n.layers)-1 {
			relu(out)
		}
	}
	return out, nil
}

func relu(v []float64) {
	for i, x := range v {
		if x < 0 {
			v[i] = 0
		}
	}
}

// Softmax turns raw scores into a probability distribution. The max score is
// subtracted before exponentiation to keep large logits from overflowing.
func Softmax(scores []float64) []float64 {
	if len(scores) == 0 {
		return nil
	}
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	probs := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		probs[i] = math.Exp(s - maxScore)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// argmax returns the index of the highest probability. Ties resolve to the
// lowest index, which keeps tie-breaking stable in tag order.
func argmax(probs []float64) int {
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best
}
