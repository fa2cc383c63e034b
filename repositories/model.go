package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"shopbot/ai"
	"shopbot/domain"
	"shopbot/errors"
)

// ModelSchemaVersion is bumped whenever the artifact layout changes, so a
// stale artifact fails loudly instead of producing garbage predictions.
const ModelSchemaVersion = 1

// modelArtifact is the persisted form of the trained model: vocabulary, tag
// list and the weight matrices of every layer, in forward order.
type modelArtifact struct {
	SchemaVersion int         `json:"schema_version"`
	Vocabulary    []string    `json:"vocabulary"`
	Tags          []string    `json:"tags"`
	Layers        []layerBlob `json:"layers"`
}

type layerBlob struct {
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// Model is the fully validated, immutable result of loading an artifact.
type Model struct {
	Vocabulary ai.Vocabulary
	Tags       []domain.Tag
	Network    ai.Network
}

// LoadModel reads and validates a model artifact. Any failure here is fatal
// to startup: the process must not serve inference with a half-loaded or
// mismatched model.
func LoadModel(path string, log *slog.Logger) (Model, error) {
	kind, err := mimetype.DetectFile(path)
	if err != nil {
		return Model{}, fmt.Errorf("sniffing model artifact: %w", err)
	}
	if !kind.Is("application/json") && !strings.HasPrefix(kind.String(), "text/") {
		return Model{}, fmt.Errorf("model artifact %s is %s, expected JSON", path, kind)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Model{}, fmt.Errorf("reading model artifact: %w", err)
	}

	var artifact modelArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return Model{}, fmt.Errorf("decoding model artifact: %w", err)
	}
	if artifact.SchemaVersion != ModelSchemaVersion {
		return Model{}, fmt.Errorf("model artifact schema version %d, expected %d",
			artifact.SchemaVersion, ModelSchemaVersion)
	}

	vocab, err := ai.NewVocabulary(artifact.Vocabulary)
	if err != nil {
		return Model{}, err
	}

	layers := make([]ai.Layer, len(artifact.Layers))
	for i, blob := range artifact.Layers {
		layers[i] = ai.Layer{Weights: blob.Weights, Bias: blob.Bias}
	}
	network, err := ai.NewNetwork(layers...)
	if err != nil {
		return Model{}, err
	}

	if network.InputSize() != vocab.Size() {
		return Model{}, fmt.Errorf("%w: input layer width %d, vocabulary size %d",
			errors.ErrModelShapeMismatch, network.InputSize(), vocab.Size())
	}
	if network.OutputSize() != len(artifact.Tags) {
		return Model{}, fmt.Errorf("%w: output layer width %d, tag count %d",
			errors.ErrModelShapeMismatch, network.OutputSize(), len(artifact.Tags))
	}

	tags := make([]domain.Tag, len(artifact.Tags))
	for i, t := range artifact.Tags {
		tags[i] = domain.Tag(t)
	}

	log.Info("Model artifact loaded",
		"path", path,
		"vocabulary_size", vocab.Size(),
		"tags", len(tags),
		"layers", len(layers))
	return Model{Vocabulary: vocab, Tags: tags, Network: network}, nil
}

// SaveModel writes an artifact in the versioned JSON layout. Used by the
// demo generator and tests; the training pipeline produces the same shape.
func SaveModel(path string, vocabulary []string, tags []string, layers []ai.Layer) error {
	artifact := modelArtifact{
		SchemaVersion: ModelSchemaVersion,
		Vocabulary:    vocabulary,
		Tags:          tags,
		Layers:        make([]layerBlob, len(layers)),
	}
	for i, layer := range layers {
		artifact.Layers[i] = layerBlob{Weights: layer.Weights, Bias: layer.Bias}
	}
	raw, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}
