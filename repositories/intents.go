package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"

	"shopbot/domain"
	"shopbot/errors"
)

var validate = validator.New()

// intentsFile mirrors the intents.json layout the training pipeline consumes.
type intentsFile struct {
	Intents []domain.Intent `json:"intents"`
}

// LoadIntents reads the intents table and validates it both structurally
// (every intent has a tag and at least one response) and against the model's
// tag list: a tag the network can predict but nobody wrote responses for is
// a data/training pairing bug, refused at startup rather than discovered on
// the first unlucky request.
func LoadIntents(path string, tags []domain.Tag, log *slog.Logger) (domain.IntentSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.IntentSet{}, fmt.Errorf("reading intents file: %w", err)
	}

	var file intentsFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return domain.IntentSet{}, fmt.Errorf("decoding intents file: %w", err)
	}

	for _, intent := range file.Intents {
		if err := validate.Struct(intent); err != nil {
			return domain.IntentSet{}, fmt.Errorf("intent %q: %w", intent.Tag, err)
		}
	}

	set, err := domain.NewIntentSet(file.Intents)
	if err != nil {
		return domain.IntentSet{}, err
	}

	for _, tag := range tags {
		if _, ok := set.Get(tag); !ok {
			return domain.IntentSet{}, fmt.Errorf("%w: %q", errors.ErrMissingIntent, tag)
		}
	}

	log.Info("Intents table loaded", "path", path, "intents", set.Len())
	return set, nil
}
