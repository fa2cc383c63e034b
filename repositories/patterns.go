package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blugelabs/bluge"

	"shopbot/domain"
)

// PatternIndex is a full-text index over the intents' training patterns.
// The classifier never consults it: its job is telemetry. When a message
// falls below the confidence threshold, the closest known pattern tells
// operators which intent the user was probably after, which is how the
// intents file gets improved.
type PatternIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewPatternIndex(path string, log *slog.Logger) (*PatternIndex, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, fmt.Errorf("opening pattern index: %w", err)
	}
	return &PatternIndex{writer: writer, log: log}, nil
}

// Index (re)indexes every pattern of every intent in one batch.
func (p *PatternIndex) Index(intents []domain.Intent) error {
	batch := bluge.NewBatch()
	count := 0
	for _, intent := range intents {
		for n, pattern := range intent.Patterns {
			doc := bluge.NewDocument(fmt.Sprintf("%s:%d", intent.Tag, n)).
				AddField(bluge.NewTextField("pattern", pattern).StoreValue()).
				AddField(bluge.NewKeywordField("tag", intent.Tag).StoreValue())
			batch.Update(doc.ID(), doc)
			count++
		}
	}
	if err := p.writer.Batch(batch); err != nil {
		return fmt.Errorf("indexing patterns: %w", err)
	}
	p.log.Debug("Pattern index built", "patterns", count)
	return nil
}

// Closest returns the best-matching stored pattern for the given text, or
// nil when nothing matches at all.
func (p *PatternIndex) Closest(ctx context.Context, text string) (*domain.Suggestion, error) {
	reader, err := p.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	query := bluge.NewMatchQuery(text).SetField("pattern")
	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(1, query))
	if err != nil {
		return nil, err
	}

	match, err := iterator.Next()
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, nil
	}

	suggestion := &domain.Suggestion{Score: match.Score}
	err = match.VisitStoredFields(func(field string, value []byte) bool {
		switch field {
		case "tag":
			suggestion.Tag = domain.Tag(value)
		case "pattern":
			suggestion.Pattern = string(value)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return suggestion, nil
}

func (p *PatternIndex) Close() error {
	return p.writer.Close()
}
