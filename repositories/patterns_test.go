package repositories

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"shopbot/domain"
)

func TestPatternIndex_Closest(t *testing.T) {
	req := require.New(t)
	index, err := NewPatternIndex(t.TempDir(), slog.Default())
	req.NoError(err)
	defer index.Close()

	err = index.Index([]domain.Intent{
		{Tag: "greeting", Patterns: []string{"Hi", "Hello", "Good day"}},
		{Tag: "order_status", Patterns: []string{"Where is my order", "Has my order shipped"}},
		{Tag: "refund", Patterns: []string{"I want my money back", "How do I get a refund"}},
	})
	req.NoError(err)

	suggestion, err := index.Closest(context.Background(), "order shipped yet?")
	req.NoError(err)
	req.NotNil(suggestion)
	req.Equal(domain.Tag("order_status"), suggestion.Tag)
	req.Greater(suggestion.Score, 0.0)

	suggestion, err = index.Closest(context.Background(), "zzzz qqqq")
	req.NoError(err)
	req.Nil(suggestion)
}
