package repositories

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"shopbot/domain"
	"shopbot/errors"
)

func writeIntents(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "intents.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadIntents(t *testing.T) {
	req := require.New(t)
	path := writeIntents(t, `{
	  "intents": [
	    {"tag": "greeting", "patterns": ["Hi", "Hello"], "responses": ["Hi there!", "Hello!"]},
	    {"tag": "order_status", "patterns": ["Where is my order"], "responses": ["Let me check that for you."]}
	  ]
	}`)

	set, err := LoadIntents(path, []domain.Tag{"greeting", "order_status"}, slog.Default())
	req.NoError(err)
	req.Equal(2, set.Len())

	greeting, ok := set.Get("greeting")
	req.True(ok)
	req.Equal([]string{"Hi there!", "Hello!"}, greeting.Responses)
}

func TestLoadIntents_RejectsMissingResponses(t *testing.T) {
	req := require.New(t)
	path := writeIntents(t, `{"intents": [{"tag": "greeting", "patterns": ["Hi"], "responses": []}]}`)

	_, err := LoadIntents(path, nil, slog.Default())
	req.ErrorContains(err, "greeting")
}

func TestLoadIntents_RejectsDuplicateTag(t *testing.T) {
	req := require.New(t)
	path := writeIntents(t, `{"intents": [
	  {"tag": "greeting", "responses": ["Hi!"]},
	  {"tag": "greeting", "responses": ["Hello!"]}
	]}`)

	_, err := LoadIntents(path, nil, slog.Default())
	req.ErrorIs(err, errors.ErrDuplicateTag)
}

func TestLoadIntents_RejectsTagWithoutRecord(t *testing.T) {
	req := require.New(t)
	path := writeIntents(t, `{"intents": [{"tag": "greeting", "responses": ["Hi!"]}]}`)

	_, err := LoadIntents(path, []domain.Tag{"greeting", "refund"}, slog.Default())
	req.ErrorIs(err, errors.ErrMissingIntent)
}
