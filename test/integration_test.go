package test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"shopbot/ai"
	"shopbot/domain"
	"shopbot/moderation"
	"shopbot/observability"
	"shopbot/repositories"
	"shopbot/services"
)

const intentsJSON = `{
  "intents": [
    {
      "tag": "greeting",
      "patterns": ["Hi", "Hello", "Is anyone there"],
      "responses": ["Hi there!"]
    },
    {
      "tag": "order_status",
      "patterns": ["Where is my order", "Has my order shipped"],
      "responses": ["Let me check that for you."]
    }
  ]
}`

// Wires every real component together: artifacts on disk, BadgerDB
// conversation log, Bluge pattern index, moderation and the service on top.
func Test_Scenario(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	dir := t.TempDir()

	intentsPath := filepath.Join(dir, "intents.json")
	req.NoError(os.WriteFile(intentsPath, []byte(intentsJSON), 0644))

	// Handcrafted single-layer weights: each tag scores its own stems.
	modelPath := filepath.Join(dir, "model.json")
	vocabulary := []string{"hello", "hi", "where", "is", "my", "order", "ship"}
	tags := []string{"greeting", "order_status"}
	req.NoError(repositories.SaveModel(modelPath, vocabulary, tags, []ai.Layer{{
		Weights: [][]float64{
			{5, 5, 0, 0, 0, 0, 0},
			{0, 0, 2, 2, 2, 2, 2},
		},
		Bias: []float64{0, 0},
	}}))

	model, err := repositories.LoadModel(modelPath, log)
	req.NoError(err)
	intents, err := repositories.LoadIntents(intentsPath, model.Tags, log)
	req.NoError(err)
	classifier, err := ai.NewClassifier(model.Vocabulary, model.Tags, model.Network, intents,
		ai.WithPicker(ai.FirstPicker{}))
	req.NoError(err)

	// Reduced to 16 Mo for testing (avoid 20 Go of storage)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	req.NoError(err)
	defer db.Close()

	patterns, err := repositories.NewPatternIndex(t.TempDir(), log)
	req.NoError(err)
	defer patterns.Close()
	req.NoError(patterns.Index(intents.All()))

	moderator, err := moderation.NewModerator([]string{"scammer"}, '*', log)
	req.NoError(err)

	store := repositories.NewConversationRepository(db, log, lo.ToPtr(100))
	stats := observability.NewStats(log)
	service := services.NewBotService(classifier, moderator, store, patterns, stats, log, 500)

	session := "sess-integration"

	prediction, err := service.Handle(ctx, session, "hello")
	req.NoError(err)
	req.Equal(domain.Tag("greeting"), prediction.Tag)
	req.Equal("Hi there!", prediction.Response)

	prediction, err = service.Handle(ctx, session, "where is my order?")
	req.NoError(err)
	req.Equal(domain.Tag("order_status"), prediction.Tag)
	req.Equal("Let me check that for you.", prediction.Response)

	prediction, err = service.Handle(ctx, session, "asdkjfh qweroiu")
	req.NoError(err)
	req.Equal(domain.TagUnknown, prediction.Tag)

	history, _, err := service.History(session, nil)
	req.NoError(err)
	req.Len(history, 3)
	// Newest first.
	req.Equal("asdkjfh qweroiu", history[0].Input)
	req.Equal("hello", history[2].Input)

	snapshot := stats.Snapshot()
	req.Equal(uint64(3), snapshot.Requests)
	req.Equal(uint64(1), snapshot.Fallbacks)
}
