package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shopbot/ai"
	"shopbot/auth"
	"shopbot/domain"
	"shopbot/moderation"
	"shopbot/observability"
	"shopbot/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	req := require.New(t)

	vocab, err := ai.NewVocabulary([]string{"hello"})
	req.NoError(err)
	net, err := ai.NewNetwork(ai.Layer{Weights: [][]float64{{4}, {0}}, Bias: []float64{0, 0}})
	req.NoError(err)
	intents, err := domain.NewIntentSet([]domain.Intent{
		{Tag: "greeting", Responses: []string{"Hi there!"}},
		{Tag: "goodbye", Responses: []string{"Bye!"}},
	})
	req.NoError(err)
	classifier, err := ai.NewClassifier(vocab, []domain.Tag{"greeting", "goodbye"}, net, intents,
		ai.WithPicker(ai.FirstPicker{}))
	req.NoError(err)

	moderator, err := moderation.NewModerator([]string{"scammer"}, '*', slog.Default())
	req.NoError(err)

	stats := observability.NewStats(slog.Default())
	service := services.NewBotService(classifier, moderator, nil, nil, stats, slog.Default(), 256)
	issuer := auth.NewTokenIssuer("test-secret-at-least-32-characters", time.Hour)

	server := httptest.NewServer(NewServer(service, issuer, stats, slog.Default()).Routes())
	t.Cleanup(server.Close)
	return server
}

func obtainToken(t *testing.T, server *httptest.Server) string {
	t.Helper()
	req := require.New(t)

	resp, err := http.Post(server.URL+"/session", "application/json", nil)
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	req.NoError(json.NewDecoder(resp.Body).Decode(&body))
	req.NotEmpty(body.Token)
	return body.Token
}

func predict(t *testing.T, server *httptest.Server, token, message string) *http.Response {
	t.Helper()
	request, err := http.NewRequest(http.MethodPost, server.URL+"/predict",
		strings.NewReader(`{"message": "`+message+`"}`))
	require.NoError(t, err)
	request.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	return resp
}

func TestServer_PredictFlow(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)
	token := obtainToken(t, server)

	resp := predict(t, server, token, "hello")
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Answer     string  `json:"answer"`
		Tag        string  `json:"tag"`
		Confidence float64 `json:"confidence"`
	}
	req.NoError(json.NewDecoder(resp.Body).Decode(&body))
	req.Equal("Hi there!", body.Answer)
	req.Equal("greeting", body.Tag)
	req.Greater(body.Confidence, 0.75)
}

func TestServer_PredictRequiresToken(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/predict", "application/json",
		strings.NewReader(`{"message": "hello"}`))
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_PredictRejectsEmptyMessage(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)
	token := obtainToken(t, server)

	resp := predict(t, server, token, "")
	defer resp.Body.Close()
	req.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestServer_HealthAndStats(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	req.NoError(err)
	resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/stats")
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	var snapshot observability.Snapshot
	req.NoError(json.NewDecoder(resp.Body).Decode(&snapshot))
}
