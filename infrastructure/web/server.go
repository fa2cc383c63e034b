package web

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"shopbot/auth"
	"shopbot/errors"
	"shopbot/observability"
	"shopbot/services"
)

type contextKey string

const sessionKey contextKey = "session"

// Server exposes the bot over HTTP: the /predict endpoint the chat widget
// polls, plus session issuance, history, health and stats.
type Server struct {
	service *services.BotService
	issuer  auth.TokenIssuer
	stats   *observability.Stats
	log     *slog.Logger
}

func NewServer(service *services.BotService, issuer auth.TokenIssuer, stats *observability.Stats, log *slog.Logger) *Server {
	return &Server{service: service, issuer: issuer, stats: stats, log: log}
}

// Routes builds the handler tree. Only /predict and /history require a
// session token; /session is how the widget obtains one.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /session", s.handleSession)
	mux.Handle("POST /predict", s.withSession(http.HandlerFunc(s.handlePredict)))
	mux.Handle("GET /history", s.withSession(http.HandlerFunc(s.handleHistory)))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /stats", s.handleStats)
	return mux
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.NewString()
	token, err := s.issuer.Issue(sessionID)
	if err != nil {
		s.log.Error("Failed to issue session token", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sessionID, Token: token})
}

type predictRequest struct {
	Message string `json:"message"`
}

type predictResponse struct {
	Answer     string  `json:"answer"`
	Tag        string  `json:"tag"`
	Confidence float64 `json:"confidence"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var request predictRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(request.Message) == "" {
		writeError(w, http.StatusBadRequest, errors.ErrEmptyMessage.Error())
		return
	}

	session := r.Context().Value(sessionKey).(string)
	prediction, err := s.service.Handle(r.Context(), session, request.Message)
	if err != nil {
		s.writePredictError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, predictResponse{
		Answer:     prediction.Response,
		Tag:        string(prediction.Tag),
		Confidence: prediction.Confidence,
	})
}

func (s *Server) writePredictError(w http.ResponseWriter, err error) {
	switch {
	case stderrors.Is(err, errors.ErrMessageTooLong):
		writeError(w, http.StatusBadRequest, err.Error())
	case stderrors.Is(err, errors.ErrModelNotLoaded):
		writeError(w, http.StatusServiceUnavailable, "model is not ready")
	default:
		// UnknownTag and friends are bugs, not user errors: log the cause,
		// hand the user a generic reply.
		s.log.Error("Prediction failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
	}
}

type historyResponse struct {
	Exchanges any     `json:"exchanges"`
	Cursor    *string `json:"cursor,omitempty"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	session := r.Context().Value(sessionKey).(string)
	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}
	exchanges, next, err := s.service.History(session, cursor)
	if err != nil {
		s.log.Error("History lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Exchanges: exchanges, Cursor: next})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

// withSession validates the Bearer token and stashes the session ID in the
// request context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := s.issuer.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, claims.SessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
