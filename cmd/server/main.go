package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"shopbot/ai"
	"shopbot/auth"
	"shopbot/infrastructure/web"
	"shopbot/internal"
	"shopbot/moderation"
	"shopbot/observability"
	"shopbot/repositories"
	"shopbot/services"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Every load step happens before ListenAndServe: if the model artifact, the
// intents table or any store fails to open, the process exits without ever
// accepting a request (fail-fast, no partial readiness).
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Model & intents (fail-fast)
	model, err := repositories.LoadModel(config.ModelPath, logger)
	if err != nil {
		return exitRuntime, fmt.Errorf("model loading failed: %w", err)
	}
	intents, err := repositories.LoadIntents(config.IntentsPath, model.Tags, logger)
	if err != nil {
		return exitRuntime, fmt.Errorf("intents loading failed: %w", err)
	}

	classifier, err := ai.NewClassifier(model.Vocabulary, model.Tags, model.Network, intents,
		ai.WithThreshold(config.ConfidenceThreshold))
	if err != nil {
		return exitRuntime, err
	}

	// 3. Stores (BadgerDB conversation log, Bluge pattern index)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		// Defer ensures the database lock is released and buffers are flushed before the function returns.
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	patterns, err := repositories.NewPatternIndex(config.BlugeFilepath, logger)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		logger.Info("Closing pattern index...")
		_ = patterns.Close()
	}()
	if err := patterns.Index(intents.All()); err != nil {
		return exitRuntime, err
	}

	// 4. Moderation
	moderator, err := moderation.NewModerator(loadCensoredWords(config.CensoredWordsPath, logger), charReplacement, logger)
	if err != nil {
		return exitRuntime, fmt.Errorf("moderator initialization failed: %w", err)
	}

	// 5. Service & HTTP server
	stats := observability.NewStats(logger)
	store := repositories.NewConversationRepository(db, logger, config.LimitExchanges)
	service := services.NewBotService(classifier, moderator, store, patterns, stats, logger, config.MaxContentLength)
	issuer := auth.NewTokenIssuer(config.AuthSecret, config.AuthTokenDuration)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler: web.NewServer(service, issuer, stats, logger).Routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Serving", "addr", server.Addr, "tags", len(model.Tags), "vocabulary", model.Vocabulary.Size())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return exitRuntime, err
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}

// loadCensoredWords reads the newline-separated dictionary. The path is
// optional: no file just means nothing gets masked.
func loadCensoredWords(path string, log *slog.Logger) []string {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("Censored words file unreadable, moderation disabled", "path", path, "error", err)
		return nil
	}
	var words []string
	for _, line := range strings.Split(string(raw), "\n") {
		if word := strings.TrimSpace(line); word != "" {
			words = append(words, word)
		}
	}
	return words
}
