//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"

	"shopbot/domain"
)

// Responder turns raw user text into a prediction. Implemented by
// ai.Classifier; faked in service tests.
type Responder interface {
	Classify(text string) (domain.Prediction, error)
}

// ConversationStore persists and pages through a session's exchanges.
type ConversationStore interface {
	Store(exchange domain.Exchange) error
	History(session string, cursor *string) ([]domain.Exchange, *string, error)
}

// PatternSearcher finds the stored training pattern closest to a message.
type PatternSearcher interface {
	Closest(ctx context.Context, text string) (*domain.Suggestion, error)
}
