package services

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"

	"shopbot/contract"
	"shopbot/domain"
	"shopbot/errors"
	"shopbot/moderation"
	"shopbot/observability"
)

// NonEnglishResponse is the canned reply for reliably detected non-English
// input. The model is trained on English patterns only; classifying other
// languages would just produce confident nonsense.
const NonEnglishResponse = "Sorry, I can only chat in English for now."

// Language detection on short strings is noise, so the gate only applies
// beyond this many runes.
const minLangDetectRunes = 20

// BotService is the orchestration the transport layer calls: moderation,
// language gating, classification, fallback telemetry and conversation
// logging around the pure inference core.
type BotService struct {
	classifier contract.Responder
	moderator  *moderation.Moderator
	store      contract.ConversationStore
	patterns   contract.PatternSearcher
	stats      *observability.Stats
	log        *slog.Logger
	maxLen     int
}

func NewBotService(
	classifier contract.Responder,
	moderator *moderation.Moderator,
	store contract.ConversationStore,
	patterns contract.PatternSearcher,
	stats *observability.Stats,
	log *slog.Logger,
	maxLen int,
) *BotService {
	return &BotService{
		classifier: classifier,
		moderator:  moderator,
		store:      store,
		patterns:   patterns,
		stats:      stats,
		log:        log,
		maxLen:     maxLen,
	}
}

// Handle serves one user message and returns the bot's prediction.
// Classification always runs on the raw (trimmed) text; the moderated copy
// is only what gets persisted and logged.
func (s *BotService) Handle(ctx context.Context, session, message string) (domain.Prediction, error) {
	trimmed := strings.TrimSpace(message)
	if s.maxLen > 0 && utf8.RuneCountInString(trimmed) > s.maxLen {
		s.stats.RecordError()
		return domain.Prediction{}, errors.ErrMessageTooLong
	}

	masked, matchedWords := s.moderator.Mask(trimmed)
	if len(matchedWords) > 0 {
		s.stats.RecordMasked()
		s.log.Warn("Masked forbidden words in message", "session", session, "count", len(matchedWords))
	}

	lang := detectLanguage(trimmed)
	if lang != "" && lang != "en" {
		s.stats.RecordNonEnglish()
		prediction := domain.Prediction{
			Tag:        domain.TagUnknown,
			Confidence: 0,
			Response:   NonEnglishResponse,
		}
		s.persist(session, masked, lang, prediction)
		return prediction, nil
	}

	start := time.Now()
	prediction, err := s.classifier.Classify(trimmed)
	if err != nil {
		s.stats.RecordError()
		return domain.Prediction{}, err
	}
	s.stats.RecordPrediction(prediction.Tag, time.Since(start))

	if prediction.Tag == domain.TagUnknown {
		s.suggest(ctx, session, trimmed)
	}

	s.persist(session, masked, lang, prediction)
	return prediction, nil
}

// History exposes the conversation log for the transport layer.
func (s *BotService) History(session string, cursor *string) ([]domain.Exchange, *string, error) {
	return s.store.History(session, cursor)
}

// suggest logs the closest known pattern for a low-confidence message.
// Pure telemetry: failures here never affect the reply.
func (s *BotService) suggest(ctx context.Context, session, text string) {
	if s.patterns == nil || text == "" {
		return
	}
	suggestion, err := s.patterns.Closest(ctx, text)
	if err != nil {
		s.log.Debug("Pattern lookup failed", "error", err)
		return
	}
	if suggestion == nil {
		return
	}
	s.log.Info("Low-confidence message had a close pattern",
		"session", session,
		"closest_tag", suggestion.Tag,
		"pattern", suggestion.Pattern,
		"score", suggestion.Score)
}

// persist appends the exchange to the conversation log. Storage problems
// are logged and swallowed: losing one history entry must not fail the
// user's request.
func (s *BotService) persist(session, input, lang string, prediction domain.Prediction) {
	if s.store == nil {
		return
	}
	exchange := domain.Exchange{
		ID:         uuid.New(),
		Session:    session,
		Input:      input,
		Reply:      prediction.Response,
		Tag:        prediction.Tag,
		Confidence: prediction.Confidence,
		Lang:       lang,
		At:         time.Now().UTC(),
	}
	if err := s.store.Store(exchange); err != nil {
		s.log.Warn("Failed to persist exchange", "session", session, "error", err)
	}
}

func detectLanguage(text string) string {
	if utf8.RuneCountInString(text) < minLangDetectRunes {
		return ""
	}
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
