package domain

import (
	"time"

	"github.com/google/uuid"
)

// Exchange is one user message and the reply the bot gave, as persisted in
// the conversation log. Content is stored after moderation masking.
type Exchange struct {
	ID         uuid.UUID `json:"id"`
	Session    string    `json:"session"`
	Input      string    `json:"input"`
	Reply      string    `json:"reply"`
	Tag        Tag       `json:"tag"`
	Confidence float64   `json:"confidence"`
	Lang       string    `json:"lang,omitempty"`
	At         time.Time `json:"at"`
}
