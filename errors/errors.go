package errors

import "fmt"

var (
	ErrModelNotLoaded     = fmt.Errorf("model is not loaded")
	ErrModelShapeMismatch = fmt.Errorf("model shape mismatch")
	ErrUnknownTag         = fmt.Errorf("predicted tag has no intent record")
	ErrDuplicateTag       = fmt.Errorf("duplicate intent tag")
	ErrMissingIntent      = fmt.Errorf("model tag has no intent record")
	ErrEmptyVocabulary    = fmt.Errorf("vocabulary is empty")
	ErrEmptyMessage       = fmt.Errorf("message is empty")
	ErrMessageTooLong     = fmt.Errorf("message exceeds the maximum allowed length")
)
