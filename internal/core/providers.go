package core

import (
	"context"
	"errors"
)

// Backend failure classes. Empty completions are worth retrying; a malformed
// response shape or a missing credential is not.
var (
	ErrEmptyCompletion   = errors.New("backend returned no generated text")
	ErrMalformedResponse = errors.New("malformed backend response")
	ErrMissingCredential = errors.New("missing backend credential")
)

type Generator interface {
	Generate(ctx context.Context, req GenRequest) (string, error)
}

type Dispatcher interface {
	PostMessage(ctx context.Context, channelID, text string) error
}
