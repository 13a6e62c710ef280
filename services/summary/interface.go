package summary

import (
	"context"
)

const systemPrompt = "You are a helpful assistant for text summarization."

// Params are the per-run summarization settings.
type Params struct {
	MaxChunkWords    int
	Persona          string
	Model            string
	MaxTokens        int
	Temperature      float32
	TopP             float32
	FrequencyPenalty float32
}

type CompletionRequest struct {
	Model            string
	System           string
	User             string
	MaxTokens        int
	Temperature      float32
	TopP             float32
	FrequencyPenalty float32
}

// Completer sends one chat completion to the language model host and
// returns the text of the first choice.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
