package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/nijaru/ytsum/errors"
	"github.com/nijaru/ytsum/logger"
	"github.com/sirupsen/logrus"
)

type Summarizer struct {
	completer Completer
}

func NewSummarizer(completer Completer) *Summarizer {
	return &Summarizer{completer: completer}
}

// Summarize splits text into chunks of at most params.MaxChunkWords words,
// summarizes each chunk on its own and joins the results in order.
func (s *Summarizer) Summarize(ctx context.Context, text string, params Params) (string, error) {
	const op = "Summarizer.Summarize"

	if params.MaxChunkWords <= 0 {
		return "", errors.InvalidInput(op, nil, "max chunk size must be greater than 0")
	}

	chunks := ChunkWords(strings.Fields(text), params.MaxChunkWords)
	log := logger.FromContext(ctx).WithField("chunks", len(chunks))
	log.Debug("Summarizing text")

	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		log.WithFields(logrus.Fields{
			"chunk": i + 1,
			"words": len(chunk),
		}).Debug("Processing chunk")

		summary, err := s.processChunk(ctx, strings.Join(chunk, " "), params)
		if err != nil {
			return "", errors.Upstream(op, err, fmt.Sprintf("failed to summarize chunk %d", i+1))
		}
		if summary != "" {
			summaries = append(summaries, summary)
		}
	}

	return strings.Join(summaries, " "), nil
}

func (s *Summarizer) processChunk(ctx context.Context, chunk string, params Params) (string, error) {
	resp, err := s.completer.Complete(ctx, CompletionRequest{
		Model:            params.Model,
		System:           systemPrompt,
		User:             fmt.Sprintf("Summarize this for a %s: %s", params.Persona, chunk),
		MaxTokens:        params.MaxTokens,
		Temperature:      params.Temperature,
		TopP:             params.TopP,
		FrequencyPenalty: params.FrequencyPenalty,
	})
	if err != nil {
		return "", err
	}
	return TrimToSentence(resp), nil
}

// ChunkWords splits words into consecutive slices of at most size words.
// The last slice may be shorter; no words means no chunks.
func ChunkWords(words []string, size int) [][]string {
	if size <= 0 || len(words) == 0 {
		return nil
	}

	chunks := make([][]string, 0, (len(words)+size-1)/size)
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, words[i:end])
	}
	return chunks
}

// TrimToSentence drops the final sentence of a model response so the
// summary ends on a sentence the model finished. A response with a single
// sentence, or none, is kept whole and closed with a period. Blank responses
// yield "".
func TrimToSentence(resp string) string {
	resp = strings.TrimSpace(resp)
	body := strings.TrimSpace(strings.TrimRight(resp, "."))
	if body == "" {
		return ""
	}

	if idx := strings.LastIndex(body, "."); idx >= 0 {
		return strings.TrimSpace(body[:idx]) + "."
	}
	return body + "."
}
