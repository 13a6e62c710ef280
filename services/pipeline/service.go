package pipeline

import (
	"context"
	stderrors "errors"

	"github.com/nijaru/ytsum/errors"
	"github.com/nijaru/ytsum/logger"
	"github.com/nijaru/ytsum/services/captions"
	"github.com/nijaru/ytsum/services/summary"
)

// ErrTranslationDisabled is returned by Translate when no translation
// backend was configured.
var ErrTranslationDisabled = stderrors.New("translation is not configured")

type CaptionSource interface {
	Fetch(ctx context.Context, ref, lang string) (string, error)
}

type TextSummarizer interface {
	Summarize(ctx context.Context, text string, params summary.Params) (string, error)
}

type TextTranslator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

type Config struct {
	Language        string
	TranslateTarget string
	Summary         summary.Params
}

// Service runs the caption to summary pipeline for one video at a time.
type Service struct {
	captions   CaptionSource
	summarizer TextSummarizer
	translator TextTranslator
	config     Config
}

// NewService wires the pipeline. translator may be nil.
func NewService(source CaptionSource, summarizer TextSummarizer, translator TextTranslator, cfg Config) *Service {
	return &Service{
		captions:   source,
		summarizer: summarizer,
		translator: translator,
		config:     cfg,
	}
}

// GetSummary fetches the captions of ref in the configured language and
// summarizes them. A video without usable captions yields a NotFound error
// and the language model is never called.
func (s *Service) GetSummary(ctx context.Context, ref string) (string, error) {
	const op = "PipelineService.GetSummary"
	log := logger.FromContext(ctx).WithField("video", ref)

	raw, err := s.captions.Fetch(ctx, ref, s.config.Language)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", err
		}
		return "", errors.NotFound(op, err, "captions unavailable")
	}

	text, err := captions.Normalize(raw)
	if err != nil {
		log.WithError(err).Warn("Failed to parse captions")
		return "", errors.NotFound(op, err, "captions unreadable")
	}

	log.WithField("chars", len(text)).Debug("Captions normalized")

	return s.summarizer.Summarize(ctx, text, s.config.Summary)
}

// Translate renders text in the configured target language.
func (s *Service) Translate(ctx context.Context, text string) (string, error) {
	if s.translator == nil {
		return "", ErrTranslationDisabled
	}
	return s.translator.Translate(ctx, text, s.config.TranslateTarget)
}

func (s *Service) TranslationEnabled() bool {
	return s.translator != nil
}

func (s *Service) TranslateTarget() string {
	return s.config.TranslateTarget
}
