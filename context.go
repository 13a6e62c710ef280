package main

import (
	"context"

	"github.com/nijaru/ytsum/config"
	"github.com/nijaru/ytsum/extractor"
	applogger "github.com/nijaru/ytsum/logger"
	"github.com/nijaru/ytsum/llm"
	"github.com/nijaru/ytsum/repository/sqlite"
	"github.com/nijaru/ytsum/services/captions"
	"github.com/nijaru/ytsum/services/pipeline"
	"github.com/nijaru/ytsum/services/summary"
	"github.com/nijaru/ytsum/services/translation"
	"github.com/nijaru/ytsum/storage"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// commandContext lazily loads configuration and builds the components a
// command asks for.
type commandContext struct {
	envFile *string

	cfg *config.Config
	log *logrus.Logger
}

func newCommandContext(envFile *string) *commandContext {
	return &commandContext{envFile: envFile}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	cfg, err := config.Load(*c.envFile)
	if err != nil {
		return nil, err
	}

	log, err := applogger.New(applogger.Options{
		Dir:    cfg.LogDir,
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Debug:  cfg.Debug,
	})
	if err != nil {
		return nil, err
	}

	c.cfg = cfg
	c.log = log
	return cfg, nil
}

func (c *commandContext) logContext(ctx context.Context, command string) context.Context {
	return applogger.WithContext(ctx, c.log.WithField("command", command))
}

// buildPipeline wires extractor, caption fetcher, language model and the
// optional translator. The returned close func releases the translator.
func (c *commandContext) buildPipeline(ctx context.Context) (*pipeline.Service, func() error, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid configuration")
	}

	runner, err := extractor.NewRunner(extractor.Config{
		BinaryPath: cfg.Extractor.BinaryPath,
		Timeout:    cfg.Extractor.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}

	fetcher := captions.NewFetcher(runner, captions.WithAutomaticCaptions(cfg.Summary.IncludeAuto))
	summarizer := summary.NewSummarizer(llm.NewClient(llm.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
	}))

	closeFn := func() error { return nil }
	var translator pipeline.TextTranslator
	if cfg.Translation.APIKey != "" {
		client, err := translation.NewGoogleClient(ctx, cfg.Translation.APIKey)
		if err != nil {
			return nil, nil, err
		}
		translator = translation.NewService(client)
		closeFn = client.Close
	} else {
		c.log.Info("GOOGLE_TRANSLATE_API_KEY not set, translation disabled")
	}

	svc := pipeline.NewService(fetcher, summarizer, translator, pipeline.Config{
		Language:        cfg.Summary.Language,
		TranslateTarget: cfg.Translation.Target,
		Summary: summary.Params{
			MaxChunkWords:    cfg.Summary.MaxChunkWords,
			Persona:          cfg.Summary.Persona,
			Model:            cfg.Summary.Model,
			MaxTokens:        cfg.Summary.MaxTokens,
			Temperature:      cfg.Summary.Temperature,
			TopP:             cfg.Summary.TopP,
			FrequencyPenalty: cfg.Summary.FrequencyPenalty,
		},
	})

	return svc, closeFn, nil
}

func (c *commandContext) openJournal(ctx context.Context) (*sqlite.DB, *sqlite.Repository, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.Path == "" {
		return nil, nil, errors.New("database path is required")
	}

	db, err := sqlite.Open(ctx, cfg.Database.Path, sqlite.DefaultDBConfig())
	if err != nil {
		return nil, nil, err
	}
	return db, sqlite.NewRepository(db), nil
}

// openArchive returns nil when no bucket is configured.
func (c *commandContext) openArchive(ctx context.Context) (*storage.SpacesClient, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Archive.Enabled() {
		return nil, nil
	}

	return storage.NewSpacesClient(ctx, storage.SpacesConfig{
		AccessKey: cfg.Archive.AccessKey,
		SecretKey: cfg.Archive.SecretKey,
		Region:    cfg.Archive.Region,
		Endpoint:  cfg.Archive.Endpoint,
		Bucket:    cfg.Archive.Bucket,
	})
}
