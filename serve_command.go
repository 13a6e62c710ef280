package main

import (
	"context"
	"net"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nijaru/ytsum/handlers"
	"github.com/nijaru/ytsum/middleware"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx)
		},
	}
}

func runServe(runCtx context.Context, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateBot(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	log := ctx.log

	pipe, closePipeline, err := ctx.buildPipeline(runCtx)
	if err != nil {
		return err
	}
	defer closePipeline()

	db, repo, err := ctx.openJournal(runCtx)
	if err != nil {
		return err
	}
	defer db.Close()

	recovered, err := handlers.RecoverStale(ctx.logContext(runCtx, "serve"), repo, cfg.RequestTimeout)
	if err != nil {
		log.WithError(err).Warn("Failed to recover stale requests")
	} else if recovered > 0 {
		log.WithField("count", recovered).Info("Recovered stale requests")
	}

	opts := []handlers.BotOption{handlers.WithJournal(repo)}
	archive, err := ctx.openArchive(runCtx)
	if err != nil {
		return err
	}
	if archive != nil {
		opts = append(opts, handlers.WithArchive(archive))
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return errors.Wrap(err, "failed to connect to telegram")
	}
	bot.Debug = cfg.Debug
	log.WithField("bot", bot.Self.UserName).Info("Authorized on telegram")

	botHandler := handlers.NewBotHandler(bot, pipe, opts...)

	chain := []middleware.Middleware{
		middleware.Logging(log),
		middleware.Recovery(),
	}
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize)
		chain = append(chain, limiter.Middleware(botHandler.HandleLimited))
	}
	chain = append(chain, middleware.Timeout(cfg.RequestTimeout))

	dispatcher := handlers.NewDispatcher(middleware.Chain(botHandler.Handle, chain...), cfg.Telegram.Workers)

	var server *http.Server
	if cfg.HealthPort != "" {
		server = handlers.NewHealthServer(net.JoinHostPort("", cfg.HealthPort))
		go func() {
			log.WithField("port", cfg.HealthPort).Info("Health endpoint listening")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("Health server failed")
			}
		}()
	}

	update := tgbotapi.NewUpdate(0)
	update.Timeout = 60
	updates := bot.GetUpdatesChan(update)

	log.WithField("workers", cfg.Telegram.Workers).Info("Bot started")
	dispatcher.Run(runCtx, updates)

	log.Info("Shutting down")
	bot.StopReceivingUpdates()

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Health server shutdown failed")
		}
	}

	return nil
}
