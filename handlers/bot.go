package handlers

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/nijaru/ytsum/errors"
	"github.com/nijaru/ytsum/middleware"
	"github.com/nijaru/ytsum/models"
	"github.com/nijaru/ytsum/repository"
	"github.com/nijaru/ytsum/utils"
	"github.com/nijaru/ytsum/validation"
	"github.com/sirupsen/logrus"
)

const (
	MessageLimit = 4096
	historySize  = 5

	greetingText    = "Hello! Send me a YouTube video link."
	waitText        = "Please wait for a while..."
	noSummaryText   = "Sorry, there is no summary :("
	failureText     = "Sorry, something went wrong while summarizing this video. Please try again later."
	translationFail = "Sorry, the translation is not available right now."
	rateLimitedText = "Too many requests, please slow down."
	emptyHistory    = "You have not summarized any videos yet."
	helpText        = "Send me a link to a YouTube video and I will reply with a short summary of its captions.\n\n" +
		"/start - greeting\n" +
		"/help - this message\n" +
		"/history - your last requests"
)

// Sender delivers outgoing chat messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Pipeline interface {
	GetSummary(ctx context.Context, ref string) (string, error)
	Translate(ctx context.Context, text string) (string, error)
	TranslationEnabled() bool
}

type Archiver interface {
	SaveSummary(ctx context.Context, req *models.Request) error
}

type BotHandler struct {
	sender   Sender
	pipeline Pipeline
	repo     repository.RequestRepository
	archive  Archiver
}

type BotOption func(*BotHandler)

// WithJournal records every summarization request in repo.
func WithJournal(repo repository.RequestRepository) BotOption {
	return func(h *BotHandler) { h.repo = repo }
}

// WithArchive copies completed summaries to archive.
func WithArchive(archive Archiver) BotOption {
	return func(h *BotHandler) { h.archive = archive }
}

func NewBotHandler(sender Sender, pipeline Pipeline, opts ...BotOption) *BotHandler {
	h := &BotHandler{sender: sender, pipeline: pipeline}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle routes one update. Only text messages are answered.
func (h *BotHandler) Handle(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			h.reply(ctx, msg.Chat.ID, greetingText)
		case "history":
			h.history(ctx, msg.Chat.ID)
		default:
			h.reply(ctx, msg.Chat.ID, helpText)
		}
		return
	}

	if strings.TrimSpace(msg.Text) == "" {
		return
	}

	h.summarize(ctx, msg.Chat.ID, msg.Text)
}

// HandleLimited answers a chat that exceeded its request budget.
func (h *BotHandler) HandleLimited(ctx context.Context, update tgbotapi.Update) {
	if chatID := middleware.ChatID(update); chatID != 0 {
		h.reply(ctx, chatID, rateLimitedText)
	}
}

func (h *BotHandler) summarize(ctx context.Context, chatID int64, text string) {
	log := middleware.GetLogger(ctx)

	ref, err := validation.VideoReference(text)
	if err != nil {
		log.WithError(err).Debug("Rejected video reference")
		h.reply(ctx, chatID, rejectionText(err))
		return
	}

	req := models.NewRequest(requestID(ctx), chatID, ref)
	log = log.WithFields(logrus.Fields{"video": ref, "journal_id": req.ID})
	h.record(ctx, req)

	h.reply(ctx, chatID, waitText)

	summary, err := h.pipeline.GetSummary(ctx, ref)
	switch {
	case errors.IsNotFound(err) || (err == nil && summary == ""):
		log.WithError(err).Info("No summary for video")
		req.MarkNoCaptions()
		h.record(ctx, req)
		h.reply(ctx, chatID, noSummaryText)
		return
	case err != nil:
		log.WithError(err).WithField("kind", errors.KindOf(err)).Error("Summarization failed")
		req.Fail(err)
		h.record(ctx, req)
		h.reply(ctx, chatID, failureText)
		return
	}

	req.Complete(summary)
	h.reply(ctx, chatID, summary)

	if h.pipeline.TranslationEnabled() {
		translation, err := h.pipeline.Translate(ctx, summary)
		if err != nil {
			log.WithError(err).Error("Translation failed")
			h.reply(ctx, chatID, translationFail)
		} else if translation != "" {
			req.SetTranslation(translation)
			h.reply(ctx, chatID, translation)
		}
	}

	h.record(ctx, req)
	if h.archive != nil {
		if err := h.archive.SaveSummary(ctx, req); err != nil {
			log.WithError(err).Warn("Failed to archive summary")
		}
	}
	log.WithField("chars", len(summary)).Info("Summary delivered")
}

func (h *BotHandler) history(ctx context.Context, chatID int64) {
	if h.repo == nil {
		h.reply(ctx, chatID, emptyHistory)
		return
	}

	requests, err := h.repo.ListByChat(ctx, chatID, historySize)
	if err != nil {
		middleware.GetLogger(ctx).WithError(err).Error("Failed to load history")
		h.reply(ctx, chatID, failureText)
		return
	}
	if len(requests) == 0 {
		h.reply(ctx, chatID, emptyHistory)
		return
	}

	var b strings.Builder
	for i, req := range requests {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, req.Status, req.VideoURL)
	}
	h.reply(ctx, chatID, b.String())
}

func (h *BotHandler) record(ctx context.Context, req *models.Request) {
	if h.repo == nil {
		return
	}
	if err := h.repo.Save(ctx, req); err != nil {
		middleware.GetLogger(ctx).WithError(err).Warn("Failed to journal request")
	}
}

func (h *BotHandler) reply(ctx context.Context, chatID int64, text string) {
	for _, part := range utils.SplitMessage(text, MessageLimit) {
		if _, err := h.sender.Send(tgbotapi.NewMessage(chatID, part)); err != nil {
			middleware.GetLogger(ctx).WithError(err).Error("Failed to send message")
			return
		}
	}
}

func rejectionText(err error) string {
	var vErr *validation.ValidationError
	if stderrors.As(err, &vErr) {
		return "Please send a valid video link: " + vErr.Message + "."
	}
	return "Please send a valid video link."
}

func requestID(ctx context.Context) string {
	if trace := middleware.GetTraceInfo(ctx); trace != nil && trace.RequestID != "" {
		return trace.RequestID
	}
	return uuid.New().String()
}
