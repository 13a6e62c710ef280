package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/nijaru/ytsum/errors"
	"github.com/nijaru/ytsum/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Handler processes one inbound chat update.
type Handler func(ctx context.Context, update tgbotapi.Update)

type Middleware func(Handler) Handler

func Chain(handler Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			handler = middlewares[i](handler)
		}
	}
	return handler
}

type contextKey string

const TraceKey contextKey = "trace"

type TraceInfo struct {
	RequestID string
	StartTime time.Time
	ChatID    int64
	UpdateID  int
}

// Logging tags every update with a request id and stores a request-scoped
// logger in the context.
func Logging(base *logrus.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, update tgbotapi.Update) {
			trace := &TraceInfo{
				RequestID: uuid.New().String(),
				StartTime: time.Now(),
				ChatID:    ChatID(update),
				UpdateID:  update.UpdateID,
			}

			fields := logrus.Fields{
				"request_id": trace.RequestID,
				"update_id":  trace.UpdateID,
				"chat_id":    trace.ChatID,
			}
			if user := update.SentFrom(); user != nil {
				fields["user"] = user.UserName
			}
			entry := base.WithFields(fields)

			ctx = context.WithValue(ctx, TraceKey, trace)
			ctx = logger.WithContext(ctx, entry)

			entry.Debug("Update received")
			next(ctx, update)

			entry.WithField("duration", time.Since(trace.StartTime)).Info("Update handled")
		}
	}
}

// Recovery stops a panicking handler from taking the worker down with it.
func Recovery() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, update tgbotapi.Update) {
			defer func() {
				if rec := recover(); rec != nil {
					err := errors.Internal("middleware.Recovery", fmt.Errorf("%v", rec), "panic recovered")
					GetLogger(ctx).WithError(err).
						WithField("stack", string(debug.Stack())).
						Error("Panic in handler")
				}
			}()
			next(ctx, update)
		}
	}
}

// Timeout bounds the time spent on a single update.
func Timeout(timeout time.Duration) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, update tgbotapi.Update) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			next(ctx, update)
		}
	}
}

// RateLimiter keeps one token bucket per chat.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(requestsPerMinute int, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[int64]*rate.Limiter),
		limit:    rate.Limit(requestsPerMinute) / 60,
		burst:    burst,
	}
}

func (rl *RateLimiter) Allow(chatID int64) bool {
	rl.mu.Lock()
	limiter, ok := rl.limiters[chatID]
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[chatID] = limiter
	}
	rl.mu.Unlock()

	return limiter.Allow()
}

// Middleware drops updates from chats over their budget and hands them to
// onLimited instead.
func (rl *RateLimiter) Middleware(onLimited Handler) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, update tgbotapi.Update) {
			if update.Message == nil {
				next(ctx, update)
				return
			}
			if !rl.Allow(ChatID(update)) {
				GetLogger(ctx).Warn("Rate limit exceeded")
				if onLimited != nil {
					onLimited(ctx, update)
				}
				return
			}
			next(ctx, update)
		}
	}
}

func ChatID(update tgbotapi.Update) int64 {
	if chat := update.FromChat(); chat != nil {
		return chat.ID
	}
	return 0
}

func GetTraceInfo(ctx context.Context) *TraceInfo {
	if trace, ok := ctx.Value(TraceKey).(*TraceInfo); ok {
		return trace
	}
	return nil
}

func GetLogger(ctx context.Context) *logrus.Entry {
	return logger.FromContext(ctx)
}
