package models

import (
	"time"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusNoCaptions Status = "no_captions"
	StatusFailed     Status = "failed"
)

// Request is one summarization request, journaled from the moment the bot
// accepts a video reference until it replies.
type Request struct {
	ID          string    `json:"id"`
	ChatID      int64     `json:"chat_id"`
	VideoURL    string    `json:"video_url"`
	Status      Status    `json:"status"`
	Summary     string    `json:"summary,omitempty"`
	Translation string    `json:"translation,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewRequest(id string, chatID int64, videoURL string) *Request {
	now := time.Now().UTC()
	return &Request{
		ID:        id,
		ChatID:    chatID,
		VideoURL:  videoURL,
		Status:    StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (r *Request) IsProcessing() bool { return r.Status == StatusProcessing }
func (r *Request) IsCompleted() bool  { return r.Status == StatusCompleted }
func (r *Request) IsFailed() bool     { return r.Status == StatusFailed }

func (r *Request) Complete(summary string) {
	r.Status = StatusCompleted
	r.Summary = summary
	r.Error = ""
	r.touch()
}

func (r *Request) MarkNoCaptions() {
	r.Status = StatusNoCaptions
	r.touch()
}

func (r *Request) Fail(err error) {
	r.Status = StatusFailed
	if err != nil {
		r.Error = err.Error()
	}
	r.touch()
}

func (r *Request) SetTranslation(text string) {
	r.Translation = text
	r.touch()
}

func (r *Request) touch() {
	r.UpdatedAt = time.Now().UTC()
}

// IsStale reports whether a request has been stuck in processing for longer
// than timeout.
func (r *Request) IsStale(timeout time.Duration) bool {
	if r.Status != StatusProcessing {
		return false
	}
	return time.Since(r.UpdatedAt) > timeout
}
