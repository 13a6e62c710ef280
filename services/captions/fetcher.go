package captions

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/nijaru/ytsum/errors"
	"github.com/nijaru/ytsum/extractor"
	"github.com/nijaru/ytsum/logger"
	"github.com/sirupsen/logrus"
)

const trackFormat = "vtt"

// InfoExtractor reads caption metadata for a video reference.
type InfoExtractor interface {
	Extract(ctx context.Context, ref string) (*extractor.VideoInfo, error)
}

type Fetcher struct {
	extractor   InfoExtractor
	client      *http.Client
	includeAuto bool
}

type Option func(*Fetcher)

// WithHTTPClient replaces the client used to download caption bodies.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) { f.client = client }
}

// WithAutomaticCaptions makes Fetch fall back to machine-generated captions
// when no uploaded track exists for the language.
func WithAutomaticCaptions(enabled bool) Option {
	return func(f *Fetcher) { f.includeAuto = enabled }
}

func NewFetcher(ex InfoExtractor, opts ...Option) *Fetcher {
	f := &Fetcher{
		extractor: ex,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the raw WebVTT body of the video's captions in lang. Every
// way of not getting one is reported as a NotFound error; nothing is retried.
func (f *Fetcher) Fetch(ctx context.Context, ref, lang string) (string, error) {
	const op = "Fetcher.Fetch"
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"video":    ref,
		"language": lang,
	})

	info, err := f.extractor.Extract(ctx, ref)
	if err != nil {
		log.WithError(err).Warn("Could not read caption metadata")
		return "", errors.NotFound(op, err, "caption metadata unavailable")
	}

	if !info.Playable() {
		log.Info("Video has no formats")
		return "", errors.NotFound(op, nil, "video unavailable")
	}

	track, ok := SelectTrack(info, lang, f.includeAuto)
	if !ok {
		log.Info("No vtt captions for language")
		return "", errors.NotFound(op, nil, "no captions for language")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.URL, nil)
	if err != nil {
		log.WithError(err).Warn("Invalid caption link")
		return "", errors.NotFound(op, err, "invalid caption link")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		log.WithError(err).Warn("Caption download failed")
		return "", errors.NotFound(op, err, "caption download failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.StatusCode).Warn("Caption download returned non-OK status")
		return "", errors.NotFound(op, nil, "caption download failed")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Warn("Failed to read caption body")
		return "", errors.NotFound(op, err, "caption download failed")
	}

	return string(body), nil
}

// SelectTrack picks the vtt rendition for lang, looking at uploaded
// subtitles first and automatic captions second when includeAuto is set.
func SelectTrack(info *extractor.VideoInfo, lang string, includeAuto bool) (extractor.SubtitleTrack, bool) {
	if info == nil {
		return extractor.SubtitleTrack{}, false
	}

	if track, ok := findFormat(info.Subtitles[lang]); ok {
		return track, true
	}
	if includeAuto {
		return findFormat(info.AutomaticCaptions[lang])
	}
	return extractor.SubtitleTrack{}, false
}

func findFormat(tracks []extractor.SubtitleTrack) (extractor.SubtitleTrack, bool) {
	for _, track := range tracks {
		if track.Ext == trackFormat && track.URL != "" {
			return track, true
		}
	}
	return extractor.SubtitleTrack{}, false
}
