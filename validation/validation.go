package validation

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/nijaru/ytsum/errors"
)

const maxReferenceLength = 2048

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return errors.InvalidInput("validation.VideoReference", &ValidationError{Message: message}, message)
}

// VideoReference checks a user-supplied video link or id before it is handed
// to the caption extractor and returns it trimmed.
func VideoReference(raw string) (string, error) {
	ref := strings.TrimSpace(raw)
	if ref == "" {
		return "", invalid("video link is required")
	}
	if len(ref) > maxReferenceLength {
		return "", invalid("video link is too long")
	}
	if strings.HasPrefix(ref, "-") {
		return "", invalid("video link must not start with '-'")
	}
	if strings.IndexFunc(ref, unicode.IsSpace) >= 0 {
		return "", invalid("video link must not contain spaces")
	}

	if !strings.Contains(ref, "://") {
		return ref, nil
	}

	parsedURL, err := url.ParseRequestURI(ref)
	if err != nil {
		return "", invalid("invalid URL format")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", invalid("URL must start with http or https")
	}
	if parsedURL.Host == "" {
		return "", invalid("URL must have a host")
	}

	if strings.Contains(parsedURL.Host, "youtube.com") && parsedURL.Path == "/watch" {
		if parsedURL.Query().Get("v") == "" {
			return "", invalid("YouTube URL must contain a valid video ID")
		}
	}

	return ref, nil
}
