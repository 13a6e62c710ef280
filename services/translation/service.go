package translation

import (
	"context"
	"strings"
	"unicode"

	"github.com/nijaru/ytsum/errors"
	"github.com/nijaru/ytsum/logger"
	"github.com/sirupsen/logrus"
)

// Translator renders text in the target language with a single request.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

type Service struct {
	translator Translator
}

func NewService(translator Translator) *Service {
	return &Service{translator: translator}
}

// Translate sends the whole text in one call and normalizes the spacing
// after periods in the result.
func (s *Service) Translate(ctx context.Context, text, target string) (string, error) {
	const op = "TranslationService.Translate"

	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"target": target,
		"chars":  len(text),
	}).Debug("Translating text")

	translated, err := s.translator.Translate(ctx, text, target)
	if err != nil {
		return "", errors.Upstream(op, err, "translation failed")
	}

	return NormalizeSentenceSpacing(translated), nil
}

// NormalizeSentenceSpacing leaves exactly one space after each period that
// ends a sentence. Periods inside numbers, runs of periods and periods
// followed by a line break are kept as they are. Applying it twice gives the
// same result as applying it once.
func NormalizeSentenceSpacing(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text) + len(text)/8)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		b.WriteRune(r)
		if r != '.' {
			continue
		}

		if i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
			continue
		}

		j := i + 1
		for j < len(runes) && (runes[j] == ' ' || runes[j] == '\t') {
			j++
		}
		if j == len(runes) {
			i = j - 1
			continue
		}
		if runes[j] == '.' || runes[j] == '\n' || runes[j] == '\r' {
			i = j - 1
			continue
		}

		b.WriteRune(' ')
		i = j - 1
	}

	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}
