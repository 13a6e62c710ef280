package translation

import (
	"context"

	"cloud.google.com/go/translate"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleClient talks to Google Cloud Translation (v2, basic edition).
type GoogleClient struct {
	client *translate.Client
}

func NewGoogleClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*GoogleClient, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create translate client")
	}
	return &GoogleClient{client: client}, nil
}

func (g *GoogleClient) Translate(ctx context.Context, text, target string) (string, error) {
	tag, err := language.Parse(target)
	if err != nil {
		return "", errors.Wrapf(err, "invalid target language %q", target)
	}

	resp, err := g.client.Translate(ctx, []string{text}, tag, &translate.Options{
		Format: translate.Text,
	})
	if err != nil {
		return "", errors.Wrap(err, "translate request")
	}
	if len(resp) == 0 {
		return "", errors.New("translate request: empty response")
	}
	return resp[0].Text, nil
}

func (g *GoogleClient) Close() error {
	return g.client.Close()
}
