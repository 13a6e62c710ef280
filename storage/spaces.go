package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nijaru/ytsum/errors"
	"github.com/nijaru/ytsum/models"
)

type SpacesConfig struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
	Bucket    string
}

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// SpacesClient archives finished summaries as JSON objects in an
// S3-compatible bucket.
type SpacesClient struct {
	client objectAPI
	bucket string
}

// Archived is the stored form of a finished request.
type Archived struct {
	ID          string        `json:"id"`
	VideoURL    string        `json:"video_url"`
	Status      models.Status `json:"status"`
	Summary     string        `json:"summary"`
	Translation string        `json:"translation,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
}

func NewSpacesClient(ctx context.Context, cfg SpacesConfig) (*SpacesClient, error) {
	const op = "storage.NewSpacesClient"

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, errors.Internal(op, err, "unable to load SDK config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newSpacesClient(client, cfg.Bucket), nil
}

func newSpacesClient(client objectAPI, bucket string) *SpacesClient {
	return &SpacesClient{client: client, bucket: bucket}
}

func objectKey(id string) string {
	return fmt.Sprintf("summaries/%s.json", id)
}

func (s *SpacesClient) SaveSummary(ctx context.Context, req *models.Request) error {
	const op = "SpacesClient.SaveSummary"

	data := Archived{
		ID:          req.ID,
		VideoURL:    req.VideoURL,
		Status:      req.Status,
		Summary:     req.Summary,
		Translation: req.Translation,
		Timestamp:   time.Now().UTC(),
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return errors.Internal(op, err, "failed to marshal summary")
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey(req.ID)),
		Body:        bytes.NewReader(jsonData),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.Internal(op, err, "failed to save to Spaces")
	}

	return nil
}

func (s *SpacesClient) GetSummary(ctx context.Context, id string) (*Archived, error) {
	const op = "SpacesClient.GetSummary"

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(id)),
	})
	if err != nil {
		return nil, errors.NotFound(op, err, "summary not archived")
	}
	defer result.Body.Close()

	var data Archived
	if err := json.NewDecoder(result.Body).Decode(&data); err != nil {
		return nil, errors.Internal(op, err, "failed to decode summary")
	}

	return &data, nil
}
