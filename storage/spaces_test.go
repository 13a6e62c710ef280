package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	apperrors "github.com/nijaru/ytsum/errors"
	"github.com/nijaru/ytsum/models"
)

type memoryBucket struct {
	objects map[string][]byte
}

func (m *memoryBucket) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *memoryBucket) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := m.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestSaveAndGetSummary(t *testing.T) {
	bucket := &memoryBucket{objects: map[string][]byte{}}
	client := newSpacesClient(bucket, "ytsum")

	req := models.NewRequest("abc", 7, "https://youtu.be/xyz")
	req.Complete("Done.")

	if err := client.SaveSummary(context.Background(), req); err != nil {
		t.Fatalf("SaveSummary() error = %v", err)
	}
	if _, ok := bucket.objects["ytsum/summaries/abc.json"]; !ok {
		t.Fatalf("expected object under summaries/abc.json, have %v", bucket.objects)
	}

	got, err := client.GetSummary(context.Background(), "abc")
	if err != nil {
		t.Fatalf("GetSummary() error = %v", err)
	}
	if got.Summary != "Done." {
		t.Errorf("expected 'Done.', got '%s'", got.Summary)
	}
	if got.Status != models.StatusCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}
}

func TestGetSummaryMissing(t *testing.T) {
	client := newSpacesClient(&memoryBucket{objects: map[string][]byte{}}, "ytsum")

	_, err := client.GetSummary(context.Background(), "missing")
	if !apperrors.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}
