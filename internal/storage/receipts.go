package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"fintrack-backend/internal/config"
)

// ReceiptStore uploads expense receipt images to an S3-compatible bucket
// (R2 in production). The stored object key is persisted on the expense.
type ReceiptStore struct {
	client *s3.Client
	bucket string
}

// NewReceiptStore configures the S3 client. Returns an error when
// credentials are missing so the caller can run without receipt uploads.
func NewReceiptStore(cfg *config.Config) (*ReceiptStore, error) {
	if cfg.Storage.AccessKey == "" || cfg.Storage.SecretKey == "" {
		return nil, fmt.Errorf("storage credentials not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Storage.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure storage client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
		}
	})

	return &ReceiptStore{client: client, bucket: cfg.Storage.Bucket}, nil
}

// Upload stores a receipt and returns its object key. Keys are namespaced
// by user so one user's receipts can never collide with another's.
func (s *ReceiptStore) Upload(ctx context.Context, userID, expenseID int, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("receipts/%d/%d-%d", userID, expenseID, time.Now().UnixNano())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt: %w", err)
	}
	return key, nil
}

// Fetch streams a stored receipt back to the caller.
func (s *ReceiptStore) Fetch(ctx context.Context, key string) (io.ReadCloser, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch receipt: %w", err)
	}
	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return out.Body, contentType, nil
}
