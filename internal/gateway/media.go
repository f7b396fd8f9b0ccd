package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"backend/internal/models"
)

// MediaStorage is the external image host. Assets are addressed by the
// public id returned from UploadImage; deleting an entity's record must
// release its assets through DeleteImage.
type MediaStorage interface {
	UploadImage(ctx context.Context, folder, payload string) (models.Asset, error)
	DeleteImage(ctx context.Context, publicID string) error
}

// S3MediaStorage stores image assets in an S3 bucket. The object key doubles
// as the asset's public id.
type S3MediaStorage struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
}

type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
}

func NewS3MediaStorage(cfg S3Config) (*S3MediaStorage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = awssdk.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3MediaStorage{
		client:   client,
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		endpoint: cfg.Endpoint,
	}, nil
}

// UploadImage decodes a base64 image payload (raw or data-URI) and stores it
// under a fresh key inside folder.
func (m *S3MediaStorage) UploadImage(ctx context.Context, folder, payload string) (models.Asset, error) {
	contentType, data, err := decodeImagePayload(payload)
	if err != nil {
		return models.Asset{}, err
	}

	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), extensionFor(contentType))

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awssdk.String(m.bucket),
		Key:         awssdk.String(key),
		Body:        bytes.NewReader(data),
		ContentType: awssdk.String(contentType),
	})
	if err != nil {
		return models.Asset{}, fmt.Errorf("media upload failed: %w", err)
	}

	return models.Asset{PublicID: key, URL: m.objectURL(key)}, nil
}

func (m *S3MediaStorage) DeleteImage(ctx context.Context, publicID string) error {
	if strings.TrimSpace(publicID) == "" {
		return nil
	}

	_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: awssdk.String(m.bucket),
		Key:    awssdk.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("media delete failed: %w", err)
	}
	return nil
}

func (m *S3MediaStorage) objectURL(key string) string {
	if m.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(m.endpoint, "/"), m.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.bucket, m.region, key)
}

// decodeImagePayload accepts either a bare base64 string or a
// "data:image/…;base64,…" URI and returns the content type and raw bytes.
func decodeImagePayload(payload string) (string, []byte, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return "", nil, fmt.Errorf("empty image payload")
	}

	contentType := "image/jpeg"
	if strings.HasPrefix(trimmed, "data:") {
		meta, rest, found := strings.Cut(trimmed, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return "", nil, fmt.Errorf("unsupported image payload encoding")
		}
		contentType = strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
		trimmed = rest
	}

	data, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 image payload: %w", err)
	}

	return contentType, data, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
