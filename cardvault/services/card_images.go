package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// CardImageService stores card art in an S3-compatible bucket
// (DigitalOcean Spaces). Object keys are derived from the card id and
// series so the registry's ImageURL field stays stable.
type CardImageService struct {
	client   *s3.Client
	bucket   string
	region   string
	CardRoot string
}

func NewCardImageService(ctx context.Context, key, secret, region, bucket, cardRoot string) (*CardImageService, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load spaces config: %w", err)
	}

	return &CardImageService{
		client:   s3.NewFromConfig(cfg),
		bucket:   bucket,
		region:   region,
		CardRoot: strings.TrimPrefix(cardRoot, "/"),
	}, nil
}

// UploadCardImage stores the image and returns the public URL to put in
// the card's ImageURL field.
func (s *CardImageService) UploadCardImage(ctx context.Context, series string, cardID int64, data []byte) (string, error) {
	key := s.objectKey(series, cardID)
	contentType := "image/jpeg"

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
		ACL:         "public-read",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload card image %s: %w", key, err)
	}

	return s.ImageURL(series, cardID), nil
}

func (s *CardImageService) DeleteCardImage(ctx context.Context, series string, cardID int64) error {
	key := s.objectKey(series, cardID)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete card image %s: %w", key, err)
	}
	return nil
}

// ImageURL returns the public URL for a card's art whether or not the
// object exists yet.
func (s *CardImageService) ImageURL(series string, cardID int64) string {
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, s.objectKey(series, cardID))
}

func (s *CardImageService) objectKey(series string, cardID int64) string {
	series = strings.ToLower(strings.TrimSpace(series))
	if series == "" {
		series = "unsorted"
	}
	series = strings.ReplaceAll(series, " ", "_")
	return fmt.Sprintf("%s/%s/%d.jpg", s.CardRoot, series, cardID)
}

func (s *CardImageService) GetBucket() string {
	return s.bucket
}

func (s *CardImageService) GetRegion() string {
	return s.region
}
