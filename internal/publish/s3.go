// Package publish uploads generated calendars to S3-compatible object storage.
package publish

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/aristath/marketcal/internal/config"
)

const calendarContentType = "text/calendar; charset=utf-8"

// Publisher uploads a calendar body under a file name and returns the object key
type Publisher interface {
	Publish(ctx context.Context, name string, body io.Reader) (string, error)
}

// uploader is the slice of manager.Uploader the publisher needs
type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Publisher publishes calendars to a bucket (AWS S3, Cloudflare R2, MinIO)
type S3Publisher struct {
	uploader uploader
	bucket   string
	prefix   string
	log      zerolog.Logger
}

// NewS3Publisher builds an S3 client from the publish configuration.
// A custom endpoint switches to path-style addressing.
func NewS3Publisher(ctx context.Context, cfg *config.PublishConfig, log zerolog.Logger) (*S3Publisher, error) {
	if cfg == nil || cfg.Bucket == "" {
		return nil, fmt.Errorf("publish bucket is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Publisher(manager.NewUploader(client), cfg.Bucket, cfg.Prefix, log), nil
}

func newS3Publisher(up uploader, bucket, prefix string, log zerolog.Logger) *S3Publisher {
	return &S3Publisher{
		uploader: up,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		log:      log.With().Str("service", "publish").Str("bucket", bucket).Logger(),
	}
}

// Key returns the object key a file name is stored under
func (p *S3Publisher) Key(name string) string {
	if p.prefix == "" {
		return name
	}
	return path.Join(p.prefix, name)
}

// Publish uploads the calendar body
func (p *S3Publisher) Publish(ctx context.Context, name string, body io.Reader) (string, error) {
	key := p.Key(name)

	p.log.Info().Str("key", key).Msg("Uploading calendar")

	out, err := p.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(calendarContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	p.log.Info().Str("key", key).Str("location", out.Location).Msg("Calendar uploaded")

	return key, nil
}
