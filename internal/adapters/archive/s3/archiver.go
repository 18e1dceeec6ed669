// Package s3 archives completed interview reports to S3-compatible object
// storage (AWS S3, Cloudflare R2, MinIO).
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
	"github.com/tjfontaine/interview-coach/internal/core/ports"
)

const (
	// DefaultPrefix is the key prefix for archived reports.
	DefaultPrefix = "reports"
	// DefaultAttempts is how many times an upload is tried.
	DefaultAttempts = 3
)

// Config describes the bucket to archive into.
type Config struct {
	Bucket       string `koanf:"bucket"`
	Prefix       string `koanf:"prefix"`
	Region       string `koanf:"region"`
	Endpoint     string `koanf:"endpoint"`
	AccessKey    string `koanf:"access_key"`
	SecretKey    string `koanf:"secret_key"`
	UsePathStyle bool   `koanf:"use_path_style"`
}

type putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver uploads each report as JSON to <prefix>/<user>/<session>.json.
type Archiver struct {
	client   putter
	bucket   string
	prefix   string
	attempts int
	backoff  func(attempt int) time.Duration
}

var _ ports.ReportArchiver = (*Archiver)(nil)

// Option configures an Archiver.
type Option func(*Archiver)

// WithAttempts sets the number of upload attempts.
func WithAttempts(n int) Option {
	return func(a *Archiver) {
		if n > 0 {
			a.attempts = n
		}
	}
}

// WithBackoff replaces the wait between attempts.
func WithBackoff(f func(attempt int) time.Duration) Option {
	return func(a *Archiver) {
		a.backoff = f
	}
}

// New builds an S3 client from cfg. Static credentials are used when both
// keys are set; otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg Config, opts ...Option) (*Archiver, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
		// Attempts are counted by the archiver.
		o.RetryMaxAttempts = 1
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	return NewWithClient(client, cfg.Bucket, cfg.Prefix, opts...), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client putter, bucket, prefix string, opts ...Option) *Archiver {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	a := &Archiver{
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		attempts: DefaultAttempts,
		backoff: func(attempt int) time.Duration {
			return time.Duration(500*(attempt+1)) * time.Millisecond
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the object key for a report.
func (a *Archiver) Key(r *domain.FinalReport) string {
	return path.Join(a.prefix, r.UserID, r.SessionID+".json")
}

// Archive uploads r, retrying failed attempts.
func (a *Archiver) Archive(ctx context.Context, r *domain.FinalReport) error {
	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	key := a.Key(r)

	_, err = retry(ctx, a.attempts, a.backoff, func() (*s3.PutObjectOutput, error) {
		return a.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(a.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(body),
			ContentType: aws.String("application/json"),
		})
	})
	if err != nil {
		return fmt.Errorf("archive %s: %w", key, err)
	}
	return nil
}

// retry calls fn up to attempts times, waiting backoff(i) after failure i.
func retry[T any](ctx context.Context, attempts int, backoff func(int) time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff(i)):
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
