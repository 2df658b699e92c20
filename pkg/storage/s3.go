package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/chiquebutik/butik/pkg/logger"
)

type S3Config struct {
	Bucket   string
	Region   string
	Key      string
	Secret   string
	Endpoint string // MinIO, R2 and friends; empty for AWS
	// PublicURL overrides the bucket URL used for unsigned links.
	PublicURL string
	// PresignTTL > 0 makes URL return presigned GET links.
	PresignTTL time.Duration
}

type S3Disk struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	baseURL string
	ttl     time.Duration
}

func NewS3Disk(ctx context.Context, c S3Config) (*S3Disk, error) {
	if c.Bucket == "" {
		return nil, errors.New("storage/s3: bucket is not configured")
	}
	if c.Region == "" {
		c.Region = "eu-north-1"
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(c.Region)}
	if c.Key != "" && c.Secret != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.Key, c.Secret, ""),
		))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage/s3: load config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})

	base := strings.TrimRight(c.PublicURL, "/")
	if base == "" {
		if c.Endpoint != "" {
			base = strings.TrimRight(c.Endpoint, "/") + "/" + c.Bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.Bucket, c.Region)
		}
	}

	return &S3Disk{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  c.Bucket,
		baseURL: base,
		ttl:     c.PresignTTL,
	}, nil
}

func (d *S3Disk) URL(ctx context.Context, path string) string {
	key := cleanKey(path)
	if d.ttl > 0 {
		req, err := d.presign.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(d.bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(d.ttl))
		if err == nil {
			return req.URL
		}
		logger.WithCtx(ctx).Warn("storage/s3: presign failed, using public url", "key", key, "error", err)
	}
	return d.baseURL + "/" + key
}

func (d *S3Disk) Put(ctx context.Context, path string, r io.Reader, contentType string) error {
	// PutObject needs a seekable body to compute the payload hash.
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("storage/s3: read: %w", err)
	}
	in := &s3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(cleanKey(path)),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := d.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("storage/s3: put %s: %w", path, err)
	}
	return nil
}

func (d *S3Disk) Exists(ctx context.Context, path string) (bool, error) {
	_, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(cleanKey(path)),
	})
	if err == nil {
		return true, nil
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return false, nil
	}
	return false, fmt.Errorf("storage/s3: head %s: %w", path, err)
}
