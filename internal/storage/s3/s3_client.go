// Package s3 loads previously uploaded scans from an S3-compatible bucket.
package s3

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"sahara/internal/config"
	"sahara/internal/domain"
)

// ImageSource implements port.ImageSource on a single bucket.
type ImageSource struct {
	bucket     string
	maxBytes   int64
	client     *s3.Client
	downloader *manager.Downloader
}

// NewImageSource creates an S3-backed image source. Objects larger than
// maxMB megabytes are rejected before download; maxMB <= 0 disables the limit.
func NewImageSource(cfg *config.S3Config, maxMB int64) (*ImageSource, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return &ImageSource{
		bucket:   cfg.Bucket,
		maxBytes: maxMB * 1024 * 1024,
		client:   client,
		downloader: manager.NewDownloader(client, func(d *manager.Downloader) {
			d.Concurrency = 1
		}),
	}, nil
}

// Fetch downloads the object stored under key. The object size is read
// with a HEAD request first so oversized scans are never transferred.
func (s *ImageSource) Fetch(ctx context.Context, key string) ([]byte, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return nil, domain.InvalidInputf("image key is required")
	}

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrImageNotFound, key)
		}
		return nil, fmt.Errorf("s3 head: %w", err)
	}
	size := aws.ToInt64(head.ContentLength)
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, domain.InvalidInputf("stored image %s is %d bytes, limit is %d bytes", key, size, s.maxBytes)
	}

	buf := manager.NewWriteAtBuffer(make([]byte, 0, size))
	n, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrImageNotFound, key)
		}
		return nil, fmt.Errorf("s3 download: %w", err)
	}
	// The object may have been replaced between the HEAD and the GET.
	if s.maxBytes > 0 && n > s.maxBytes {
		return nil, domain.InvalidInputf("stored image %s is %d bytes, limit is %d bytes", key, n, s.maxBytes)
	}
	return buf.Bytes()[:n], nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
