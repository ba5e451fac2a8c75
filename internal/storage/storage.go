// Package storage loads documents from the local filesystem or S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// SchemeS3 prefixes object storage locations: s3://bucket/key.
const SchemeS3 = "s3"

// MaxDocumentSize caps how much of a document is read.
const MaxDocumentSize = 20 << 20

// S3Config describes an S3-compatible endpoint such as AWS, Cloudflare R2 or MinIO.
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access-key"`
	SecretKey string `mapstructure:"secret-key"`
	// PathStyle addresses buckets as endpoint/bucket, required by MinIO.
	PathStyle bool `mapstructure:"path-style"`
}

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader reads documents by location. The S3 client is created on first use.
type Loader struct {
	s3cfg  S3Config
	logger *zap.Logger

	mu     sync.Mutex
	client objectGetter
}

func NewLoader(cfg S3Config, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{s3cfg: cfg, logger: logger}
}

// Load returns the document at location, either a filesystem path or s3://bucket/key.
func (l *Loader) Load(ctx context.Context, location string) ([]byte, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.New("document location is empty")
	}

	bucket, key, ok, err := ParseS3(location)
	if err != nil {
		return nil, err
	}
	if !ok {
		return readFile(location)
	}

	client, err := l.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("downloading document", zap.String("bucket", bucket), zap.String("key", key))
	return Download(ctx, client, bucket, key)
}

func (l *Loader) s3Client(ctx context.Context) (objectGetter, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client == nil {
		client, err := NewS3Client(ctx, l.s3cfg)
		if err != nil {
			return nil, err
		}
		l.client = client
	}
	return l.client, nil
}

// ParseS3 splits s3://bucket/key. ok is false for locations without the s3 scheme.
func ParseS3(location string) (bucket, key string, ok bool, err error) {
	if !strings.HasPrefix(strings.ToLower(location), SchemeS3+"://") {
		return "", "", false, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return "", "", true, fmt.Errorf("parse %q: %w", location, err)
	}

	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", true, fmt.Errorf("%q must look like s3://bucket/key", location)
	}
	return bucket, key, true, nil
}

// NewS3Client builds a client from the default AWS chain, overridden by static
// credentials and a custom endpoint when configured.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	}), nil
}

// Download reads a whole object, up to MaxDocumentSize bytes.
func Download(ctx context.Context, client objectGetter, bucket, key string) ([]byte, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	return readLimited(out.Body, fmt.Sprintf("s3://%s/%s", bucket, key))
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	return readLimited(f, path)
}

func readLimited(r io.Reader, name string) ([]byte, error) {
	buf := new(bytes.Buffer)
	n, err := io.Copy(buf, io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if n > MaxDocumentSize {
		return nil, fmt.Errorf("%s is larger than %d bytes", name, MaxDocumentSize)
	}
	return buf.Bytes(), nil
}
