// Package remote is the read-only adapter over the S3-compatible object
// store: bucket probing, folder (common-prefix) listing, suffix filtering,
// and object download. Network and auth errors never escape this boundary
// as panics or aborts; listings degrade to empty results and downloads to a
// false return, both logged.
package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/justinqcash1/s3search/pkg/logging"
)

// Config holds the credentials and location of the object store.
type Config struct {
	AccessKey string
	SecretKey string
	Region    string // defaults to us-east-1
	Endpoint  string // optional override for S3-compatible stores (MinIO etc.)
}

// api is the slice of the S3 client the adapter uses. It is satisfied by
// *s3.Client and by fakes in tests.
type api interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Client wraps the S3 API with the listing/download operations the search
// run needs.
type Client struct {
	api api
	log logging.Logger
}

// New builds a Client from static credentials.
func New(ctx context.Context, cfg Config, log logging.Logger) (*Client, error) {
	if log == nil {
		log = logging.NopLogger{}
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{api: client, log: log}, nil
}

// Connect probes the store by listing buckets, the cheapest call that
// exercises both the network path and the credentials.
func (c *Client) Connect(ctx context.Context) error {
	if _, err := c.api.ListBuckets(ctx, &s3.ListBucketsInput{}); err != nil {
		c.log.Error(ctx, "failed to connect to object store", "error", err)
		return fmt.Errorf("connecting to object store: %w", err)
	}
	c.log.Info(ctx, "connected to object store")
	return nil
}

// Buckets lists all available bucket names. Errors yield an empty list.
func (c *Client) Buckets(ctx context.Context) []string {
	out, err := c.api.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		c.log.Error(ctx, "error listing buckets", "error", err)
		return nil
	}
	names := make([]string, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		names = append(names, aws.ToString(b.Name))
	}
	return names
}

// ListObjects lists all object keys under prefix, following pagination.
// Errors yield an empty list.
func (c *Client) ListObjects(ctx context.Context, bucket, prefix string) []string {
	var keys []string
	p := s3.NewListObjectsV2Paginator(c.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			c.log.Error(ctx, "error listing objects", "bucket", bucket, "prefix", prefix, "error", err)
			return nil
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys
}

// ListFolders lists the immediate child folders (common prefixes ending in
// "/") under prefix. Errors yield an empty list.
func (c *Client) ListFolders(ctx context.Context, bucket, prefix string) []string {
	var folders []string
	p := s3.NewListObjectsV2Paginator(c.api, &s3.ListObjectsV2Input{
		Bucket:    aws.String(bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			c.log.Error(ctx, "error listing folders", "bucket", bucket, "prefix", prefix, "error", err)
			return nil
		}
		for _, cp := range page.CommonPrefixes {
			folders = append(folders, aws.ToString(cp.Prefix))
		}
	}
	return folders
}

// FilterObjectsByExtension lists all objects under prefix and keeps those
// whose key ends with ext, case-insensitively.
func (c *Client) FilterObjectsByExtension(ctx context.Context, bucket, prefix, ext string) []string {
	lowerExt := strings.ToLower(ext)
	var keys []string
	for _, key := range c.ListObjects(ctx, bucket, prefix) {
		if strings.HasSuffix(strings.ToLower(key), lowerExt) {
			keys = append(keys, key)
		}
	}
	return keys
}

// ObjectSize returns the size of an object in bytes, or -1 on error.
func (c *Client) ObjectSize(ctx context.Context, bucket, key string) int64 {
	out, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		c.log.Error(ctx, "error getting object size", "key", key, "error", err)
		return -1
	}
	return aws.ToInt64(out.ContentLength)
}

// Download materializes one object at localPath, creating parent
// directories as needed. Returns false on any failure; a partial file is
// removed.
func (c *Client) Download(ctx context.Context, bucket, key, localPath string) bool {
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		c.log.Error(ctx, "error creating download directory", "path", localPath, "error", err)
		return false
	}

	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		c.log.Error(ctx, "error downloading object", "key", key, "error", err)
		return false
	}
	defer out.Body.Close()

	f, err := os.Create(localPath)
	if err != nil {
		c.log.Error(ctx, "error creating local file", "path", localPath, "error", err)
		return false
	}

	_, err = io.Copy(f, out.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		c.log.Error(ctx, "error writing local file", "path", localPath, "error", err)
		os.Remove(localPath)
		return false
	}

	c.log.Info(ctx, "downloaded object", "key", key, "path", localPath)
	return true
}
