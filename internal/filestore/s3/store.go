// Package s3 implements the filestore.Store interface over an S3-compatible
// object store. Working-root paths map to key prefixes inside one bucket;
// a directory is any key prefix with at least one object under it.
package s3

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/strata-io/strata/internal/filestore"
)

// maxDeleteBatch is the S3 DeleteObjects limit.
const maxDeleteBatch = 1000

// Config configures an S3-backed filestore.
type Config struct {
	// Bucket is the name of the S3 bucket holding the working root.
	Bucket string

	// Region is the AWS region (e.g., "us-east-1").
	// Required for AWS S3, optional for S3-compatible endpoints.
	Region string

	// Endpoint is the S3 endpoint URL (e.g., "http://localhost:9000" for MinIO).
	// If empty, uses the default AWS endpoint for the region.
	Endpoint string

	// AccessKeyID is the AWS access key ID.
	// If empty, uses the default credential chain.
	AccessKeyID string

	// SecretAccessKey is the AWS secret access key.
	// If empty, uses the default credential chain.
	SecretAccessKey string

	// UsePathStyle enables path-style addressing (required for MinIO and
	// some S3-compatible stores).
	UsePathStyle bool
}

// Store implements filestore.Store using AWS S3.
type Store struct {
	client *s3.Client
	bucket string
	closed bool
	mu     sync.RWMutex
}

// New creates a new S3 filestore with the given configuration.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket name is required")
	}

	opts := []func(*config.LoadOptions) error{}

	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	} else {
		opts = append(opts, config.WithRegion("us-east-1"))
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: failed to load AWS config: %w", err)
	}

	s3Opts := []func(*s3.Options){
		func(o *s3.Options) {
			// Suppress "Response has no supported checksum" warnings.
			o.DisableLogOutputChecksumValidationSkipped = true
		},
	}

	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)

	return &Store{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func (s *Store) checkClosed() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errors.New("s3: store is closed")
	}
	return nil
}

// pathToKey converts a slash-rooted filestore path to an S3 key.
func pathToKey(path string) string {
	return strings.Trim(path, "/")
}

// ListChildren returns the immediate children of dir using a delimited
// listing: common prefixes are subdirectories, contents are files.
func (s *Store) ListChildren(ctx context.Context, dir string) ([]string, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}

	prefix := pathToKey(dir)
	if prefix != "" {
		prefix += "/"
	}

	var names []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s.wrapError("ListChildren", dir, err)
		}

		for _, cp := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), "/")
			if name != "" {
				names = append(names, name)
			}
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if name != "" {
				names = append(names, name)
			}
		}
	}

	return names, nil
}

// Exists reports whether path exists as an object or as a non-empty prefix.
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	if err := s.checkClosed(); err != nil {
		return false, err
	}

	key := pathToKey(path)

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	wrapped := s.wrapError("Exists", path, err)
	if !errors.Is(wrapped, filestore.ErrNotFound) {
		return false, wrapped
	}

	// Not an exact object; probe for children under the prefix.
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(key + "/"),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, s.wrapError("Exists", path, err)
	}
	return len(out.Contents) > 0, nil
}

// Delete removes the object at path and everything under it.
func (s *Store) Delete(ctx context.Context, path string) error {
	if err := s.checkClosed(); err != nil {
		return err
	}

	key := pathToKey(path)

	// Collect the exact key plus all keys under the prefix, then delete
	// in DeleteObjects batches.
	var batch []types.ObjectIdentifier

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: batch,
				Quiet:   aws.Bool(true),
			},
		})
		batch = batch[:0]
		return err
	}

	batch = append(batch, types.ObjectIdentifier{Key: aws.String(key)})

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(key + "/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return s.wrapError("Delete", path, err)
		}
		for _, obj := range page.Contents {
			batch = append(batch, types.ObjectIdentifier{Key: obj.Key})
			if len(batch) >= maxDeleteBatch {
				if err := flush(); err != nil {
					return s.wrapError("Delete", path, err)
				}
			}
		}
	}

	if err := flush(); err != nil {
		return s.wrapError("Delete", path, err)
	}
	return nil
}

// Close releases resources associated with the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) wrapError(op, path string, err error) error {
	if err == nil {
		return nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		if respErr.HTTPStatusCode() == http.StatusNotFound {
			return &filestore.PathError{Op: op, Path: path, Err: filestore.ErrNotFound}
		}
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return &filestore.PathError{Op: op, Path: path, Err: filestore.ErrNotFound}
	}

	return &filestore.PathError{Op: op, Path: path, Err: err}
}
