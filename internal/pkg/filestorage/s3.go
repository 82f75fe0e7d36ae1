package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// S3Config options for the S3 backend.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, for S3-compatible services
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// s3API is the subset of the S3 client used by S3Storage.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage keeps blobs as objects in one bucket, keyed by blob name.
type S3Storage struct {
	client s3API
	bucket string
}

// NewS3Storage builds an S3 client from cfg.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	logger.Info().Str("bucket", cfg.Bucket).Str("region", cfg.Region).Msg("S3 storage configured")
	return &S3Storage{client: client, bucket: cfg.Bucket}, nil
}

// newS3StorageWithClient is used by tests to inject a fake client.
func newS3StorageWithClient(client s3API, bucket string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket}
}

// Put uploads r with a conditional write so an existing key is never replaced.
func (s *S3Storage) Put(ctx context.Context, name string, r io.Reader) error {
	if err := ValidateReference(name); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(name),
		Body:        r,
		ContentType: aws.String(contentTypeFor(name)),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		if isAPIError(err, "PreconditionFailed", "ConditionalRequestConflict") {
			return apperrors.ErrBlobExists
		}
		return fmt.Errorf("%w: failed to upload object: %w", apperrors.ErrStorage, err)
	}
	return nil
}

// Delete removes the object. S3 deletes are idempotent.
func (s *S3Storage) Delete(ctx context.Context, name string) error {
	if err := ValidateReference(name); err != nil {
		return err
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		if isAPIError(err, "NoSuchKey", "NotFound") {
			return nil
		}
		return fmt.Errorf("%w: failed to delete object: %w", apperrors.ErrStorage, err)
	}
	return nil
}

// Open streams the object body.
func (s *S3Storage) Open(ctx context.Context, name string) (*Blob, error) {
	if err := ValidateReference(name); err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) || isAPIError(err, "NoSuchKey", "NotFound") {
			return nil, apperrors.ErrBlobNotFound
		}
		return nil, fmt.Errorf("%w: failed to download object: %w", apperrors.ErrStorage, err)
	}

	blob := &Blob{Name: name, Body: out.Body, ContentType: contentTypeFor(name)}
	if out.ContentLength != nil {
		blob.Size = *out.ContentLength
	}
	if out.ContentType != nil && *out.ContentType != "" {
		blob.ContentType = *out.ContentType
	}
	return blob, nil
}

func isAPIError(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, c := range codes {
		if apiErr.ErrorCode() == c {
			return true
		}
	}
	return false
}
