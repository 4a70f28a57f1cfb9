package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config holds the settings of the S3 snapshot bucket
type S3Config struct {
	Region         string
	Bucket         string
	AccessKey      string
	SecretKey      string
	EndpointURL    string // For S3-compatible services (MinIO, LocalStack)
	ForcePathStyle bool   // Required for MinIO
}

// S3SnapshotStore keeps deployment snapshots in an S3 bucket
type S3SnapshotStore struct {
	client *s3.Client
	bucket string
}

// NewS3SnapshotStore creates a snapshot store backed by S3
func NewS3SnapshotStore(ctx context.Context, s3Config *S3Config) (*S3SnapshotStore, error) {
	if s3Config.Region == "" {
		return nil, fmt.Errorf("region is required")
	}
	if s3Config.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	cfgOpts := []func(*config.LoadOptions) error{
		config.WithRegion(s3Config.Region),
	}

	if s3Config.AccessKey != "" && s3Config.SecretKey != "" {
		cfgOpts = append(cfgOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s3Config.AccessKey, s3Config.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if s3Config.EndpointURL != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(s3Config.EndpointURL)
			o.UsePathStyle = s3Config.ForcePathStyle
		})
	}

	return &S3SnapshotStore{
		client: s3.NewFromConfig(cfg, clientOpts...),
		bucket: s3Config.Bucket,
	}, nil
}

// Put uploads a snapshot to the bucket
func (s *S3SnapshotStore) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put snapshot: %w", err)
	}
	return nil
}

// Get downloads a snapshot from the bucket
func (s *S3SnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot data: %w", err)
	}
	return data, nil
}

// Delete removes a snapshot from the bucket
func (s *S3SnapshotStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
