package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// MaxUploadSize is the ceiling applied to every object in the bucket.
const MaxUploadSize = 5 * 1024 * 1024

// DefaultAllowedTypes are the image types the photos bucket accepts.
var DefaultAllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml"}

var (
	ErrTooLarge       = errors.New("object exceeds bucket size limit")
	ErrTypeNotAllowed = errors.New("content type not allowed in bucket")
	ErrAlreadyExists  = errors.New("object already exists")
	ErrBucketNotReady = errors.New("bucket is not ready")
)

// BucketPolicy describes how a bucket is created and what it accepts.
type BucketPolicy struct {
	Public       bool
	MaxSize      int64
	AllowedTypes []string
}

// DefaultPolicy is the policy of the photos bucket.
func DefaultPolicy() BucketPolicy {
	return BucketPolicy{Public: true, MaxSize: MaxUploadSize, AllowedTypes: DefaultAllowedTypes}
}

// S3API is the subset of the S3 client used by the store.
type S3API interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, opts ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutBucketPolicy(ctx context.Context, in *s3.PutBucketPolicyInput, opts ...func(*s3.Options)) (*s3.PutBucketPolicyOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, opts ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// S3Store is a blob store over an S3 compatible bucket (Cloudflare R2 in production).
type S3Store struct {
	client    S3API
	publicURL string

	mu    sync.Mutex
	ready map[string]BucketPolicy
}

// NewS3Store wraps client. publicURL is a printf format with a single %s for the object key.
func NewS3Store(client S3API, publicURL string) *S3Store {
	return &S3Store{
		client:    client,
		publicURL: publicURL,
		ready:     make(map[string]BucketPolicy),
	}
}

// EnsureBucket creates the bucket once. A bucket that already exists, or that
// another instance created concurrently, counts as success.
func (s *S3Store) EnsureBucket(ctx context.Context, bucket string, policy BucketPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ready[bucket]; ok {
		return nil
	}

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		s.ready[bucket] = policy
		return nil
	}
	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		log.Println("Error checking bucket:", err)
		return fmt.Errorf("failed to check storage bucket: %w", err)
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	var ownedByYou *types.BucketAlreadyOwnedByYou
	var exists *types.BucketAlreadyExists
	switch {
	case err == nil:
		log.Printf("Created storage bucket: %s", bucket)
	case errors.As(err, &ownedByYou), errors.As(err, &exists):
	default:
		log.Println("Error creating bucket:", err)
		return fmt.Errorf("failed to create storage bucket: %w", err)
	}

	if policy.Public {
		// R2 serves public buckets through its own domain and rejects bucket
		// policies, so a failure here is not fatal.
		if _, err := s.client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
			Bucket: aws.String(bucket),
			Policy: aws.String(publicReadPolicy(bucket)),
		}); err != nil {
			log.Printf("Could not apply public read policy to %s: %v", bucket, err)
		}
	}

	s.ready[bucket] = policy
	return nil
}

// Upload stores data under key without overwriting an existing object.
func (s *S3Store) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	s.mu.Lock()
	policy, ok := s.ready[bucket]
	s.mu.Unlock()
	if !ok {
		return ErrBucketNotReady
	}
	if err := policy.Check(int64(len(data)), contentType); err != nil {
		return err
	}

	obj, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("max-age=3600"),
		IfNoneMatch:  aws.String("*"),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, key)
		}
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	log.Printf("Object uploaded: %s, ETag: %s", key, aws.ToString(obj.ETag))
	return nil
}

// Remove deletes keys from bucket in one request.
func (s *S3Store) Remove(ctx context.Context, bucket string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, k := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(k)})
	}

	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to remove objects: %w", err)
	}
	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("failed to remove %d of %d objects (%s: %s)",
			len(out.Errors), len(keys), aws.ToString(first.Key), aws.ToString(first.Message))
	}
	return nil
}

// PublicURL resolves the public address of key.
func (s *S3Store) PublicURL(bucket, key string) string {
	if s.publicURL == "" {
		return CleanURL("/" + bucket + "/" + key)
	}
	return CleanURL(fmt.Sprintf(s.publicURL, key))
}

// Check reports whether an object of size bytes and contentType fits the policy.
func (p BucketPolicy) Check(size int64, contentType string) error {
	if p.MaxSize > 0 && size > p.MaxSize {
		return ErrTooLarge
	}
	if len(p.AllowedTypes) > 0 && !slices.Contains(p.AllowedTypes, contentType) {
		return fmt.Errorf("%w: %s", ErrTypeNotAllowed, contentType)
	}
	return nil
}

func CleanURL(urlStr string) string {
	urlStr = strings.ReplaceAll(urlStr, " ", "%20")
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return urlStr
	}

	return parsedURL.String()
}

func publicReadPolicy(bucket string) string {
	policy := map[string]any{
		"Version": "2012-10-17",
		"Statement": []map[string]any{{
			"Sid":       "PublicRead",
			"Effect":    "Allow",
			"Principal": "*",
			"Action":    []string{"s3:GetObject"},
			"Resource":  []string{fmt.Sprintf("arn:aws:s3:::%s/*", bucket)},
		}},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
