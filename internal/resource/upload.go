package resource

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/petermazzocco/go-activities/internal/storage"
)

// BlobStore is the object storage used for photo uploads.
type BlobStore interface {
	EnsureBucket(ctx context.Context, bucket string, policy storage.BucketPolicy) error
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error
	Remove(ctx context.Context, bucket string, keys ...string) error
	PublicURL(bucket, key string) string
}

// Inspector reports the real type and dimensions of an image payload.
type Inspector interface {
	Inspect(data []byte) (mimeType string, width, height int, err error)
}

// File is an uploaded file read into memory.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// StoredBlob describes a blob after a successful upload.
type StoredBlob struct {
	Key      string
	URL      string
	Size     int64
	MimeType string
	Width    int
	Height   int
}

// Uploader validates image uploads and writes them to the bucket.
type Uploader struct {
	blobs     BlobStore
	inspector Inspector
	bucket    string
	policy    storage.BucketPolicy
	now       func() time.Time
}

func NewUploader(blobs BlobStore, inspector Inspector, bucket string) *Uploader {
	return &Uploader{
		blobs:     blobs,
		inspector: inspector,
		bucket:    bucket,
		policy:    storage.DefaultPolicy(),
		now:       time.Now,
	}
}

// pending is an upload that passed validation.
type pending struct {
	name   string
	file   *File
	width  int
	height int
}

// validate runs every check that needs no storage I/O.
func (u *Uploader) validate(name string, file *File) (*pending, error) {
	if file == nil || len(file.Data) == 0 {
		return nil, &ValidationError{Fields: []FieldError{{Field: "file", Message: "No file provided"}}}
	}

	var c checker
	c.check(strings.HasPrefix(file.ContentType, "image/"), "file", "Only image files are allowed")
	c.check(int64(len(file.Data)) <= u.policy.MaxSize, "file", "File size must be less than 5MB")
	if strings.TrimSpace(name) == "" {
		name = file.Filename
	}
	c.text("name", name, maxTitleLength, "Name is required", "Name is too long")
	if err := c.err(); err != nil {
		return nil, err
	}

	p := &pending{name: strings.TrimSpace(name), file: file}
	if u.inspector != nil {
		mime, width, height, err := u.inspector.Inspect(file.Data)
		if err != nil {
			log.Printf("Rejected upload %q: %v", file.Filename, err)
			return nil, &ValidationError{Fields: []FieldError{{Field: "file", Message: "Only image files are allowed"}}}
		}
		file.ContentType = mime
		p.width, p.height = width, height
	}
	return p, nil
}

// store moves a validated upload through bucket-ready and stored-blob.
// Nothing has been persisted when it fails.
func (u *Uploader) store(ctx context.Context, userID, prefix string, p *pending) (*StoredBlob, error) {
	if err := u.blobs.EnsureBucket(ctx, u.bucket, u.policy); err != nil {
		return nil, upstream("Failed to upload file", err)
	}

	key := u.key(userID, prefix, p.file)
	if err := u.blobs.Upload(ctx, u.bucket, key, p.file.Data, p.file.ContentType); err != nil {
		return nil, upstream("Failed to upload file", err)
	}

	return &StoredBlob{
		Key:      key,
		URL:      u.blobs.PublicURL(u.bucket, key),
		Size:     int64(len(p.file.Data)),
		MimeType: p.file.ContentType,
		Width:    p.width,
		Height:   p.height,
	}, nil
}

// key builds {userID}/[prefix/]{millis}-{random}.{ext}.
func (u *Uploader) key(userID, prefix string, file *File) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	if ext == "" {
		ext = strings.TrimPrefix(file.ContentType, "image/")
		ext = strings.TrimSuffix(ext, "+xml")
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	parts := []string{userID}
	if prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, fmt.Sprintf("%d-%s.%s", u.now().UnixMilli(), random, ext))
	return strings.Join(parts, "/")
}

// discard removes blobs whose rows are gone. Failures are logged only.
func (u *Uploader) discard(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := u.blobs.Remove(ctx, u.bucket, keys...); err != nil {
		log.Printf("Storage delete error for %v: %v", keys, err)
	}
}
