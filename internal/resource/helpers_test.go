package resource

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/petermazzocco/go-activities/internal/database"
	"github.com/petermazzocco/go-activities/internal/storage"
	"github.com/petermazzocco/go-activities/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// pngHeader is enough for the declared type check; tests that need a real
// inspector use fakeInspector.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

// newTestDB opens a fresh in-memory database whose clock advances one second
// per read so ordering by timestamp is deterministic.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	var (
		mu   sync.Mutex
		tick = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	)
	clock := func(c *gorm.Config) {
		c.NowFunc = func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			tick = tick.Add(time.Second)
			return tick
		}
	}

	db, err := database.Open("sqlite", "file::memory:", clock)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newUser(t *testing.T, db *gorm.DB, email string) string {
	t.Helper()
	u := &models.User{Email: email, Name: email}
	require.NoError(t, db.Create(u).Error)
	return u.ID
}

// recorder remembers every invalidation.
type recorder struct {
	mu    sync.Mutex
	calls map[string][]string
}

func (r *recorder) Invalidate(userID string, paths ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = map[string][]string{}
	}
	r.calls[userID] = append(r.calls[userID], paths...)
}

func (r *recorder) paths(userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]string(nil), r.calls[userID]...)
	sort.Strings(out)
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// fakeBlobs is an in-memory BlobStore.
type fakeBlobs struct {
	mu        sync.Mutex
	objects   map[string][]byte
	ensured   int
	ensureErr error
	uploadErr error
	removeErr error
	removed   []string
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}}
}

func (f *fakeBlobs) EnsureBucket(ctx context.Context, bucket string, policy storage.BucketPolicy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensured++
	return f.ensureErr
}

func (f *fakeBlobs) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	if _, ok := f.objects[key]; ok {
		return storage.ErrAlreadyExists
	}
	f.objects[key] = bytes.Clone(data)
	return nil
}

func (f *fakeBlobs) Remove(ctx context.Context, bucket string, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, keys...)
	if f.removeErr != nil {
		return f.removeErr
	}
	for _, k := range keys {
		delete(f.objects, k)
	}
	return nil
}

func (f *fakeBlobs) PublicURL(bucket, key string) string {
	return "https://cdn.example/" + bucket + "/" + key
}

func (f *fakeBlobs) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeBlobs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

type fakeInspector struct {
	mime          string
	width, height int
	err           error
}

func (f fakeInspector) Inspect(data []byte) (string, int, int, error) {
	return f.mime, f.width, f.height, f.err
}

func pngFile(name string) *File {
	return &File{Filename: name, ContentType: "image/png", Data: bytes.Clone(pngHeader)}
}

func assertKind[T error](t *testing.T, err error) T {
	t.Helper()
	var target T
	require.Error(t, err)
	require.True(t, errors.As(err, &target), "unexpected error %T: %v", err, err)
	return target
}

func fieldMessage(t *testing.T, err error, field string) string {
	t.Helper()
	verr := assertKind[*ValidationError](t, err)
	msg, ok := verr.Field(field)
	require.True(t, ok, "no error for field %q in %v", field, verr.Fields)
	return msg
}

const missingID = "00000000-0000-4000-8000-000000000000"
