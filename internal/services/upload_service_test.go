package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// fakeObjectStore keeps objects in memory.
type fakeObjectStore struct {
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjectStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://minio.local/" + key + "?signed=1", nil
}

func (f *fakeObjectStore) Remove(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeObjectStore) Stat(ctx context.Context, key string) (int64, error) {
	data, ok := f.objects[key]
	if !ok {
		return 0, fmt.Errorf("object %s does not exist", key)
	}
	return int64(len(data)), nil
}

func (f *fakeObjectStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (f *fakeObjectStore) EnsureBucket(ctx context.Context) error { return nil }

func TestUpload_StoresUnderStorePrefix(t *testing.T) {
	store := newFakeObjectStore()
	svc := NewUploadService(store)
	storeID := uuid.New()

	uploaded, err := svc.Upload(context.Background(), storeID, "photo.png", "image/png",
		bytes.NewReader([]byte("png-bytes")), 9)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(uploaded.Key, storeID.String()+"/"))
	assert.True(t, strings.HasSuffix(uploaded.Key, ".png"))
	assert.Contains(t, uploaded.URL, uploaded.Key)
	assert.Contains(t, store.objects, uploaded.Key)
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	svc := NewUploadService(newFakeObjectStore())

	_, err := svc.Upload(context.Background(), uuid.New(), "big.jpg", "image/jpeg",
		bytes.NewReader(nil), MaxUploadSize+1)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestUpload_RejectsDisallowedType(t *testing.T) {
	svc := NewUploadService(newFakeObjectStore())

	for _, contentType := range []string{"image/gif", "application/pdf", "text/html", ""} {
		_, err := svc.Upload(context.Background(), uuid.New(), "file", contentType,
			bytes.NewReader([]byte("data")), 4)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok, contentType)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code, contentType)
	}
}

func TestDelete_OtherTenantKeyLooksAbsent(t *testing.T) {
	store := newFakeObjectStore()
	svc := NewUploadService(store)
	owner := uuid.New()
	intruder := uuid.New()

	uploaded, err := svc.Upload(context.Background(), owner, "photo.webp", "image/webp",
		bytes.NewReader([]byte("webp")), 4)
	assert.NoError(t, err)

	err = svc.Delete(context.Background(), intruder, uploaded.Key)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
	assert.Contains(t, store.objects, uploaded.Key)

	assert.NoError(t, svc.Delete(context.Background(), owner, uploaded.Key))
	assert.NotContains(t, store.objects, uploaded.Key)
}

func TestList_OnlyOwnKeys(t *testing.T) {
	store := newFakeObjectStore()
	svc := NewUploadService(store)
	storeA := uuid.New()
	storeB := uuid.New()

	_, err := svc.Upload(context.Background(), storeA, "a.png", "image/png", bytes.NewReader([]byte("a")), 1)
	assert.NoError(t, err)
	_, err = svc.Upload(context.Background(), storeB, "b.png", "image/png", bytes.NewReader([]byte("b")), 1)
	assert.NoError(t, err)

	keys, err := svc.List(context.Background(), storeA)
	assert.NoError(t, err)
	assert.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], storeA.String()+"/"))
}
