package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	// MaxUploadSize caps a single image at 5 MB.
	MaxUploadSize = 5 << 20
	// MaxUploadBatch caps a multi-upload request at 10 files.
	MaxUploadBatch = 10

	presignedURLExpiry = 24 * time.Hour
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadedFile describes one stored object.
type UploadedFile struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// ObjectStore is the storage surface the upload service needs. Backed by
// MinIO in production, faked in tests.
type ObjectStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Remove(ctx context.Context, key string) error
	Stat(ctx context.Context, key string) (int64, error)
	List(ctx context.Context, prefix string) ([]string, error)
	EnsureBucket(ctx context.Context) error
}

type minioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (ObjectStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioStore{client: client, bucket: bucket}, nil
}

func (m *minioStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (m *minioStore) Remove(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}

func (m *minioStore) Stat(ctx context.Context, key string) (int64, error) {
	info, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

func (m *minioStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, object.Err
		}
		keys = append(keys, object.Key)
	}
	return keys, nil
}

func (m *minioStore) EnsureBucket(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// UploadService stores product images namespaced per store.
type UploadService struct {
	store ObjectStore
}

func NewUploadService(store ObjectStore) *UploadService {
	return &UploadService{store: store}
}

// Upload validates and stores one image under the store's prefix.
func (s *UploadService) Upload(ctx context.Context, storeID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (*UploadedFile, error) {
	if size > MaxUploadSize {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "File exceeds the 5MB limit")
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Only JPEG, PNG and WebP images are allowed")
	}

	key := fmt.Sprintf("%s/%s%s", storeID, uuid.NewString(), ext)
	if err := s.store.Put(ctx, key, reader, size, contentType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	url, err := s.store.PresignedURL(ctx, key, presignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign image url: %w", err)
	}
	return &UploadedFile{Key: key, URL: url, Size: size}, nil
}

// URL returns a fresh presigned URL for a stored object. The key must
// belong to the requesting store.
func (s *UploadService) URL(ctx context.Context, storeID uuid.UUID, key string) (string, error) {
	if err := s.checkOwnership(ctx, storeID, key); err != nil {
		return "", err
	}
	url, err := s.store.PresignedURL(ctx, key, presignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign image url: %w", err)
	}
	return url, nil
}

// Delete removes a stored object owned by the store.
func (s *UploadService) Delete(ctx context.Context, storeID uuid.UUID, key string) error {
	if err := s.checkOwnership(ctx, storeID, key); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, key); err != nil {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// List returns every object key under the store's prefix.
func (s *UploadService) List(ctx context.Context, storeID uuid.UUID) ([]string, error) {
	keys, err := s.store.List(ctx, storeID.String()+"/")
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

// checkOwnership enforces the per-store key prefix and verifies the object
// exists.
func (s *UploadService) checkOwnership(ctx context.Context, storeID uuid.UUID, key string) error {
	if !strings.HasPrefix(key, storeID.String()+"/") {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}
	if _, err := s.store.Stat(ctx, key); err != nil {
		var respErr minio.ErrorResponse
		if errors.As(err, &respErr) && respErr.Code == "NoSuchKey" {
			return echo.NewHTTPError(http.StatusNotFound, "File not found")
		}
		return fmt.Errorf("stat image: %w", err)
	}
	return nil
}
