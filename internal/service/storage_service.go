package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	presignedURLTTL = 15 * time.Minute
	imagePathPrefix = "donations"
)

var (
	ErrBucketCreationFailed = errors.New("failed to create storage bucket")
	ErrUploadFailed         = errors.New("failed to upload file")
	ErrDeleteFailed         = errors.New("failed to delete file")
	ErrURLGenerationFailed  = errors.New("failed to generate object URL")
	ErrUnauthorizedAccess   = errors.New("unauthorized access to resource")
)

// StorageService persists donation images in object storage.
type StorageService interface {
	// UploadDonationImage stores an image under the donor's namespace and
	// returns a URL the donation record can carry.
	UploadDonationImage(ctx context.Context, donorID uint, data []byte, contentType string) (string, error)

	// DeleteDonationImage removes a previously stored image. The object key
	// must belong to donorID.
	DeleteDonationImage(ctx context.Context, donorID uint, objectKey string) error
}

// MinIOStorageService implements StorageService on MinIO/S3-compatible
// storage. Bucket creation is deferred to first use so a cold object store
// does not block startup.
type MinIOStorageService struct {
	client        *minio.Client
	bucketName    string
	publicBaseURL string
	initOnce      sync.Once
	initErr       error
}

func NewMinIOStorageService(endpoint, accessKey, secretKey, bucketName string, useSSL bool, publicBaseURL string) (*MinIOStorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinIOStorageService{
		client:        client,
		bucketName:    bucketName,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Client exposes the underlying MinIO client for readiness probes.
func (s *MinIOStorageService) Client() *minio.Client { return s.client }

// Bucket returns the configured bucket name.
func (s *MinIOStorageService) Bucket() string { return s.bucketName }

func (s *MinIOStorageService) lazyInit(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.ensureBucketExists(ctx)
	})
	return s.initErr
}

func (s *MinIOStorageService) ensureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("%w: check bucket existence: %v", ErrBucketCreationFailed, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("%w: create bucket: %v", ErrBucketCreationFailed, err)
		}
	}
	return nil
}

func (s *MinIOStorageService) UploadDonationImage(ctx context.Context, donorID uint, data []byte, contentType string) (string, error) {
	if err := s.lazyInit(ctx); err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("%s/donor-%d/%s%s", imagePathPrefix, donorID, uuid.New().String(), contentTypeToExtension(contentType))
	metadata := map[string]string{
		"Donor-ID":    fmt.Sprintf("%d", donorID),
		"Uploaded-At": time.Now().UTC().Format(time.RFC3339),
	}

	var reader io.Reader = bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, s.bucketName, objectKey, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return s.objectURL(ctx, objectKey)
}

func (s *MinIOStorageService) DeleteDonationImage(ctx context.Context, donorID uint, objectKey string) error {
	if strings.TrimSpace(objectKey) == "" {
		return nil
	}
	if strings.Contains(objectKey, "..") {
		return ErrUnauthorizedAccess
	}
	expectedPrefix := fmt.Sprintf("%s/donor-%d/", imagePathPrefix, donorID)
	if !strings.HasPrefix(objectKey, expectedPrefix) {
		return ErrUnauthorizedAccess
	}
	if err := s.lazyInit(ctx); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

// objectURL returns a stable public URL when a CDN/base URL is configured,
// otherwise a presigned GET URL.
func (s *MinIOStorageService) objectURL(ctx context.Context, objectKey string) (string, error) {
	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucketName, objectKey), nil
	}
	presigned, err := s.client.PresignedGetObject(ctx, s.bucketName, objectKey, presignedURLTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrURLGenerationFailed, err)
	}
	return presigned.String(), nil
}

func contentTypeToExtension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
