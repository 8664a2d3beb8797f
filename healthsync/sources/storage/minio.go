package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"healthsync/healthsync/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AttachmentStore keeps clinical files (lab PDFs, scans) attached to health
// records in a MinIO bucket, keyed by record id and a generated uuid.
type AttachmentStore struct {
	client *minio.Client
	bucket string
}

func NewAttachmentStore(cfg config.Config) (*AttachmentStore, error) {
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: false,
		},
	)
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(context.Background(), cfg.MinIOBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &AttachmentStore{client: client, bucket: cfg.MinIOBucket}, nil
}

// Upload stores the file stream and returns the generated object key.
func (s *AttachmentStore) Upload(ctx context.Context, recordID int, fileName, contentType string, size int64, data io.Reader) (string, error) {
	key := path.Join("records", fmt.Sprintf("%d", recordID), uuid.New().String()+path.Ext(fileName))

	_, err := s.client.PutObject(ctx, s.bucket, key, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// Download returns the object stream; the caller owns closing it.
func (s *AttachmentStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}
