package storage

import (
	"context"
	"io"
	"path"

	gcs "cloud.google.com/go/storage"

	"github.com/oksasatya/go-blog-api/pkg/helpers"
)

// GCSStore keeps assets in a Google Cloud Storage bucket under Prefix.
type GCSStore struct {
	Client *gcs.Client
	Bucket string
	Prefix string
}

func NewGCSStore(client *gcs.Client, bucket, prefix string) *GCSStore {
	return &GCSStore{Client: client, Bucket: bucket, Prefix: prefix}
}

func (s *GCSStore) object(name string) string {
	return path.Join(s.Prefix, name)
}

func (s *GCSStore) Save(ctx context.Context, name, contentType string, r io.Reader) error {
	_, err := helpers.UploadObject(ctx, s.Client, s.Bucket, s.object(name), contentType, r)
	return err
}

func (s *GCSStore) Remove(ctx context.Context, name string) error {
	return helpers.DeleteObject(ctx, s.Client, s.Bucket, s.object(name))
}

func (s *GCSStore) URL(name string) string {
	return helpers.PublicURL(s.Bucket, s.object(name))
}
