// Package storage persists product images in blob storage via gocloud.dev,
// so local disk, GCS and S3 buckets are interchangeable through the bucket URL.
package storage

import (
	"context"
	"io"
	"strings"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// Drivers registered by side effect; the bucket URL scheme selects one.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
)

type blobStore struct {
	bucket    *blob.Bucket
	bucketURL string
}

// BlobStoreParams holds dependencies for the blob store, injected by Fx.
type BlobStoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
}

// NewBlobStore opens the configured bucket and closes it on shutdown.
func NewBlobStore(params BlobStoreParams) (service.ImageStore, error) {
	cfg := params.Config.Storage
	if cfg == nil || cfg.BucketURL == "" {
		return nil, errors.New("storage bucket url must be provided")
	}

	bucket, err := blob.OpenBucket(params.Ctx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", cfg.BucketURL)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return bucket.Close()
		},
	})

	return &blobStore{bucket: bucket, bucketURL: strings.TrimRight(cfg.BucketURL, "/")}, nil
}

// Save streams the image into the bucket and returns its public URL.
func (s *blobStore) Save(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "failed to open blob writer")
	}

	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()

		return "", errors.Wrap(err, "failed to write blob")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "failed to finalize blob")
	}

	return s.bucketURL + "/" + key, nil
}

// Delete removes a stored image. Missing keys are not an error.
func (s *blobStore) Delete(ctx context.Context, key string) error {
	err := s.bucket.Delete(ctx, key)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errors.Wrap(err, "failed to delete blob")
	}

	return nil
}
