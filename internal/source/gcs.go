package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"captioncraft/internal/app/model"
)

type GCSStore struct {
	client *storage.Client
}

// NewGCSStore uses application default credentials, or an unauthenticated
// client against endpoint when one is given (emulators).
func NewGCSStore(ctx context.Context, endpoint string) (*GCSStore, error) {
	var opts []option.ClientOption
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSStore{client: client}, nil
}

func (s *GCSStore) Read(ctx context.Context, bucket, object string, maxBytes int64) ([]byte, string, error) {
	r, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, "", &model.ValidationError{Message: fmt.Sprintf("gs://%s/%s does not exist", bucket, object)}
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to create reader: %w", err)
	}
	defer func() { _ = r.Close() }()

	if r.Attrs.Size > maxBytes {
		return nil, "", tooLarge(maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to download object: %w", err)
	}
	return data, r.Attrs.ContentType, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
