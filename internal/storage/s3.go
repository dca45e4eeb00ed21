// Package storage issues presigned S3/MinIO URLs for tour media. The
// service never transports media bytes itself: the editor uploads a
// screenshot or clip straight to object storage with a presigned PUT and
// then hands the resulting public URL to the tour core, which stores only
// the (url, kind) pair.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/tourify/tourify/internal/config"
)

const presignTTL = 15 * time.Minute

// MediaStore wraps a presign client for the configured bucket.
type MediaStore struct {
	cfg config.Config
}

// NewMediaStore returns a MediaStore, or nil when no bucket is configured
// so the caller can disable the upload endpoint.
func NewMediaStore(cfg config.Config) *MediaStore {
	if cfg.S3Bucket == "" {
		return nil
	}
	return &MediaStore{cfg: cfg}
}

// newObjectKey produces a fresh storage key under the tours/ prefix. The
// uuid keeps uploads from colliding regardless of the original filename.
func newObjectKey(ext string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("tours/%d/%02d/%v%s", d.Year(), d.Month(), uuid.New(), ext)
}

func (m *MediaStore) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(m.cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			m.cfg.S3AccessKey,
			m.cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if m.cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(m.cfg.S3Endpoint) // MinIO or other S3-compatible store
			o.UsePathStyle = true
		}
	})
	return s3.NewPresignClient(client), nil
}

// PresignedPutURL returns a fresh object key, a presigned PUT URL valid for
// presignTTL, and the public URL the object will be readable at.
func (m *MediaStore) PresignedPutURL(ctx context.Context, ext string) (key, uploadURL, publicURL string, err error) {
	pc, err := m.presignClient(ctx)
	if err != nil {
		return "", "", "", err
	}

	bucket := m.cfg.S3Bucket
	key = newObjectKey(ext)

	req, err := pc.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", "", "", err
	}

	base := m.cfg.S3PublicURL
	if base == "" {
		base = strings.TrimSuffix(m.cfg.S3Endpoint, "/") + "/" + bucket
	}
	return key, req.URL, strings.TrimSuffix(base, "/") + "/" + key, nil
}

// PresignedGetURL returns a presigned GET URL for an existing object key,
// for media kept in a non-public bucket.
func (m *MediaStore) PresignedGetURL(ctx context.Context, key string) (string, error) {
	pc, err := m.presignClient(ctx)
	if err != nil {
		return "", err
	}
	bucket := m.cfg.S3Bucket
	req, err := pc.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
