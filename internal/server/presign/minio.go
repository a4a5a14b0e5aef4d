package presign

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	sc "github.com/shipseva/docupload/internal/server/config"
	"github.com/shipseva/docupload/internal/storagekey"
)

var (
	newMinioClient = minio.New

	presignMinioPut = func(c *minio.Client, ctx context.Context, bucket, key string, ttl time.Duration) (*url.URL, error) {
		return c.PresignedPutObject(ctx, bucket, key, ttl)
	}
)

// MinioPresigner signs URLs for a MinIO (or other S3-compatible) endpoint
// given as S3BaseEndpoint, e.g. "http://127.0.0.1:9000".
type MinioPresigner struct {
	cfg *sc.Config
}

func NewMinioPresigner(cfg *sc.Config) *MinioPresigner {
	return &MinioPresigner{cfg: cfg}
}

func (p *MinioPresigner) client() (*minio.Client, error) {
	u, err := url.Parse(p.cfg.S3BaseEndpoint)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid storage endpoint %q", p.cfg.S3BaseEndpoint)
	}

	// Region is set so presigning never has to look the bucket location up.
	return newMinioClient(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(p.cfg.S3AccessKey, p.cfg.S3SecretKey, ""),
		Secure: u.Scheme == "https",
		Region: p.cfg.S3Region,
	})
}

// PresignPut signs a plain PUT; MinIO presigned PUTs carry no signed
// content headers, so obj.ContentType is not enforced.
func (p *MinioPresigner) PresignPut(ctx context.Context, obj Object, ttl time.Duration) (string, error) {
	c, err := p.client()
	if err != nil {
		return "", err
	}

	u, err := presignMinioPut(c, ctx, obj.Bucket, obj.Key, ttl)
	if err != nil {
		return "", err
	}

	return u.String(), nil
}

func (p *MinioPresigner) PublicURL(key string) string {
	return storagekey.PathStyleURL(p.cfg.S3BaseEndpoint, p.cfg.S3Bucket, key)
}

// New picks the presigner for cfg.StorageDriver.
func New(cfg *sc.Config) (Presigner, error) {
	switch cfg.StorageDriver {
	case "", sc.DriverS3:
		return NewS3Presigner(cfg), nil
	case sc.DriverMinio:
		return NewMinioPresigner(cfg), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
