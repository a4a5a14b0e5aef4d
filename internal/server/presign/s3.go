package presign

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/shipseva/docupload/internal/server/config"
	"github.com/shipseva/docupload/internal/storagekey"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// S3Presigner signs URLs with the AWS SDK. A base endpoint switches it to
// path-style addressing for S3-compatible stores.
type S3Presigner struct {
	cfg *sc.Config
}

func NewS3Presigner(cfg *sc.Config) *S3Presigner {
	return &S3Presigner{cfg: cfg}
}

// The client is built per call so credential changes in the environment
// take effect without a restart and a server booted without them can still
// report configuration errors.
func (p *S3Presigner) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(p.cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.cfg.S3AccessKey,
			p.cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if p.cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(p.cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3PresignClient(client), nil
}

func (p *S3Presigner) PresignPut(ctx context.Context, obj Object, ttl time.Duration) (string, error) {
	presignClient, err := p.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	in := &s3.PutObjectInput{
		Bucket:        aws.String(obj.Bucket),
		Key:           aws.String(obj.Key),
		ContentType:   aws.String(obj.ContentType),
		ContentLength: aws.Int64(obj.Size),
	}

	req, err := presignPutObject(presignClient, ctx, in, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (p *S3Presigner) PublicURL(key string) string {
	if p.cfg.S3BaseEndpoint != "" {
		return storagekey.PathStyleURL(p.cfg.S3BaseEndpoint, p.cfg.S3Bucket, key)
	}
	return storagekey.VirtualHostedURL(p.cfg.S3Bucket, p.cfg.S3Region, key)
}
