package aws

import (
	"context"
	"fmt"
	"os"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Presigner produces presigned upload URLs.
type Presigner interface {
	PresignPut(ctx context.Context, bucket, key, contentType string, expiry time.Duration) (string, map[string]string, error)
}

// S3Presigner signs direct browser uploads of product images.
type S3Presigner struct {
	client *s3.PresignClient
}

// NewS3Presigner builds the presign client. With AWS_S3_ENDPOINT set the
// client uses path style addressing against that endpoint.
func NewS3Presigner(cfg sdkaws.Config) *S3Presigner {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint := os.Getenv("AWS_S3_ENDPOINT"); endpoint != "" {
			o.BaseEndpoint = sdkaws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Presigner{client: s3.NewPresignClient(client)}
}

// PresignPut returns a PUT url for bucket/key plus the headers the uploader
// must send along with it.
func (p *S3Presigner) PresignPut(ctx context.Context, bucket, key, contentType string, expiry time.Duration) (string, map[string]string, error) {
	in := &s3.PutObjectInput{
		Bucket: sdkaws.String(bucket),
		Key:    sdkaws.String(key),
	}
	if contentType != "" {
		in.ContentType = sdkaws.String(contentType)
	}

	req, err := p.client.PresignPutObject(ctx, in, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", nil, fmt.Errorf("presign %s/%s: %w", bucket, key, err)
	}

	headers := make(map[string]string, len(req.SignedHeader))
	for name, values := range req.SignedHeader {
		if name == "Host" || len(values) == 0 {
			continue
		}
		headers[name] = values[0]
	}
	return req.URL, headers, nil
}
