// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/pdiddy/transcript-summarizer/pkg/types"
)

const (
	s3UploadTimeout = 2 * time.Minute
	s3DeleteTimeout = 30 * time.Second
)

type objectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type objectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3 stores exports as objects and hands out presigned GET URLs. Release
// deletes the object, so a released URL stops resolving even before it expires.
type S3 struct {
	api       objectAPI
	uploader  objectUploader
	presigner objectPresigner

	bucket string
	prefix string
	expiry time.Duration
}

// NewS3 connects to S3 with the credentials in cfg, or the default AWS
// credential chain when none are set.
func NewS3(ctx context.Context, cfg types.S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket name not set")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3(client, manager.NewUploader(client), s3.NewPresignClient(client), cfg), nil
}

func newS3(api objectAPI, up objectUploader, ps objectPresigner, cfg types.S3Config) *S3 {
	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &S3{
		api:       api,
		uploader:  up,
		presigner: ps,
		bucket:    cfg.Bucket,
		prefix:    cfg.Prefix,
		expiry:    expiry,
	}
}

func (s *S3) key(id string) string {
	return s.prefix + id + ".html"
}

func (s *S3) Create(ctx context.Context, data []byte, contentType string) (Handle, error) {
	id := uuid.NewString()
	key := s.key(id)

	ctxUpload, cancel := context.WithTimeout(ctx, s3UploadTimeout)
	defer cancel()

	_, err := s.uploader.Upload(ctxUpload, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return Handle{}, fmt.Errorf("s3 upload failed: %w", err)
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		s.delete(ctx, key)
		return Handle{}, fmt.Errorf("s3 presign failed: %w", err)
	}

	return Handle{
		ID:          id,
		URL:         req.URL,
		ContentType: contentType,
		Size:        int64(len(data)),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (s *S3) Open(ctx context.Context, h Handle) (io.ReadCloser, error) {
	resp, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(h.ID)),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrUnknownHandle
		}
		return nil, fmt.Errorf("s3 get failed: %w", err)
	}
	return resp.Body, nil
}

func (s *S3) Release(ctx context.Context, h Handle) error {
	if h.ID == "" {
		return ErrUnknownHandle
	}
	return s.delete(ctx, s.key(h.ID))
}

func (s *S3) delete(ctx context.Context, key string) error {
	ctxDel, cancel := context.WithTimeout(ctx, s3DeleteTimeout)
	defer cancel()

	_, err := s.api.DeleteObject(ctxDel, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

func (s *S3) Close() error { return nil }
