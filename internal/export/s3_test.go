// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transcript-summarizer/pkg/types"
)

// fakeBucket is an in-memory stand-in for one S3 bucket.
type fakeBucket struct {
	mu          sync.Mutex
	objects     map[string][]byte
	contentType map[string]string
	expiry      time.Duration
	uploadErr   error
	presignErr  error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}, contentType: map[string]string{}}
}

func (f *fakeBucket) Upload(_ context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	f.contentType[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &manager.UploadOutput{Key: in.Key}, nil
}

func (f *fakeBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeBucket) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeBucket) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expiry = opts.Expires
	return &v4.PresignedHTTPRequest{
		URL:    "https://" + aws.ToString(in.Bucket) + ".s3.amazonaws.com/" + aws.ToString(in.Key) + "?X-Amz-Signature=fake",
		Method: "GET",
	}, nil
}

func (f *fakeBucket) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func testS3(b *fakeBucket) *S3 {
	return newS3(b, b, b, types.S3Config{Bucket: "summaries", Prefix: "out/", PresignExpiry: 10 * time.Minute})
}

func TestS3_CreateOpenRelease(t *testing.T) {
	ctx := context.Background()
	b := newFakeBucket()
	s := testS3(b)

	h, err := s.Create(ctx, []byte("<p>ok</p>"), types.MediaTypeHTML)
	require.NoError(t, err)
	assert.Contains(t, h.URL, "summaries.s3.amazonaws.com/out/"+h.ID+".html")
	assert.Equal(t, 10*time.Minute, b.expiry)
	assert.Equal(t, types.MediaTypeHTML, b.contentType["out/"+h.ID+".html"])
	assert.Equal(t, 1, b.count())

	assert.Equal(t, "<p>ok</p>", readAll(t, s, h))

	require.NoError(t, s.Release(ctx, h))
	assert.Equal(t, 0, b.count())

	_, err = s.Open(ctx, h)
	assert.ErrorIs(t, err, ErrUnknownHandle)
}

func TestS3_UploadFailure(t *testing.T) {
	b := newFakeBucket()
	b.uploadErr = errors.New("access denied")
	s := testS3(b)

	_, err := s.Create(context.Background(), []byte("x"), types.MediaTypeHTML)
	assert.ErrorContains(t, err, "access denied")
	assert.Equal(t, 0, b.count())
}

func TestS3_PresignFailureDeletesObject(t *testing.T) {
	b := newFakeBucket()
	b.presignErr = errors.New("no credentials")
	s := testS3(b)

	_, err := s.Create(context.Background(), []byte("x"), types.MediaTypeHTML)
	assert.ErrorContains(t, err, "presign")
	assert.Equal(t, 0, b.count(), "object must not outlive a failed create")
}

func TestS3_DefaultExpiry(t *testing.T) {
	b := newFakeBucket()
	s := newS3(b, b, b, types.S3Config{Bucket: "x"})
	_, err := s.Create(context.Background(), []byte("x"), types.MediaTypeHTML)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, b.expiry)
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), types.S3Config{})
	assert.Error(t, err)
}
