package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	putObject    func(ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error)
	deleteObject func(ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error)
	headObject   func(ctx context.Context, in *s3.HeadObjectInput) (*s3.HeadObjectOutput, error)
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putObject != nil {
		return m.putObject(ctx, in)
	}
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if m.deleteObject != nil {
		return m.deleteObject(ctx, in)
	}
	return &s3.DeleteObjectOutput{}, nil
}

func (m *mockS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if m.headObject != nil {
		return m.headObject(ctx, in)
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3Storage_Upload(t *testing.T) {
	var got *s3.PutObjectInput
	var body []byte
	client := &mockS3{putObject: func(_ context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		got = in
		var err error
		body, err = io.ReadAll(in.Body)
		return &s3.PutObjectOutput{}, err
	}}

	s := NewS3Storage(client, "blog")
	require.NoError(t, s.Upload(context.Background(), "posts/hola.md", strings.NewReader("# Hola"), "text/markdown"))

	assert.Equal(t, "blog", aws.ToString(got.Bucket))
	assert.Equal(t, "posts/hola.md", aws.ToString(got.Key))
	assert.Equal(t, "text/markdown", aws.ToString(got.ContentType))
	assert.Equal(t, "# Hola", string(body))
}

func TestS3Storage_Delete(t *testing.T) {
	client := &mockS3{deleteObject: func(context.Context, *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return nil, errors.New("access denied")
	}}

	err := NewS3Storage(client, "blog").Delete(context.Background(), "posts/x.md")
	assert.ErrorContains(t, err, "delete object posts/x.md")
}

func TestS3Storage_Exists(t *testing.T) {
	ctx := context.Background()

	ok, err := NewS3Storage(&mockS3{}, "blog").Exists(ctx, "posts/x.md")
	require.NoError(t, err)
	assert.True(t, ok)

	missing := &mockS3{headObject: func(context.Context, *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
		return nil, &types.NotFound{}
	}}
	ok, err = NewS3Storage(missing, "blog").Exists(ctx, "posts/x.md")
	require.NoError(t, err)
	assert.False(t, ok)

	broken := &mockS3{headObject: func(context.Context, *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
		return nil, errors.New("no route to host")
	}}
	_, err = NewS3Storage(broken, "blog").Exists(ctx, "posts/x.md")
	assert.Error(t, err)
}
