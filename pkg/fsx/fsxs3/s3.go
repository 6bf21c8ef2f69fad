package fsxs3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/Abraxas-365/shortlist/pkg/fsx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// API is the part of *s3.Client the file system needs
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type S3FileSystem struct {
	client API
	bucket string
	prefix string
}

// NewS3FileSystem stores every path under prefix inside bucket
func NewS3FileSystem(client API, bucket, prefix string) *S3FileSystem {
	return &S3FileSystem{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (f *S3FileSystem) key(p string) string {
	p = strings.TrimPrefix(p, "/")
	if f.prefix == "" {
		return p
	}
	return path.Join(f.prefix, p)
}

func (f *S3FileSystem) WriteFile(ctx context.Context, p string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := f.client.PutObject(ctx, input); err != nil {
		return fsx.ErrRegistry.NewWithCause(fsx.CodeFileWriteFailed, err).
			WithDetail("bucket", f.bucket).
			WithDetail("key", f.key(p))
	}
	return nil
}

func (f *S3FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fsx.ErrRegistry.New(fsx.CodeFileNotFound).WithDetail("key", f.key(p))
		}
		return nil, fsx.ErrRegistry.NewWithCause(fsx.CodeFileReadFailed, err).WithDetail("key", f.key(p))
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fsx.ErrRegistry.NewWithCause(fsx.CodeFileReadFailed, err).WithDetail("key", f.key(p))
	}
	return data, nil
}

func (f *S3FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	if err == nil {
		return true, nil
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return false, nil
	}
	return false, fsx.ErrRegistry.NewWithCause(fsx.CodeFileReadFailed, err).WithDetail("key", f.key(p))
}
