package storage

import (
	a "bitwise74/account-api/aws"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

const minMultipartSize = 12 << 20

// S3 stores files as objects in a bucket. The configured base URL should point
// at whatever serves the bucket publicly (CDN, R2 public domain, ...).
type S3 struct {
	S3 *a.S3Client
}

func NewS3(c *a.S3Client) *S3 {
	return &S3{S3: c}
}

func (s *S3) Put(ctx context.Context, name, contentType string, r io.Reader, size int64) error {
	objectInput := &s3.PutObjectInput{
		Bucket:       s.S3.Bucket,
		Key:          aws.String(name),
		Body:         r,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	}

	var err error
	if size > minMultipartSize {
		uploader := manager.NewUploader(s.S3.C, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 6 << 20
		})

		_, err = uploader.Upload(ctx, objectInput)
	} else {
		objectInput.ContentLength = aws.Int64(size)
		_, err = s.S3.C.PutObject(ctx, objectInput)
	}
	if err != nil {
		return fmt.Errorf("failed to upload file to S3, %w", err)
	}

	zap.L().Debug("File uploaded to S3", zap.String("key", name), zap.Int64("size", size))
	return nil
}

func (s *S3) Delete(ctx context.Context, name string) error {
	// DeleteObject succeeds for missing keys so check first
	_, err := s.S3.C.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: s.S3.Bucket,
		Key:    aws.String(name),
	})
	if err != nil {
		if isNotFound(err) {
			return ErrNotExist
		}

		return fmt.Errorf("failed to check if object exists, %w", err)
	}

	_, err = s.S3.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: s.S3.Bucket,
		Key:    aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3, %w", err)
	}

	return nil
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchKey"
	}

	return false
}
