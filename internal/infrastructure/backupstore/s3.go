// Package backupstore verifies recorded backup copies against an
// S3-compatible endpoint. The registry never moves content; it only checks
// that the object a backup entry points at actually exists.
package backupstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Config holds the connection settings for the backup object store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
}

// S3Verifier checks backup locations with HeadObject calls.
type S3Verifier struct {
	svc    *s3.S3
	bucket string
}

// NewS3Verifier creates an S3 session against the configured endpoint.
func NewS3Verifier(cfg Config) (*S3Verifier, error) {
	sess, err := session.NewSession(&aws.Config{
		Endpoint:         aws.String(cfg.Endpoint),
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return &S3Verifier{
		svc:    s3.New(sess),
		bucket: cfg.Bucket,
	}, nil
}

// Exists reports whether the object at the recorded location is present.
// The location is the object key within the configured bucket; a missing
// object is not an error.
func (v *S3Verifier) Exists(ctx context.Context, location string) (bool, error) {
	key := strings.TrimPrefix(location, "/")

	_, err := v.svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchKey, "NotFound":
				return false, nil
			}
		}
		return false, fmt.Errorf("failed to head backup object %q: %w", key, err)
	}
	return true, nil
}
