package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"co_monitoring/internal/models"
)

// s3API is the slice of *s3.Client the uploader uses; tests stub it.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// RawUploader writes each reading as one JSON object under the raw prefix.
// The managed transform picks these up; nothing in this process reads them
// back.
type RawUploader struct {
	api    s3API
	bucket string
	prefix string
}

func NewRawUploader(api s3API, bucket, prefix string) *RawUploader {
	return &RawUploader{api: api, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (u *RawUploader) Append(ctx context.Context, r models.TelemetryReading) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}
	key := fmt.Sprintf("%s/%s/%d-%s.json", u.prefix, r.TentID, r.Timestamp, uuid.NewString())
	_, err = u.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put raw object %s: %w", key, err)
	}
	return nil
}
