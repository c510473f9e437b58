package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"co_monitoring/internal/models"
)

type stubS3 struct {
	lastInput *s3.PutObjectInput
	err       error
}

func (s *stubS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestRawUploader_Append(t *testing.T) {
	stub := &stubS3{}
	u := NewRawUploader(stub, "iot-raw-telemetry", "/raw/")

	r := models.TelemetryReading{TentID: "b8", Timestamp: 1700000100, TemperatureC: 28, HumidityPct: 41, COPpm: 130.5}
	if err := u.Append(context.Background(), r); err != nil {
		t.Fatalf("Append: %v", err)
	}

	in := stub.lastInput
	if aws.ToString(in.Bucket) != "iot-raw-telemetry" {
		t.Fatalf("bucket: %q", aws.ToString(in.Bucket))
	}
	key := aws.ToString(in.Key)
	if !strings.HasPrefix(key, "raw/b8/1700000100-") || !strings.HasSuffix(key, ".json") {
		t.Fatalf("key layout: %q", key)
	}

	body, err := io.ReadAll(in.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var got models.TelemetryReading
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if got != r {
		t.Fatalf("round trip: want %+v, got %+v", r, got)
	}
}

func TestRawUploader_PropagatesError(t *testing.T) {
	putErr := errors.New("access denied")
	u := NewRawUploader(&stubS3{err: putErr}, "bucket", "raw")

	err := u.Append(context.Background(), models.TelemetryReading{TentID: "b8"})
	if !errors.Is(err, putErr) {
		t.Fatalf("expected %v, got %v", putErr, err)
	}
}
