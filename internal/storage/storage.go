// Package storage holds the write paths feeding the pipeline: the local
// readings database that doubles as structured storage in local mode, and the
// S3 raw landing zone the external transform consumes in athena mode.
package storage

import (
	"context"

	"co_monitoring/internal/models"
)

// ReadingSink receives generated or ingested telemetry.
type ReadingSink interface {
	Append(ctx context.Context, r models.TelemetryReading) error
}
