// Package engine abstracts the SQL-over-files query engine behind an
// asynchronous submit/poll/fetch client.
package engine

import "context"

// Status is the lifecycle state of one query job.
type Status string

const (
	StatusQueued    Status = "QUEUED"
	StatusRunning   Status = "RUNNING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

// Terminal reports whether the job will make no further progress.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusCancelled
}

// Job is a point-in-time snapshot of one query execution.
type Job struct {
	ID     string
	Status Status
	Reason string // engine-supplied explanation for FAILED/CANCELLED
}

// ResultSet is the tabular output of a succeeded job. Cells arrive as strings,
// the Athena wire shape; typed coercion happens at the gateway boundary.
type ResultSet struct {
	Columns []string
	Rows    [][]string
}

// Client runs SQL through an asynchronous job lifecycle. Submit returns an
// opaque job id; callers poll Status until terminal and then fetch Results.
type Client interface {
	Submit(ctx context.Context, query string) (string, error)
	Status(ctx context.Context, id string) (Job, error)
	Results(ctx context.Context, id string) (ResultSet, error)
}
