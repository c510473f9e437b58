package engine

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
)

// athenaAPI is the slice of *athena.Client the adapter uses; tests stub it.
type athenaAPI interface {
	StartQueryExecution(ctx context.Context, in *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, in *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, in *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
}

// AthenaConfig carries the execution context every query is submitted with.
type AthenaConfig struct {
	Database       string
	Workgroup      string
	OutputLocation string
}

// Athena adapts the AWS Athena API to the Client interface.
type Athena struct {
	api athenaAPI
	cfg AthenaConfig
}

func NewAthena(api athenaAPI, cfg AthenaConfig) *Athena {
	return &Athena{api: api, cfg: cfg}
}

func (a *Athena) Submit(ctx context.Context, query string) (string, error) {
	in := &athena.StartQueryExecutionInput{
		QueryString: aws.String(query),
		QueryExecutionContext: &athenatypes.QueryExecutionContext{
			Database: aws.String(a.cfg.Database),
		},
		ResultConfiguration: &athenatypes.ResultConfiguration{
			OutputLocation: aws.String(a.cfg.OutputLocation),
		},
	}
	if a.cfg.Workgroup != "" {
		in.WorkGroup = aws.String(a.cfg.Workgroup)
	}
	out, err := a.api.StartQueryExecution(ctx, in)
	if err != nil {
		return "", fmt.Errorf("start query execution: %w", err)
	}
	return aws.ToString(out.QueryExecutionId), nil
}

func (a *Athena) Status(ctx context.Context, id string) (Job, error) {
	out, err := a.api.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
		QueryExecutionId: aws.String(id),
	})
	if err != nil {
		return Job{}, fmt.Errorf("get query execution %s: %w", id, err)
	}
	job := Job{ID: id, Status: StatusRunning}
	if out.QueryExecution == nil || out.QueryExecution.Status == nil {
		return job, nil
	}
	st := out.QueryExecution.Status
	switch st.State {
	case athenatypes.QueryExecutionStateQueued:
		job.Status = StatusQueued
	case athenatypes.QueryExecutionStateRunning:
		job.Status = StatusRunning
	case athenatypes.QueryExecutionStateSucceeded:
		job.Status = StatusSucceeded
	case athenatypes.QueryExecutionStateFailed:
		job.Status = StatusFailed
	case athenatypes.QueryExecutionStateCancelled:
		job.Status = StatusCancelled
	}
	job.Reason = aws.ToString(st.StateChangeReason)
	return job, nil
}

// Results fetches all pages of a succeeded job. Athena repeats the column
// names as the first data row of the first page; that row is dropped.
func (a *Athena) Results(ctx context.Context, id string) (ResultSet, error) {
	var rs ResultSet
	in := &athena.GetQueryResultsInput{QueryExecutionId: aws.String(id)}
	p := athena.NewGetQueryResultsPaginator(a.api, in)
	first := true
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return ResultSet{}, fmt.Errorf("get query results %s: %w", id, err)
		}
		if page.ResultSet == nil {
			continue
		}
		if first && page.ResultSet.ResultSetMetadata != nil {
			for _, ci := range page.ResultSet.ResultSetMetadata.ColumnInfo {
				rs.Columns = append(rs.Columns, aws.ToString(ci.Name))
			}
		}
		rows := page.ResultSet.Rows
		if first && len(rows) > 0 && isHeaderRow(rows[0], rs.Columns) {
			rows = rows[1:]
		}
		first = false
		for _, row := range rows {
			cells := make([]string, len(row.Data))
			for i, d := range row.Data {
				cells[i] = aws.ToString(d.VarCharValue)
			}
			rs.Rows = append(rs.Rows, cells)
		}
	}
	return rs, nil
}

func isHeaderRow(row athenatypes.Row, cols []string) bool {
	if len(row.Data) != len(cols) || len(cols) == 0 {
		return false
	}
	for i, d := range row.Data {
		if aws.ToString(d.VarCharValue) != cols[i] {
			return false
		}
	}
	return true
}
