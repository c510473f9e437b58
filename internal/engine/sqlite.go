package engine

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// SQLite runs queries against an embedded database while presenting the same
// asynchronous job lifecycle as the managed engine, so the gateway's
// submit/poll/fetch path is identical in both modes.
//
// Jobs are single-shot: fetching results discards the job, and terminal jobs
// nobody ever fetches are evicted oldest-first once the registry exceeds
// maxLocalJobs, so an unobserved run does not accumulate state.
type SQLite struct {
	db *sql.DB

	mu    sync.Mutex
	jobs  map[string]*localJob
	order []string
}

// maxLocalJobs bounds how many terminal-but-unfetched jobs the registry keeps.
const maxLocalJobs = 64

type localJob struct {
	status Status
	reason string
	result ResultSet
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db, jobs: make(map[string]*localJob)}
}

// Submit registers a job and executes the query on its own goroutine. Like
// the managed engine, a job outlives the submitting request: it runs on the
// background context and is simply abandoned if nobody polls it.
func (e *SQLite) Submit(ctx context.Context, query string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	e.mu.Lock()
	e.jobs[id] = &localJob{status: StatusRunning}
	e.order = append(e.order, id)
	e.evictLocked()
	e.mu.Unlock()
	go e.run(id, query)
	return id, nil
}

func (e *SQLite) Status(ctx context.Context, id string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	j, ok := e.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("unknown job %q", id)
	}
	return Job{ID: id, Status: j.status, Reason: j.reason}, nil
}

// Results returns a succeeded job's rows and discards the job; the id is
// single-use after a successful fetch.
func (e *SQLite) Results(ctx context.Context, id string) (ResultSet, error) {
	if err := ctx.Err(); err != nil {
		return ResultSet{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	j, ok := e.jobs[id]
	if !ok {
		return ResultSet{}, fmt.Errorf("unknown job %q", id)
	}
	if j.status != StatusSucceeded {
		return ResultSet{}, fmt.Errorf("job %q not succeeded (status %s)", id, j.status)
	}
	rs := j.result
	e.dropLocked(id)
	return rs, nil
}

// dropLocked removes a job and its submission-order entry.
func (e *SQLite) dropLocked(id string) {
	delete(e.jobs, id)
	for i, v := range e.order {
		if v == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// evictLocked discards the oldest terminal jobs until the registry is back
// under its cap. Running jobs are never evicted; if the overflow is all
// in-flight work the registry shrinks on their fetch or the next submit.
func (e *SQLite) evictLocked() {
	for len(e.jobs) > maxLocalJobs {
		dropped := false
		for _, id := range e.order {
			if e.jobs[id].status.Terminal() {
				e.dropLocked(id)
				dropped = true
				break
			}
		}
		if !dropped {
			return
		}
	}
}

func (e *SQLite) run(id, query string) {
	rs, err := e.query(query)
	e.mu.Lock()
	defer e.mu.Unlock()
	j := e.jobs[id]
	if err != nil {
		j.status = StatusFailed
		j.reason = err.Error()
		return
	}
	j.status = StatusSucceeded
	j.result = rs
}

// query executes the statement and captures every cell as a string, matching
// the managed engine's varchar wire shape.
func (e *SQLite) query(query string) (ResultSet, error) {
	rows, err := e.db.Query(query)
	if err != nil {
		return ResultSet{}, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return ResultSet{}, err
	}
	rs := ResultSet{Columns: cols}
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return ResultSet{}, err
		}
		out := make([]string, len(cols))
		for i, c := range cells {
			if c.Valid {
				out[i] = c.String
			}
		}
		rs.Rows = append(rs.Rows, out)
	}
	if err := rows.Err(); err != nil {
		return ResultSet{}, err
	}
	return rs, nil
}
