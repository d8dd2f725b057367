package ports

import (
	"context"

	"github.com/chainlance/marketplace-api/internal/core/domain"
)

// ListJobsFilter carries the query parameters for the public job listing.
type ListJobsFilter struct {
	Status string // optional: filter by job status
	Tag    string // optional: jobs carrying this tag
	Page   int    // 1-based
	Limit  int    // max rows per page (capped by the service)
}

// JobRepository defines persistence for jobs. The two conditional updates are
// the atomicity primitives of the lifecycle: each matches on the expected
// current state, so exactly one of any set of racing callers succeeds.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	FindByID(ctx context.Context, id string) (*domain.Job, error)
	// List returns a page of jobs matching filter and the total count,
	// newest first.
	List(ctx context.Context, filter ListJobsFilter) ([]*domain.Job, int64, error)
	// AssignIfOpen atomically sets worker and moves the job to IN_PROGRESS,
	// guarded on {id, employer, status OPEN}. Returns domain.ErrJobNotFound
	// when the guard matched no document.
	AssignIfOpen(ctx context.Context, id, employer, worker string) (*domain.Job, error)
	// FinishIfInProgress atomically moves the job to FINISHED, guarded on
	// {id, worker, status IN_PROGRESS}. Returns domain.ErrJobNotFound when the
	// guard matched no document.
	FinishIfInProgress(ctx context.Context, id, worker string) (*domain.Job, error)
}
