package ports

import (
	"context"

	"github.com/chainlance/marketplace-api/internal/core/domain"
)

// CreateJobInput carries all data needed to post a new job.
type CreateJobInput struct {
	Employer    string
	PaymentType domain.PaymentType
	Title       string
	Description string
	Tags        []string
}

// ListJobsResult is returned by List.
type ListJobsResult struct {
	Items      []*domain.Job
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// JobService defines use-case operations on the job lifecycle.
type JobService interface {
	Create(ctx context.Context, in CreateJobInput) (*domain.Job, error)
	// Assign moves an OPEN job to IN_PROGRESS. Only the posting employer may
	// assign, and only one of any set of concurrent assignments wins.
	Assign(ctx context.Context, jobID, worker, actor string) (*domain.Job, error)
	// Finish moves an IN_PROGRESS job to FINISHED. Only the assigned worker
	// may finish.
	Finish(ctx context.Context, jobID, actor string) (*domain.Job, error)
	Get(ctx context.Context, jobID string) (*domain.Job, error)
	List(ctx context.Context, filter ListJobsFilter) (*ListJobsResult, error)
}
