package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chainlance/marketplace-api/internal/core/domain"
	"github.com/chainlance/marketplace-api/internal/core/ports"
)

const (
	defaultJobPageLimit = 20
	maxJobPageLimit     = 100
)

// JobService implements the guarded job lifecycle. Actor checks run before
// the state transition so wrong-owner calls fail with ErrUnauthorized, while
// stale-state or race-losing calls fail with ErrInvalidTransition.
type JobService struct {
	repo ports.JobRepository
	log  zerolog.Logger
}

func NewJobService(repo ports.JobRepository, log zerolog.Logger) *JobService {
	return &JobService{repo: repo, log: log}
}

// Create posts a new OPEN job owned by the employer.
func (s *JobService) Create(ctx context.Context, in ports.CreateJobInput) (*domain.Job, error) {
	if strings.TrimSpace(in.Title) == "" || !domain.ValidPaymentType(in.PaymentType) {
		return nil, domain.ErrJobValidation
	}

	job := &domain.Job{
		ID:              uuid.NewString(),
		PaymentType:     in.PaymentType,
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		Tags:            dedupeTags(in.Tags),
		EmployerAddress: domain.NormalizeWallet(in.Employer),
		Status:          domain.StatusOpen,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, job); err != nil {
		s.log.Error().Err(err).Str("employer", job.EmployerAddress).Msg("failed to create job")
		return nil, err
	}

	s.log.Info().Str("job_id", job.ID).Str("employer", job.EmployerAddress).Msg("job created")
	return job, nil
}

// Assign moves an OPEN job to IN_PROGRESS with the given worker. The
// repository-level conditional update guarantees a single winner under
// concurrent assignment attempts.
func (s *JobService) Assign(ctx context.Context, jobID, worker, actor string) (*domain.Job, error) {
	actor = domain.NormalizeWallet(actor)
	worker = domain.NormalizeWallet(worker)

	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.EmployerAddress != actor {
		return nil, domain.ErrUnauthorized
	}
	if !job.Status.CanTransitionTo(domain.StatusInProgress) {
		return nil, fmt.Errorf("%w (from %s)", domain.ErrInvalidTransition, job.Status)
	}

	updated, err := s.repo.AssignIfOpen(ctx, jobID, actor, worker)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			// Guard matched nothing although the job exists: a concurrent
			// assignment got there first.
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}

	s.log.Info().Str("job_id", jobID).Str("worker", worker).Msg("job assigned")
	return updated, nil
}

// Finish moves an IN_PROGRESS job to FINISHED. Only the assigned worker may
// complete a job.
func (s *JobService) Finish(ctx context.Context, jobID, actor string) (*domain.Job, error) {
	actor = domain.NormalizeWallet(actor)

	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.WorkerAddress == "" || job.WorkerAddress != actor {
		return nil, domain.ErrUnauthorized
	}
	if !job.Status.CanTransitionTo(domain.StatusFinished) {
		return nil, fmt.Errorf("%w (from %s)", domain.ErrInvalidTransition, job.Status)
	}

	updated, err := s.repo.FinishIfInProgress(ctx, jobID, actor)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}

	s.log.Info().Str("job_id", jobID).Str("worker", actor).Msg("job finished")
	return updated, nil
}

// Get returns a single job. Public: no authentication required.
func (s *JobService) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	return s.repo.FindByID(ctx, jobID)
}

// List returns a page of the public marketplace listing.
func (s *JobService) List(ctx context.Context, filter ports.ListJobsFilter) (*ports.ListJobsResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultJobPageLimit
	}
	if filter.Limit > maxJobPageLimit {
		filter.Limit = maxJobPageLimit
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListJobsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
