package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chainlance/marketplace-api/internal/core/domain"
	"github.com/chainlance/marketplace-api/internal/core/ports"
)

const collectionJobs = "jobs"

// JobRepository persists jobs. The lifecycle transitions are expressed as
// conditional FindOneAndUpdate calls whose filters encode the expected
// current state, so a racing caller whose view is stale simply matches
// nothing.
type JobRepository struct {
	col *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{col: db.Collection(collectionJobs)}
}

// Create inserts a new job document.
func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, job); err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// FindByID retrieves a job by id.
func (r *JobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var job domain.Job
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	return &job, nil
}

// List returns a page of jobs matching filter, newest first, plus the total
// match count.
func (r *JobRepository) List(ctx context.Context, filter ports.ListJobsFilter) ([]*domain.Job, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Tag != "" {
		query["tags"] = filter.Tag
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer cur.Close(ctx)

	var jobs []*domain.Job
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, 0, fmt.Errorf("decode jobs: %w", err)
	}
	return jobs, total, nil
}

// AssignIfOpen atomically assigns worker and flips the status to IN_PROGRESS.
// The filter guards on employer ownership and OPEN status; when it matches no
// document the caller lost the race (or holds a stale view).
func (r *JobRepository) AssignIfOpen(ctx context.Context, id, employer, worker string) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":              id,
		"employer_address": employer,
		"status":           domain.StatusOpen,
	}
	update := bson.M{"$set": bson.M{
		"worker_address": worker,
		"status":         domain.StatusInProgress,
	}}

	return r.findOneAndUpdate(ctx, filter, update)
}

// FinishIfInProgress atomically flips the status to FINISHED, guarded on the
// assigned worker and IN_PROGRESS status.
func (r *JobRepository) FinishIfInProgress(ctx context.Context, id, worker string) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":            id,
		"worker_address": worker,
		"status":         domain.StatusInProgress,
	}
	update := bson.M{"$set": bson.M{"status": domain.StatusFinished}}

	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *JobRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Job, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var job domain.Job
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("update job: %w", err)
	}
	return &job, nil
}

// EnsureIndexes creates the listing and ownership indexes.
func (r *JobRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "employer_address", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
