package export

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// JobStatus is the batch-level state stored with the job record.
type JobStatus string

const (
	JobRunning  JobStatus = "running"
	JobComplete JobStatus = "complete"
	JobError    JobStatus = "error"
	JobAborted  JobStatus = "aborted"
)

// PersistedJob is the Mongo representation of an export job, so progress can
// be polled after the starting request returns.
type PersistedJob struct {
	JobID     string    `bson:"jobId" json:"jobId"`
	ClientID  string    `bson:"clientId" json:"clientId"`
	Status    JobStatus `bson:"status" json:"status"`
	Density   string    `bson:"density" json:"density"`
	Total     int       `bson:"total" json:"total"`
	Current   int       `bson:"current" json:"current"`
	Succeeded int       `bson:"succeeded" json:"succeeded"`
	Results   []Result  `bson:"results,omitempty" json:"results,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// JobStore persists export job metadata.
type JobStore struct {
	col *mongo.Collection
}

func NewJobStore(db *mongo.Database) *JobStore {
	return &JobStore{col: db.Collection("exportJobs")}
}

func (s *JobStore) Save(ctx context.Context, pj *PersistedJob) error {
	if s == nil || s.col == nil {
		return nil
	}
	pj.UpdatedAt = time.Now().UTC()
	if pj.CreatedAt.IsZero() {
		pj.CreatedAt = pj.UpdatedAt
	}
	filter := bson.M{"jobId": pj.JobID, "clientId": pj.ClientID}
	opts := options.Update().SetUpsert(true)
	if _, err := s.col.UpdateOne(ctx, filter, bson.M{"$set": pj}, opts); err != nil {
		return fmt.Errorf("save export job: %w", err)
	}
	return nil
}

// Load fetches a job by id within the tenant. Returns nil when not found.
func (s *JobStore) Load(ctx context.Context, clientID, jobID string) (*PersistedJob, error) {
	if s == nil || s.col == nil {
		return nil, nil
	}
	var pj PersistedJob
	err := s.col.FindOne(ctx, bson.M{"jobId": jobID, "clientId": clientID}).Decode(&pj)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &pj, nil
}
