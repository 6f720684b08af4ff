package export

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shotbuilder/backend/internal/config"
	"github.com/shotbuilder/backend/pkg/logger"
)

// JobRecorder persists job state between polls. *JobStore is the Mongo
// implementation.
type JobRecorder interface {
	Save(ctx context.Context, pj *PersistedJob) error
	Load(ctx context.Context, clientID, jobID string) (*PersistedJob, error)
}

// Service runs export jobs in the background and tracks them for polling and
// abort. One Worker is built per job so an abort never bleeds across jobs.
type Service struct {
	cfg   *config.Config
	jobs  JobRecorder
	files ObjectFetcher

	mu      sync.Mutex
	running map[string]*Worker
}

func NewService(cfg *config.Config, jobs JobRecorder, files ObjectFetcher) *Service {
	return &Service{
		cfg:     cfg,
		jobs:    jobs,
		files:   files,
		running: map[string]*Worker{},
	}
}

// Start kicks off a job and returns its id immediately. Progress is written
// to the job store as items finish.
func (s *Service) Start(ctx context.Context, clientID string, job Job) (string, error) {
	if len(job.Images) == 0 {
		return "", ErrEmptyJob
	}
	jobID := uuid.NewString()
	worker := NewWorker(WorkerOptions{
		Objects:      s.files,
		Concurrency:  s.cfg.Export.Concurrency,
		FetchTimeout: s.cfg.Export.FetchTimeout,
		JPEGQuality:  s.cfg.Export.JPEGQuality,
	})

	pj := &PersistedJob{
		JobID:    jobID,
		ClientID: clientID,
		Status:   JobRunning,
		Density:  DensityByName(job.Density).Name,
		Total:    len(job.Images),
	}
	if err := s.jobs.Save(ctx, pj); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.running[jobID] = worker
	s.mu.Unlock()

	go s.run(jobID, clientID, worker, job, pj)
	return jobID, nil
}

func (s *Service) run(jobID, clientID string, worker *Worker, job Job, pj *PersistedJob) {
	// detach from the request, jobs outlive the call that started them
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	defer func() {
		s.mu.Lock()
		delete(s.running, jobID)
		s.mu.Unlock()
	}()

	// progress callbacks arrive from the worker's goroutines, one lock
	// covers both the counters and the save
	var progressMu sync.Mutex
	results, err := worker.Run(ctx, job, func(p Progress) {
		progressMu.Lock()
		defer progressMu.Unlock()
		if p.Current > pj.Current {
			pj.Current = p.Current
		}
		if p.Success {
			pj.Succeeded++
		}
		if err := s.jobs.Save(ctx, pj); err != nil {
			logger.Warnf("export %s: progress save failed: %v", jobID, err)
		}
	})
	if err != nil {
		pj.Status = JobError
		_ = s.jobs.Save(ctx, pj)
		return
	}

	pj.Results = results
	pj.Status = JobComplete
	if pj.Succeeded == 0 {
		pj.Status = JobError
	}
	if worker.aborted.Load() {
		pj.Status = JobAborted
	}
	if err := s.jobs.Save(ctx, pj); err != nil {
		logger.Errorf("export %s: final save failed: %v", jobID, err)
	}
	logger.Infof("export %s finished: %d/%d succeeded", jobID, pj.Succeeded, pj.Total)
}

// Get returns the persisted state of a job for polling.
func (s *Service) Get(ctx context.Context, clientID, jobID string) (*PersistedJob, error) {
	return s.jobs.Load(ctx, clientID, jobID)
}

// Abort acknowledges an abort request. Returns false when the job is no
// longer running. In-flight images still finish.
func (s *Service) Abort(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	worker, ok := s.running[jobID]
	if !ok {
		return false
	}
	worker.Abort()
	return true
}
