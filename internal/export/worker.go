package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/shotbuilder/backend/pkg/metrics"
)

// Stage is the per-image pipeline state.
type Stage string

const (
	StageIdle     Stage = "idle"
	StageFetching Stage = "fetching"
	StageDecoding Stage = "decoding"
	StageCropping Stage = "cropping"
	StageEncoding Stage = "encoding"
	StageDone     Stage = "done"
	StageFailed   Stage = "failed"
)

// ImageSpec is one entry of an export job. Exactly one of SourceURL or
// SourceKey is set; keys are resolved against object storage.
type ImageSpec struct {
	ID        string  `json:"id" bson:"id"`
	SourceURL string  `json:"sourceUrl,omitempty" bson:"sourceUrl,omitempty"`
	SourceKey string  `json:"sourceKey,omitempty" bson:"sourceKey,omitempty"`
	FocalX    float64 `json:"focalX" bson:"focalX"`
	FocalY    float64 `json:"focalY" bson:"focalY"`
}

type Job struct {
	Images      []ImageSpec `json:"images" binding:"required"`
	Density     string      `json:"density"`
	Concurrency int         `json:"concurrency"`
}

// Progress is emitted once per processed image, success or not.
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	ShotID  string `json:"shotId"`
	Success bool   `json:"success"`
}

// Result is the outcome for one image. DataURL is set on success, Error and
// the stage that failed otherwise.
type Result struct {
	ID      string `json:"id" bson:"id"`
	DataURL string `json:"dataUrl,omitempty" bson:"dataUrl,omitempty"`
	Stage   Stage  `json:"stage" bson:"stage"`
	Error   string `json:"error,omitempty" bson:"error,omitempty"`
}

var ErrEmptyJob = errors.New("export job has no images")

// ObjectFetcher resolves a storage key to image bytes.
type ObjectFetcher interface {
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
}

// Worker processes export jobs with bounded concurrency. An abort is
// acknowledged immediately: no new images start, but in-flight images run to
// completion and still land in the results.
type Worker struct {
	httpClient  *http.Client
	objects     ObjectFetcher
	concurrency int
	jpegQuality int

	aborted atomic.Bool
}

type WorkerOptions struct {
	Objects      ObjectFetcher
	Concurrency  int
	FetchTimeout time.Duration
	JPEGQuality  int
}

func NewWorker(opts WorkerOptions) *Worker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 3
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 30 * time.Second
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = 85
	}
	return &Worker{
		httpClient:  &http.Client{Timeout: opts.FetchTimeout},
		objects:     opts.Objects,
		concurrency: opts.Concurrency,
		jpegQuality: opts.JPEGQuality,
	}
}

// Abort stops the worker from starting new images. In-flight work continues.
func (w *Worker) Abort() {
	w.aborted.Store(true)
}

// Run processes every image in the job and returns all results in input
// order. onProgress fires once per image as it finishes. Individual failures
// never abort the batch; Run only returns an error for an empty job.
func (w *Worker) Run(ctx context.Context, job Job, onProgress func(Progress)) ([]Result, error) {
	if len(job.Images) == 0 {
		return nil, ErrEmptyJob
	}
	density := DensityByName(job.Density)
	concurrency := job.Concurrency
	if concurrency <= 0 {
		concurrency = w.concurrency
	}

	total := len(job.Images)
	results := make([]Result, total)
	var current atomic.Int64
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, spec := range job.Images {
		i, spec := i, spec
		if w.aborted.Load() || gctx.Err() != nil {
			results[i] = Result{ID: spec.ID, Stage: StageFailed, Error: "aborted"}
			w.report(onProgress, &current, total, spec.ID, false)
			continue
		}
		g.Go(func() error {
			res := w.processOne(gctx, spec, density)
			mu.Lock()
			results[i] = res
			mu.Unlock()
			w.report(onProgress, &current, total, spec.ID, res.Stage == StageDone)
			return nil
		})
	}
	_ = g.Wait()

	anyOK := false
	for _, res := range results {
		outcome := "ok"
		if res.Stage == StageDone {
			anyOK = true
		} else {
			outcome = "failed"
		}
		metrics.ExportItems.WithLabelValues(outcome).Inc()
	}
	batchOutcome := "complete"
	if !anyOK {
		batchOutcome = "error"
	}
	metrics.ExportBatches.WithLabelValues(batchOutcome).Inc()
	return results, nil
}

func (w *Worker) report(onProgress func(Progress), current *atomic.Int64, total int, shotID string, success bool) {
	if onProgress == nil {
		return
	}
	onProgress(Progress{
		Current: int(current.Add(1)),
		Total:   total,
		ShotID:  shotID,
		Success: success,
	})
}

func (w *Worker) processOne(ctx context.Context, spec ImageSpec, density Density) Result {
	res := Result{ID: spec.ID, Stage: StageFetching}

	body, err := w.fetch(ctx, spec)
	if err != nil {
		res.Stage = StageFailed
		res.Error = fmt.Sprintf("fetch: %v", err)
		return res
	}
	defer body.Close()

	res.Stage = StageDecoding
	img, err := imaging.Decode(body, imaging.AutoOrientation(true))
	if err != nil {
		res.Stage = StageFailed
		res.Error = fmt.Sprintf("decode: %v", err)
		return res
	}

	res.Stage = StageCropping
	dataURL, err := renderImage(img, density, spec.FocalX, spec.FocalY, w.jpegQuality)
	if err != nil {
		res.Stage = StageFailed
		res.Error = fmt.Sprintf("encode: %v", err)
		return res
	}

	res.Stage = StageDone
	res.DataURL = dataURL
	return res
}

func (w *Worker) fetch(ctx context.Context, spec ImageSpec) (io.ReadCloser, error) {
	if spec.SourceKey != "" {
		if w.objects == nil {
			return nil, fmt.Errorf("no object storage configured for key %q", spec.SourceKey)
		}
		return w.objects.DownloadFile(ctx, spec.SourceKey)
	}
	if spec.SourceURL == "" {
		return nil, fmt.Errorf("image %q has no source", spec.ID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, spec.SourceURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
