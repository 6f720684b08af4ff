package export

import (
	"bytes"
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
)

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestRunIsolatesItemFailures(t *testing.T) {
	good := jpegBytes(t, 400, 200)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good.jpg":
			w.Write(good)
		case "/broken.jpg":
			w.Write([]byte("not an image"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	w := NewWorker(WorkerOptions{Concurrency: 3})
	var mu sync.Mutex
	var progress []Progress
	results, err := w.Run(context.Background(), Job{
		Images: []ImageSpec{
			{ID: "shot-1", SourceURL: srv.URL + "/good.jpg", FocalX: 0.5, FocalY: 0.5},
			{ID: "shot-2", SourceURL: srv.URL + "/missing.jpg"},
			{ID: "shot-3", SourceURL: srv.URL + "/broken.jpg"},
		},
		Density: "compact",
	}, func(p Progress) {
		mu.Lock()
		progress = append(progress, p)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Stage != StageDone || !strings.HasPrefix(results[0].DataURL, "data:image/jpeg;base64,") {
		t.Errorf("shot-1 = %+v, want done with data URL", results[0])
	}
	if results[1].Stage != StageFailed || !strings.Contains(results[1].Error, "fetch") {
		t.Errorf("shot-2 = %+v, want fetch failure", results[1])
	}
	if results[2].Stage != StageFailed || !strings.Contains(results[2].Error, "decode") {
		t.Errorf("shot-3 = %+v, want decode failure", results[2])
	}

	if len(progress) != 3 {
		t.Fatalf("got %d progress events, want 3", len(progress))
	}
	seen := map[int]bool{}
	ok := 0
	for _, p := range progress {
		if p.Total != 3 {
			t.Errorf("progress total = %d, want 3", p.Total)
		}
		seen[p.Current] = true
		if p.Success {
			ok++
		}
	}
	for i := 1; i <= 3; i++ {
		if !seen[i] {
			t.Errorf("missing progress current=%d", i)
		}
	}
	if ok != 1 {
		t.Errorf("got %d successes, want 1", ok)
	}
}

func TestRunEmptyJob(t *testing.T) {
	w := NewWorker(WorkerOptions{})
	if _, err := w.Run(context.Background(), Job{}, nil); err != ErrEmptyJob {
		t.Errorf("err = %v, want ErrEmptyJob", err)
	}
}

func TestAbortSkipsUnstartedItems(t *testing.T) {
	w := NewWorker(WorkerOptions{Concurrency: 1})
	w.Abort()

	results, err := w.Run(context.Background(), Job{
		Images: []ImageSpec{
			{ID: "shot-1", SourceURL: "http://example.invalid/a.jpg"},
			{ID: "shot-2", SourceURL: "http://example.invalid/b.jpg"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, res := range results {
		if res.Stage != StageFailed || res.Error != "aborted" {
			t.Errorf("result = %+v, want aborted", res)
		}
	}
}

func TestRenderImageRespectsDensityBounds(t *testing.T) {
	img := imaging.New(1600, 800, color.NRGBA{A: 255})
	dataURL, err := renderImage(img, DensityCompact, 0.5, 0.5, 85)
	if err != nil {
		t.Fatalf("renderImage: %v", err)
	}
	if !strings.HasPrefix(dataURL, "data:image/jpeg;base64,") {
		t.Errorf("not a jpeg data URL: %.40s", dataURL)
	}
}

func TestDensityByName(t *testing.T) {
	if d := DensityByName("LARGE"); d != DensityLarge {
		t.Errorf("got %+v, want large", d)
	}
	if d := DensityByName("unknown"); d != DensityStandard {
		t.Errorf("got %+v, want standard fallback", d)
	}
	if DensityStandard.Ratio() != 0.8 {
		t.Errorf("standard ratio = %v, want 0.8", DensityStandard.Ratio())
	}
}
