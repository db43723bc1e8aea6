package usecase_test

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/pdfsaver/pkg/domain/model"
	"github.com/m-mizutani/pdfsaver/pkg/usecase"
)

// slowSaver tracks the peak number of concurrent calls
type slowSaver struct {
	mu       sync.Mutex
	active   int32
	peak     int32
	outcomes map[string]model.Outcome
}

func (s *slowSaver) Save(ctx context.Context, req *model.SaveRequest) bool {
	return s.SaveOutcome(ctx, req).Bool()
}

func (s *slowSaver) SaveOutcome(ctx context.Context, req *model.SaveRequest) model.Outcome {
	n := atomic.AddInt32(&s.active, 1)
	defer atomic.AddInt32(&s.active, -1)

	s.mu.Lock()
	if n > s.peak {
		s.peak = n
	}
	s.mu.Unlock()

	time.Sleep(10 * time.Millisecond)
	if o, ok := s.outcomes[req.SuggestedFilename]; ok {
		return o
	}
	return model.OutcomeSaved
}

func manifestOf(names ...string) *model.BatchManifest {
	m := &model.BatchManifest{}
	for _, n := range names {
		m.Documents = append(m.Documents, model.SaveRequest{
			SourceURL:         "https://example.com/" + n,
			SuggestedFilename: n,
		})
	}
	return m
}

func TestBatch_Run(t *testing.T) {
	saver := &slowSaver{outcomes: map[string]model.Outcome{
		"b.pdf": model.OutcomeFailed,
		"d.pdf": model.OutcomeCancelled,
	}}
	uc := usecase.NewBatch(saver, 2)

	results, err := uc.Run(context.Background(), manifestOf("a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf"))
	gt.NoError(t, err)
	gt.Number(t, len(results)).Equal(5)

	want := []model.Outcome{
		model.OutcomeSaved,
		model.OutcomeFailed,
		model.OutcomeSaved,
		model.OutcomeCancelled,
		model.OutcomeSaved,
	}
	for i, r := range results {
		gt.Value(t, r.Outcome).Equal(want[i])
	}
	gt.Value(t, results[3].Request.SuggestedFilename).Equal("d.pdf")
	gt.True(t, saver.peak <= 2)
	gt.Value(t, model.Summarize(results)).Equal(model.BatchSummary{Saved: 3, Cancelled: 1, Failed: 1})
}

func TestBatch_Run_Empty(t *testing.T) {
	uc := usecase.NewBatch(&slowSaver{}, 0)

	_, err := uc.Run(context.Background(), &model.BatchManifest{})
	gt.Error(t, err)

	_, err = uc.Run(context.Background(), nil)
	gt.Error(t, err)
}

func TestBatch_Run_Sequential(t *testing.T) {
	saver := &slowSaver{}
	uc := usecase.NewBatch(saver, 0)

	_, err := uc.Run(context.Background(), manifestOf("a.pdf", "b.pdf", "c.pdf"))
	gt.NoError(t, err)
	gt.Value(t, saver.peak).Equal(int32(1))
}

func TestLoadManifest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		src := `
[[document]]
url = "https://example.com/offer/12.pdf"
filename = "offer-12.pdf"

[[document]]
url = "/quotation/7/pdf"
filename = "quotation-7.pdf"
`
		m, err := usecase.LoadManifest(strings.NewReader(src))
		gt.NoError(t, err)
		gt.Number(t, len(m.Documents)).Equal(2)
		gt.Value(t, m.Documents[0]).Equal(model.SaveRequest{
			SourceURL:         "https://example.com/offer/12.pdf",
			SuggestedFilename: "offer-12.pdf",
		})
		gt.Value(t, m.Documents[1].SourceURL).Equal("/quotation/7/pdf")
	})

	t.Run("unknown field", func(t *testing.T) {
		src := `
[[document]]
url = "https://example.com/a.pdf"
filename = "a.pdf"
title = "A"
`
		_, err := usecase.LoadManifest(strings.NewReader(src))
		gt.Error(t, err)
	})

	t.Run("invalid entry", func(t *testing.T) {
		src := `
[[document]]
url = "ftp://example.com/a.pdf"
filename = "a.pdf"
`
		_, err := usecase.LoadManifest(strings.NewReader(src))
		gt.Error(t, err)
		gt.String(t, err.Error()).Contains("invalid manifest entry")
	})

	t.Run("broken toml", func(t *testing.T) {
		_, err := usecase.LoadManifest(strings.NewReader("[[document"))
		gt.Error(t, err)
	})
}
