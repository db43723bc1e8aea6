package usecase

import (
	"context"
	"io"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/sync/errgroup"

	"github.com/m-mizutani/pdfsaver/pkg/domain/interfaces"
	"github.com/m-mizutani/pdfsaver/pkg/domain/model"
)

type batchUseCase struct {
	saver       interfaces.SaverUseCase
	concurrency int
}

// NewBatch creates a BatchUseCase running at most concurrency saves at a time
func NewBatch(saver interfaces.SaverUseCase, concurrency int) interfaces.BatchUseCase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &batchUseCase{
		saver:       saver,
		concurrency: concurrency,
	}
}

// Run saves every document of manifest. Results keep manifest order.
func (uc *batchUseCase) Run(ctx context.Context, manifest *model.BatchManifest) ([]model.BatchResult, error) {
	logger := ctxlog.From(ctx)

	if manifest == nil || len(manifest.Documents) == 0 {
		return nil, goerr.New("manifest has no documents")
	}

	results := make([]model.BatchResult, len(manifest.Documents))

	var eg errgroup.Group
	eg.SetLimit(uc.concurrency)

	for i := range manifest.Documents {
		req := manifest.Documents[i]
		eg.Go(func() error {
			results[i] = model.BatchResult{
				Request: req,
				Outcome: uc.saver.SaveOutcome(ctx, &req),
			}
			return nil
		})
	}

	// SaveOutcome never fails, so neither does the group
	_ = eg.Wait()

	summary := model.Summarize(results)
	logger.Info("Batch completed",
		"documents", len(results),
		"saved", summary.Saved,
		"cancelled", summary.Cancelled,
		"failed", summary.Failed,
	)

	return results, nil
}

// LoadManifest decodes a TOML batch manifest and validates every entry
func LoadManifest(r io.Reader) (*model.BatchManifest, error) {
	var manifest model.BatchManifest
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&manifest); err != nil {
		return nil, goerr.Wrap(err, "failed to decode manifest")
	}

	for i, doc := range manifest.Documents {
		if err := doc.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid manifest entry", goerr.V("index", i))
		}
	}

	return &manifest, nil
}
