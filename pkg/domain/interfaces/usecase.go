package interfaces

import (
	"context"

	"github.com/m-mizutani/pdfsaver/pkg/domain/model"
)

// SaverUseCase saves a remote PDF to user-controlled storage
type SaverUseCase interface {
	// Save never fails; it reports true only when the document was saved
	Save(ctx context.Context, req *model.SaveRequest) bool

	// SaveOutcome is Save with the discriminated terminal state
	SaveOutcome(ctx context.Context, req *model.SaveRequest) model.Outcome
}

// BatchUseCase runs independent saves for every manifest entry
type BatchUseCase interface {
	Run(ctx context.Context, manifest *model.BatchManifest) ([]model.BatchResult, error)
}
