package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/pdfsaver/pkg/domain/interfaces"
	"github.com/m-mizutani/pdfsaver/pkg/domain/model"
	"github.com/m-mizutani/pdfsaver/pkg/utils/async"
)

// SaveResponse is the body of a completed save
type SaveResponse struct {
	Saved   bool          `json:"saved"`
	Outcome model.Outcome `json:"outcome"`
}

// SaveHandler triggers saves for a calling UI
type SaveHandler struct {
	saverUC interfaces.SaverUseCase
	maxBody int64
}

// NewSaveHandler creates a new SaveHandler
func NewSaveHandler(saverUC interfaces.SaverUseCase, maxBody int64) *SaveHandler {
	return &SaveHandler{
		saverUC: saverUC,
		maxBody: maxBody,
	}
}

// Handle decodes {"url","filename"} and runs the save. With ?async=true the
// save runs in the background and the handler replies 202 at once.
func (h *SaveHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	var req model.SaveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		logger.Warn("Invalid save request body", "error", err)
		writeError(ctx, w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		logger.Warn("Invalid save request", "error", err)
		writeError(ctx, w, err, http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("async") == "true" {
		async.Dispatch(ctx, "save "+req.SuggestedFilename, func(ctx context.Context) error {
			h.saverUC.SaveOutcome(ctx, &req)
			return nil
		})
		writeJSON(ctx, w, http.StatusAccepted, map[string]string{"status": "accepted"})
		return
	}

	outcome := h.saverUC.SaveOutcome(ctx, &req)
	writeJSON(ctx, w, http.StatusOK, &SaveResponse{
		Saved:   outcome.Bool(),
		Outcome: outcome,
	})
}
