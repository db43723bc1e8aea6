package usecase

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/pdfsaver/pkg/domain/interfaces"
	"github.com/m-mizutani/pdfsaver/pkg/domain/model"
	"github.com/m-mizutani/pdfsaver/pkg/domain/types"
)

// strategy persists fetched content under a suggested name
type strategy interface {
	name() string
	save(ctx context.Context, content *model.Content, filename string) (model.Outcome, error)
}

var (
	_ strategy = (*interactiveStrategy)(nil)
	_ strategy = (*fallbackStrategy)(nil)
)

type saverUseCase struct {
	env      *interfaces.Environment
	reporter interfaces.ErrorReporter
}

// SaverOption configures the saver use case
type SaverOption func(*saverUseCase)

// WithErrorReporter forwards every failed save to r
func WithErrorReporter(r interfaces.ErrorReporter) SaverOption {
	return func(uc *saverUseCase) {
		uc.reporter = r
	}
}

// NewSaver creates a SaverUseCase bound to the capabilities of env
func NewSaver(env *interfaces.Environment, opts ...SaverOption) interfaces.SaverUseCase {
	uc := &saverUseCase{env: env}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Save fetches the PDF and stores it; true means it was saved
func (uc *saverUseCase) Save(ctx context.Context, req *model.SaveRequest) bool {
	return uc.SaveOutcome(ctx, req).Bool()
}

// SaveOutcome runs fetch, the save dialog when available, and the automatic
// download fallback. It never panics and never returns an error: failures end
// in OutcomeFailed after a single user-facing alert.
func (uc *saverUseCase) SaveOutcome(ctx context.Context, req *model.SaveRequest) (outcome model.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = uc.fail(ctx, goerr.New("panic while saving PDF",
				goerr.V("recover", fmt.Sprint(r)),
				goerr.V("stack", string(debug.Stack()))))
		}
	}()

	if req == nil {
		return uc.fail(ctx, goerr.New("save request is nil", goerr.T(types.ErrTagInvalidRequest)))
	}

	logger := ctxlog.From(ctx).With(
		"url", req.SourceURL,
		"filename", req.SuggestedFilename,
	)
	ctx = ctxlog.With(ctx, logger)

	if err := req.Validate(); err != nil {
		return uc.fail(ctx, err)
	}
	if uc.env == nil || uc.env.Fetcher == nil {
		return uc.fail(ctx, goerr.New("environment has no fetch capability"))
	}

	content, err := uc.env.Fetcher.Fetch(ctx, req.SourceURL)
	if err != nil {
		return uc.fail(ctx, goerr.Wrap(err, "failed to fetch PDF", goerr.T(types.ErrTagNetwork)))
	}

	logger.Debug("PDF fetched", "size_bytes", content.Size())

	if uc.env.HasSavePicker() {
		dialog := &interactiveStrategy{picker: uc.env.SavePicker}
		result, err := dialog.save(ctx, content, req.SuggestedFilename)
		switch result {
		case model.OutcomeSaved:
			logger.Info("PDF saved", "method", dialog.name())
			return model.OutcomeSaved
		case model.OutcomeCancelled:
			logger.Info("Save dialog cancelled by user")
			return model.OutcomeCancelled
		default:
			logger.Warn("Save dialog failed, falling back to download", "error", err)
		}
	}

	fallback := &fallbackStrategy{urls: uc.env.ObjectURLs, downloader: uc.env.Downloader}
	if _, err := fallback.save(ctx, content, req.SuggestedFilename); err != nil {
		return uc.fail(ctx, err)
	}

	logger.Info("PDF saved", "method", fallback.name())
	return model.OutcomeSaved
}

// fail logs, reports and alerts once, then yields OutcomeFailed
func (uc *saverUseCase) fail(ctx context.Context, err error) model.Outcome {
	ctxlog.From(ctx).Error("Download failed", "error", err)

	if uc.reporter != nil {
		uc.reporter.Report(ctx, err)
	}
	if uc.env != nil && uc.env.Notifier != nil {
		uc.env.Notifier.Alert(ctx, types.MsgDownloadFailed)
	}
	return model.OutcomeFailed
}

// interactiveStrategy writes through the host "Save As" dialog
type interactiveStrategy struct {
	picker interfaces.SavePicker
}

func (s *interactiveStrategy) name() string { return "dialog" }

// save reports OutcomeCancelled, with a nil error, when the dialog is dismissed.
// A panic in the dialog, handle or sink is a failure like any other.
func (s *interactiveStrategy) save(ctx context.Context, content *model.Content, filename string) (outcome model.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = model.OutcomeFailed
			err = goerr.New("panic in save dialog",
				goerr.T(types.ErrTagInteractiveSave),
				goerr.V("recover", fmt.Sprint(r)),
				goerr.V("stack", string(debug.Stack())))
		}
	}()

	err = s.write(ctx, content, filename)
	switch {
	case err == nil:
		return model.OutcomeSaved, nil
	case errors.Is(err, types.ErrAbort):
		return model.OutcomeCancelled, nil
	default:
		return model.OutcomeFailed, goerr.Wrap(err, "interactive save failed", goerr.T(types.ErrTagInteractiveSave))
	}
}

func (s *interactiveStrategy) write(ctx context.Context, content *model.Content, filename string) error {
	handle, err := s.picker.ShowSaveFilePicker(ctx, model.SaveFilePickerOptions{
		SuggestedName: filename,
		Types:         []model.FileType{model.PDFFileType()},
	})
	if err != nil {
		return err
	}

	sink, err := handle.CreateWritable(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to open file for writing", goerr.V("path", handle.Name()))
	}

	closed := false
	defer func() {
		if !closed {
			_ = sink.Close(ctx)
		}
	}()

	if err := sink.Write(ctx, content.Data); err != nil {
		return goerr.Wrap(err, "failed to write PDF", goerr.V("path", handle.Name()))
	}

	closed = true
	if err := sink.Close(ctx); err != nil {
		return goerr.Wrap(err, "failed to close file", goerr.V("path", handle.Name()))
	}
	return nil
}

// fallbackStrategy triggers a named download of a transient object URL
type fallbackStrategy struct {
	urls       interfaces.ObjectURLs
	downloader interfaces.Downloader
}

func (s *fallbackStrategy) name() string { return "download" }

func (s *fallbackStrategy) save(ctx context.Context, content *model.Content, filename string) (model.Outcome, error) {
	if s.urls == nil || s.downloader == nil {
		return model.OutcomeFailed, goerr.New("environment has no download capability",
			goerr.T(types.ErrTagFallbackSave))
	}

	objectURL := s.urls.CreateObjectURL(content)
	// revoked only after the download was handed the URL
	defer s.urls.RevokeObjectURL(objectURL)

	if err := s.downloader.Download(ctx, objectURL, filename); err != nil {
		return model.OutcomeFailed, goerr.Wrap(err, "automatic download failed",
			goerr.T(types.ErrTagFallbackSave),
			goerr.V("object_url", objectURL))
	}
	return model.OutcomeSaved, nil
}
