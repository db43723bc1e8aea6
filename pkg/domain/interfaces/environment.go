package interfaces

import (
	"context"

	"github.com/m-mizutani/pdfsaver/pkg/domain/model"
)

// Fetcher retrieves a remote resource and materializes its body in memory
type Fetcher interface {
	// Fetch returns an error for transport failures and non-2xx statuses
	Fetch(ctx context.Context, url string) (*model.Content, error)
}

// SavePicker shows an interactive "Save As" dialog.
// When the user dismisses the dialog, the returned error matches types.ErrAbort.
type SavePicker interface {
	ShowSaveFilePicker(ctx context.Context, opts model.SaveFilePickerOptions) (FileHandle, error)
}

// FileHandle is the location chosen in the save dialog
type FileHandle interface {
	Name() string
	CreateWritable(ctx context.Context) (WritableSink, error)
}

// WritableSink receives the document. Close must be called on every path.
type WritableSink interface {
	Write(ctx context.Context, data []byte) error
	Close(ctx context.Context) error
}

// ObjectURLs issues transient references to in-memory content
type ObjectURLs interface {
	CreateObjectURL(content *model.Content) string
	Resolve(objectURL string) (*model.Content, bool)
	RevokeObjectURL(objectURL string)
}

// Downloader triggers a named download of an object URL
type Downloader interface {
	Download(ctx context.Context, objectURL, filename string) error
}

// Notifier shows a blocking, user-facing notification
type Notifier interface {
	Alert(ctx context.Context, message string)
}

// ErrorReporter forwards failures to an external tracker
type ErrorReporter interface {
	Report(ctx context.Context, err error)
}

// Environment bundles the host capabilities used by a save call.
// SavePicker is nil when the host has no interactive dialog.
type Environment struct {
	Fetcher    Fetcher
	SavePicker SavePicker
	ObjectURLs ObjectURLs
	Downloader Downloader
	Notifier   Notifier
}

// HasSavePicker probes for the interactive save capability
func (e *Environment) HasSavePicker() bool {
	return e.SavePicker != nil
}
