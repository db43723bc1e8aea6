package types

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// ErrAbort is returned by a save picker when the user dismisses the dialog.
// Match it with errors.Is.
var ErrAbort = errors.New("save dialog aborted by user")

var (
	// ErrTagNetwork marks a failed fetch: transport error or non-2xx status
	ErrTagNetwork = goerr.NewTag("network_failure")

	// ErrTagInteractiveSave marks a non-cancellation failure of the save dialog path
	ErrTagInteractiveSave = goerr.NewTag("interactive_save_failure")

	// ErrTagFallbackSave marks a failure of the automatic download path
	ErrTagFallbackSave = goerr.NewTag("fallback_save_failure")

	// ErrTagInvalidRequest marks a request rejected before any I/O
	ErrTagInvalidRequest = goerr.NewTag("invalid_request")
)

// MsgDownloadFailed is the alert shown to the user when a save fails.
// It doubles as the key of the localization catalog.
const MsgDownloadFailed = "Error downloading the PDF."
