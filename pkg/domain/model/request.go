package model

import (
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pdfsaver/pkg/domain/types"
)

// SaveRequest is the input of a single save call
type SaveRequest struct {
	SourceURL         string `json:"url" toml:"url"`           // http(s) URL or same-origin absolute path
	SuggestedFilename string `json:"filename" toml:"filename"` // UI hint only
}

// Validate checks that the request can be attempted at all
func (r *SaveRequest) Validate() error {
	if r.SourceURL == "" {
		return goerr.New("source URL is empty", goerr.T(types.ErrTagInvalidRequest))
	}
	if r.SuggestedFilename == "" {
		return goerr.New("suggested filename is empty",
			goerr.T(types.ErrTagInvalidRequest),
			goerr.V("url", r.SourceURL))
	}

	if strings.HasPrefix(r.SourceURL, "//") || strings.HasPrefix(r.SourceURL, "/\\") {
		return goerr.New("protocol-relative URL is not a same-origin path",
			goerr.T(types.ErrTagInvalidRequest),
			goerr.V("url", r.SourceURL))
	}
	if strings.HasPrefix(r.SourceURL, "/") {
		return nil
	}

	u, err := url.Parse(r.SourceURL)
	if err != nil {
		return goerr.Wrap(err, "invalid source URL",
			goerr.T(types.ErrTagInvalidRequest),
			goerr.V("url", r.SourceURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return goerr.New("unsupported URL scheme",
			goerr.T(types.ErrTagInvalidRequest),
			goerr.V("url", r.SourceURL),
			goerr.V("scheme", u.Scheme))
	}
	if u.Host == "" {
		return goerr.New("source URL has no host",
			goerr.T(types.ErrTagInvalidRequest),
			goerr.V("url", r.SourceURL))
	}

	return nil
}
