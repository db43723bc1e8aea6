package fetch

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/schollz/progressbar/v3"

	"github.com/m-mizutani/pdfsaver/pkg/domain/interfaces"
	"github.com/m-mizutani/pdfsaver/pkg/domain/model"
	"github.com/m-mizutani/pdfsaver/pkg/domain/types"
)

type client struct {
	httpClient *http.Client
	baseURL    *url.URL
	token      string
	timeout    time.Duration
	progress   io.Writer
}

// Option configures the fetch client
type Option func(*client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(c *http.Client) Option {
	return func(cl *client) {
		cl.httpClient = c
	}
}

// WithBaseURL resolves same-origin paths such as "/offer/12/pdf" against base
func WithBaseURL(base *url.URL) Option {
	return func(cl *client) {
		cl.baseURL = base
	}
}

// WithToken sends "Authorization: Bearer <token>" to the origin of the base URL.
// Requests to any other origin, or without a base URL, carry no token.
func WithToken(token string) Option {
	return func(cl *client) {
		cl.token = token
	}
}

// WithTimeout bounds a single fetch. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(cl *client) {
		cl.timeout = d
	}
}

// WithProgress renders a byte progress bar to w while the body is read
func WithProgress(w io.Writer) Option {
	return func(cl *client) {
		cl.progress = w
	}
}

// NewClient creates a Fetcher backed by net/http
func NewClient(opts ...Option) interfaces.Fetcher {
	cl := &client{
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(cl)
	}
	return cl
}

// Fetch downloads url and returns the whole body
func (c *client) Fetch(ctx context.Context, rawURL string) (*model.Content, error) {
	logger := ctxlog.From(ctx)

	target, err := c.resolve(rawURL)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request",
			goerr.T(types.ErrTagNetwork),
			goerr.V("url", target.String()))
	}
	req.Header.Set("Accept", model.ContentTypePDF)
	if c.token != "" {
		if c.baseURL != nil && sameOrigin(target, c.baseURL) {
			req.Header.Set("Authorization", "Bearer "+c.token)
		} else {
			logger.Debug("Token withheld from foreign origin", "url", target.String())
		}
	}

	logger.Debug("Fetching document", "url", target.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch document",
			goerr.T(types.ErrTagNetwork),
			goerr.V("url", target.String()))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, goerr.New("network response was not ok",
			goerr.T(types.ErrTagNetwork),
			goerr.V("url", target.String()),
			goerr.V("status", resp.StatusCode))
	}

	var body io.Reader = resp.Body
	if c.progress != nil {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(c.progress),
			progressbar.OptionSetDescription("downloading"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		body = io.TeeReader(resp.Body, bar)
		defer func() { _ = bar.Finish() }()
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response body",
			goerr.T(types.ErrTagNetwork),
			goerr.V("url", target.String()))
	}

	logger.Debug("Fetched document",
		"url", target.String(),
		"status", resp.StatusCode,
		"size_bytes", len(data),
	)

	return &model.Content{
		Data:        data,
		ContentType: contentType(resp.Header.Get("Content-Type")),
	}, nil
}

// resolve parses rawURL. A path is resolved against the base URL and must
// stay on its origin.
func (c *client) resolve(rawURL string) (*url.URL, error) {
	if strings.HasPrefix(rawURL, "//") || strings.HasPrefix(rawURL, "/\\") {
		return nil, goerr.New("protocol-relative URL is not a same-origin path",
			goerr.T(types.ErrTagNetwork),
			goerr.V("url", rawURL))
	}

	ref, err := url.Parse(rawURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid URL",
			goerr.T(types.ErrTagNetwork),
			goerr.V("url", rawURL))
	}
	if !strings.HasPrefix(rawURL, "/") {
		return ref, nil
	}

	if c.baseURL == nil {
		return nil, goerr.New("same-origin path requires a base URL",
			goerr.T(types.ErrTagNetwork),
			goerr.V("url", rawURL))
	}

	target := c.baseURL.ResolveReference(ref)
	if !sameOrigin(target, c.baseURL) {
		return nil, goerr.New("path resolves outside the base origin",
			goerr.T(types.ErrTagNetwork),
			goerr.V("url", rawURL),
			goerr.V("resolved", target.String()))
	}
	return target, nil
}

// sameOrigin compares scheme, host and effective port
func sameOrigin(a, b *url.URL) bool {
	return origin(a) == origin(b)
}

func origin(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	port := u.Port()
	if port == "" {
		switch scheme {
		case "http":
			port = "80"
		case "https":
			port = "443"
		}
	}
	return scheme + "://" + strings.ToLower(u.Hostname()) + ":" + port
}

// contentType returns the media type of header, defaulting to PDF
func contentType(header string) string {
	if header == "" {
		return model.ContentTypePDF
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return model.ContentTypePDF
	}
	return mediaType
}
