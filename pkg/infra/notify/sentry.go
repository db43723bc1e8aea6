package notify

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/pdfsaver/pkg/domain/interfaces"
)

// Sentry reports failures to a Sentry project
type Sentry struct {
	hub *sentry.Hub
}

var _ interfaces.ErrorReporter = (*Sentry)(nil)

// NewSentry initializes the Sentry client for dsn
func NewSentry(dsn, env string) (*Sentry, error) {
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize sentry", goerr.V("env", env))
	}

	return &Sentry{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// Report sends err with the values attached by goerr as extra context
func (s *Sentry) Report(ctx context.Context, err error) {
	hub := s.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		if gerr := goerr.Unwrap(err); gerr != nil {
			scope.SetContext("goerr", sentry.Context(gerr.Values()))
		}
		hub.CaptureException(err)
	})
}

// Flush waits until buffered events are sent or timeout elapses
func (s *Sentry) Flush(timeout time.Duration) bool {
	return s.hub.Flush(timeout)
}
