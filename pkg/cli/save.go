package cli

import (
	"context"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/pdfsaver/pkg/cli/config"
	"github.com/m-mizutani/pdfsaver/pkg/domain/model"
	"github.com/m-mizutani/pdfsaver/pkg/infra/download"
	"github.com/m-mizutani/pdfsaver/pkg/usecase"
)

func cmdSave() *cli.Command {
	var (
		saverCfg  config.Saver
		sentryCfg config.Sentry
		filename  string
	)

	flags := append(saverCfg.Flags(), sentryCfg.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:        "filename",
		Aliases:     []string{"o"},
		Usage:       "Suggested file name (default: last element of the URL path)",
		Destination: &filename,
	})

	return &cli.Command{
		Name:      "save",
		Usage:     "Fetch a PDF and save it via Save As dialog or automatic download",
		ArgsUsage: "URL",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if c.Args().Len() != 1 {
				return goerr.New("exactly one URL is required", goerr.V("args", c.Args().Slice()))
			}
			req := &model.SaveRequest{
				SourceURL:         c.Args().First(),
				SuggestedFilename: filename,
			}
			if req.SuggestedFilename == "" {
				req.SuggestedFilename = filenameFromURL(req.SourceURL)
			}

			logger.Debug("Configuration", "saver", saverCfg, "sentry", sentryCfg)

			env, err := saverCfg.Environment(false)
			if err != nil {
				return goerr.Wrap(err, "failed to build environment")
			}

			var opts []usecase.SaverOption
			reporter, err := sentryCfg.Reporter()
			if err != nil {
				return err
			}
			if reporter != nil {
				opts = append(opts, usecase.WithErrorReporter(reporter))
				defer reporter.Flush(2 * time.Second)
			}

			outcome := usecase.NewSaver(env, opts...).SaveOutcome(ctx, req)
			switch outcome {
			case model.OutcomeSaved:
				return nil
			case model.OutcomeCancelled:
				logger.Info("Nothing saved", "outcome", outcome)
				return nil
			default:
				return goerr.New("PDF was not saved",
					goerr.V("url", req.SourceURL),
					goerr.V("outcome", outcome))
			}
		},
	}
}

// filenameFromURL derives a PDF file name from the last path element of raw
func filenameFromURL(raw string) string {
	var p string
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}

	base := path.Base(p)
	if base == "." || base == "/" || base == "" {
		return download.DefaultFilename
	}
	if !strings.EqualFold(path.Ext(base), ".pdf") {
		base += ".pdf"
	}
	return base
}
