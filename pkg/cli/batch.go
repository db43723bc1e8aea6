package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/pdfsaver/pkg/cli/config"
	"github.com/m-mizutani/pdfsaver/pkg/domain/model"
	"github.com/m-mizutani/pdfsaver/pkg/usecase"
)

func cmdBatch() *cli.Command {
	var (
		saverCfg    config.Saver
		sentryCfg   config.Sentry
		concurrency int
	)

	flags := append(saverCfg.Flags(), sentryCfg.Flags()...)
	flags = append(flags, &cli.IntFlag{
		Name:        "concurrency",
		Aliases:     []string{"c"},
		Usage:       "Number of documents fetched at the same time",
		Value:       runtime.NumCPU(),
		Destination: &concurrency,
		Sources:     cli.EnvVars("PDFSAVER_CONCURRENCY"),
	})

	return &cli.Command{
		Name:      "batch",
		Usage:     "Save every document listed in a TOML manifest",
		ArgsUsage: "MANIFEST",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if c.Args().Len() != 1 {
				return goerr.New("exactly one manifest path is required")
			}
			manifestPath := c.Args().First()

			f, err := os.Open(manifestPath)
			if err != nil {
				return goerr.Wrap(err, "failed to open manifest", goerr.V("path", manifestPath))
			}
			defer f.Close()

			manifest, err := usecase.LoadManifest(f)
			if err != nil {
				return goerr.Wrap(err, "failed to load manifest", goerr.V("path", manifestPath))
			}

			env, err := saverCfg.Environment(false)
			if err != nil {
				return goerr.Wrap(err, "failed to build environment")
			}

			// dialogs share one terminal and must not overlap
			workers := concurrency
			if env.HasSavePicker() {
				workers = 1
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

			logger.Info("Starting batch",
				"manifest", manifestPath,
				"documents", len(manifest.Documents),
				"concurrency", workers,
			)

			saver := usecase.NewSaver(env, opts...)
			results, err := usecase.NewBatch(saver, workers).Run(ctx, manifest)
			if err != nil {
				return err
			}

			if err := printResults(c.Root().Writer, results); err != nil {
				return goerr.Wrap(err, "failed to print results")
			}

			if s := model.Summarize(results); s.Failed > 0 {
				return goerr.New("some documents were not saved",
					goerr.V("failed", s.Failed),
					goerr.V("saved", s.Saved))
			}
			return nil
		},
	}
}

func printResults(w io.Writer, results []model.BatchResult) error {
	if w == nil {
		w = os.Stdout
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OUTCOME\tFILENAME\tURL")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Outcome, r.Request.SuggestedFilename, r.Request.SourceURL)
	}
	return tw.Flush()
}
