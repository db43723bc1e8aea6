package config

import (
	"net/url"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/language"

	"github.com/m-mizutani/pdfsaver/pkg/domain/interfaces"
	"github.com/m-mizutani/pdfsaver/pkg/infra/env"
	"github.com/m-mizutani/pdfsaver/pkg/infra/fetch"
)

// Saver holds fetch and save configuration
type Saver struct {
	DownloadDir string
	DialogDir   string
	NoDialog    bool
	Language    string
	BaseURL     string
	Token       string `masq:"secret"`
	Timeout     time.Duration
	Progress    bool
}

// Flags returns CLI flags for saver configuration
func (c *Saver) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "download-dir",
			Usage:       "Directory for automatic downloads (default: ~/Downloads)",
			Destination: &c.DownloadDir,
			Sources:     cli.EnvVars("PDFSAVER_DOWNLOAD_DIR"),
		},
		&cli.StringFlag{
			Name:        "dialog-dir",
			Usage:       "Directory proposed by the Save As dialog (default: download dir)",
			Destination: &c.DialogDir,
			Sources:     cli.EnvVars("PDFSAVER_DIALOG_DIR"),
		},
		&cli.BoolFlag{
			Name:        "no-dialog",
			Usage:       "Never show the Save As dialog; always download automatically",
			Destination: &c.NoDialog,
			Sources:     cli.EnvVars("PDFSAVER_NO_DIALOG"),
		},
		&cli.StringFlag{
			Name:        "lang",
			Usage:       "Language of user-facing messages (BCP 47, e.g. en, hr)",
			Value:       "en",
			Destination: &c.Language,
			Sources:     cli.EnvVars("PDFSAVER_LANG"),
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Origin used to resolve same-origin paths such as /offer/12/pdf",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("PDFSAVER_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "token",
			Usage:       "Bearer token sent when fetching documents from the base URL origin",
			Destination: &c.Token,
			Sources:     cli.EnvVars("PDFSAVER_TOKEN"),
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Fetch timeout (0 for none)",
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("PDFSAVER_TIMEOUT"),
		},
		&cli.BoolFlag{
			Name:        "progress",
			Usage:       "Show a download progress bar",
			Destination: &c.Progress,
			Sources:     cli.EnvVars("PDFSAVER_PROGRESS"),
		},
	}
}

// Lang parses the configured language
func (c *Saver) Lang() (language.Tag, error) {
	tag, err := language.Parse(c.Language)
	if err != nil {
		return language.Und, goerr.Wrap(err, "invalid language", goerr.V("lang", c.Language))
	}
	return tag, nil
}

// Fetcher builds the HTTP fetcher
func (c *Saver) Fetcher() (interfaces.Fetcher, error) {
	var opts []fetch.Option

	if c.BaseURL != "" {
		base, err := url.Parse(c.BaseURL)
		if err != nil || base.Scheme == "" || base.Host == "" {
			return nil, goerr.New("invalid base URL", goerr.V("base_url", c.BaseURL))
		}
		opts = append(opts, fetch.WithBaseURL(base))
	}
	if c.Token != "" {
		if c.BaseURL == "" {
			return nil, goerr.New("token requires a base URL; it is only sent to that origin")
		}
		opts = append(opts, fetch.WithToken(c.Token))
	}
	if c.Timeout > 0 {
		opts = append(opts, fetch.WithTimeout(c.Timeout))
	}
	if c.Progress {
		opts = append(opts, fetch.WithProgress(os.Stderr))
	}

	return fetch.NewClient(opts...), nil
}

// Environment builds the host environment. A headless environment never
// shows the dialog and reports alerts through the log.
func (c *Saver) Environment(headless bool) (*interfaces.Environment, error) {
	fetcher, err := c.Fetcher()
	if err != nil {
		return nil, err
	}
	lang, err := c.Lang()
	if err != nil {
		return nil, err
	}

	opts := []env.Option{
		env.WithLanguage(lang),
		env.WithDialog(!c.NoDialog),
	}
	if c.DownloadDir != "" {
		opts = append(opts, env.WithDownloadDir(c.DownloadDir))
	}
	if c.DialogDir != "" {
		opts = append(opts, env.WithDialogDir(c.DialogDir))
	}

	if headless {
		return env.NewHeadless(fetcher, opts...), nil
	}
	return env.NewTerminal(fetcher, opts...), nil
}
