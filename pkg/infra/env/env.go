package env

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/term"
	"golang.org/x/text/language"

	"github.com/m-mizutani/pdfsaver/pkg/domain/interfaces"
	"github.com/m-mizutani/pdfsaver/pkg/infra/dialog"
	"github.com/m-mizutani/pdfsaver/pkg/infra/download"
	"github.com/m-mizutani/pdfsaver/pkg/infra/notify"
	"github.com/m-mizutani/pdfsaver/pkg/infra/objecturl"
)

type config struct {
	fs          afero.Fs
	downloadDir string
	dialogDir   string
	dialog      bool
	lang        language.Tag
	stdin       *os.File
	stderr      *os.File
}

// Option configures the environment
type Option func(*config)

// WithFs replaces the OS filesystem
func WithFs(fs afero.Fs) Option {
	return func(c *config) {
		c.fs = fs
	}
}

// WithDownloadDir sets where fallback downloads are stored
func WithDownloadDir(dir string) Option {
	return func(c *config) {
		c.downloadDir = dir
	}
}

// WithDialogDir sets the directory proposed by the save dialog
func WithDialogDir(dir string) Option {
	return func(c *config) {
		c.dialogDir = dir
	}
}

// WithDialog enables or disables the interactive dialog
func WithDialog(enabled bool) Option {
	return func(c *config) {
		c.dialog = enabled
	}
}

// WithStdio sets the terminal streams probed for dialog support
func WithStdio(stdin, stderr *os.File) Option {
	return func(c *config) {
		c.stdin = stdin
		c.stderr = stderr
	}
}

// WithLanguage selects the alert language
func WithLanguage(tag language.Tag) Option {
	return func(c *config) {
		c.lang = tag
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		fs:          afero.NewOsFs(),
		downloadDir: DefaultDownloadDir(),
		dialog:      true,
		lang:        language.English,
		stdin:       os.Stdin,
		stderr:      os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dialogDir == "" {
		c.dialogDir = c.downloadDir
	}
	return c
}

// NewTerminal builds the environment of an interactive terminal session.
// The save dialog is only offered when enabled and stdin is a terminal.
func NewTerminal(fetcher interfaces.Fetcher, opts ...Option) *interfaces.Environment {
	c := newConfig(opts)
	urls := objecturl.New("pdfsaver")

	e := &interfaces.Environment{
		Fetcher:    fetcher,
		ObjectURLs: urls,
		Downloader: download.New(c.fs, c.downloadDir, urls),
	}

	if isTerminal(c.stdin) {
		e.Notifier = notify.NewTerminal(notify.WithLanguage(c.lang), notify.WithIO(c.stdin, c.stderr))
	} else {
		e.Notifier = notify.NewTerminal(notify.WithLanguage(c.lang), notify.WithIO(nil, c.stderr))
	}

	if c.dialog && isTerminal(c.stdin) {
		e.SavePicker = dialog.New(c.fs, c.dialogDir, dialog.WithIO(c.stdin, c.stderr))
	}

	return e
}

// NewHeadless builds an environment without dialog; alerts go to the log
func NewHeadless(fetcher interfaces.Fetcher, opts ...Option) *interfaces.Environment {
	c := newConfig(opts)
	urls := objecturl.New("pdfsaver")

	return &interfaces.Environment{
		Fetcher:    fetcher,
		ObjectURLs: urls,
		Downloader: download.New(c.fs, c.downloadDir, urls),
		Notifier:   notify.NewLog(c.lang),
	}
}

// DefaultDownloadDir returns ~/Downloads, or the working directory when the
// home directory is unknown
func DefaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

func isTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
