package download

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/afero"

	"github.com/m-mizutani/pdfsaver/pkg/domain/interfaces"
	"github.com/m-mizutani/pdfsaver/pkg/domain/types"
)

// DefaultFilename is used when the suggested name normalizes to nothing
const DefaultFilename = "download.pdf"

// maxDuplicates bounds the " (n)" suffix search
const maxDuplicates = 10000

// Downloader writes object URL content into a downloads directory, the way a
// browser handles an anchor with a download attribute.
type Downloader struct {
	fs   afero.Fs
	dir  string
	urls interfaces.ObjectURLs
}

var _ interfaces.Downloader = (*Downloader)(nil)

// New creates a Downloader storing files under dir on fs
func New(fs afero.Fs, dir string, urls interfaces.ObjectURLs) *Downloader {
	return &Downloader{
		fs:   fs,
		dir:  dir,
		urls: urls,
	}
}

// Download stores the content behind objectURL as filename. An existing file
// is never overwritten; a numbered variant is chosen instead.
func (d *Downloader) Download(ctx context.Context, objectURL, filename string) error {
	logger := ctxlog.From(ctx)

	content, ok := d.urls.Resolve(objectURL)
	if !ok {
		return goerr.New("object URL is not registered",
			goerr.T(types.ErrTagFallbackSave),
			goerr.V("object_url", objectURL))
	}

	if err := d.fs.MkdirAll(d.dir, 0755); err != nil {
		return goerr.Wrap(err, "failed to create downloads directory",
			goerr.T(types.ErrTagFallbackSave),
			goerr.V("dir", d.dir))
	}

	name := SanitizeFilename(filename)
	f, dest, err := d.create(name)
	if err != nil {
		return err
	}

	if _, err := f.Write(content.Data); err != nil {
		_ = f.Close()
		_ = d.fs.Remove(dest)
		return goerr.Wrap(err, "failed to write download",
			goerr.T(types.ErrTagFallbackSave),
			goerr.V("path", dest))
	}
	if err := f.Close(); err != nil {
		_ = d.fs.Remove(dest)
		return goerr.Wrap(err, "failed to close download",
			goerr.T(types.ErrTagFallbackSave),
			goerr.V("path", dest))
	}

	logger.Info("Download stored",
		"path", dest,
		"size_bytes", len(content.Data),
	)
	return nil
}

// create opens the first free "name", "name (1)", "name (2)"... exclusively
func (d *Downloader) create(name string) (afero.File, string, error) {
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; i < maxDuplicates; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		dest := filepath.Join(d.dir, candidate)

		f, err := d.fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, dest, nil
		}
		if !os.IsExist(err) {
			return nil, "", goerr.Wrap(err, "failed to create download file",
				goerr.T(types.ErrTagFallbackSave),
				goerr.V("path", dest))
		}
	}

	return nil, "", goerr.New("too many files with the same name",
		goerr.T(types.ErrTagFallbackSave),
		goerr.V("dir", d.dir),
		goerr.V("name", name))
}

// SanitizeFilename turns a suggested name into a single, visible path element
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\':
			b.WriteRune('_')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}

	s := strings.TrimSpace(b.String())
	s = strings.TrimLeft(s, ".")
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultFilename
	}
	return s
}
