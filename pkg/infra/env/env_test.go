package env_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/spf13/afero"

	"github.com/m-mizutani/pdfsaver/pkg/domain/model"
	"github.com/m-mizutani/pdfsaver/pkg/infra/env"
)

type staticFetcher struct{}

func (staticFetcher) Fetch(ctx context.Context, url string) (*model.Content, error) {
	return &model.Content{Data: []byte("%PDF")}, nil
}

func TestNewHeadless(t *testing.T) {
	fs := afero.NewMemMapFs()
	e := env.NewHeadless(staticFetcher{}, env.WithFs(fs), env.WithDownloadDir("/dl"))

	gt.False(t, e.HasSavePicker())
	gt.Value(t, e.Notifier).NotNil()

	u := e.ObjectURLs.CreateObjectURL(&model.Content{Data: []byte("%PDF")})
	gt.NoError(t, e.Downloader.Download(context.Background(), u, "a.pdf"))

	exists, err := afero.Exists(fs, filepath.Join("/dl", "a.pdf"))
	gt.NoError(t, err)
	gt.True(t, exists)
}

func TestNewTerminal_NoTTY(t *testing.T) {
	r, w, err := os.Pipe()
	gt.NoError(t, err)
	defer r.Close()
	defer w.Close()

	e := env.NewTerminal(staticFetcher{},
		env.WithFs(afero.NewMemMapFs()),
		env.WithDialog(true),
		env.WithStdio(r, w),
	)
	gt.False(t, e.HasSavePicker())
	gt.Value(t, e.Downloader).NotNil()
}

func TestDefaultDownloadDir(t *testing.T) {
	gt.Value(t, env.DefaultDownloadDir()).NotEqual("")
}
